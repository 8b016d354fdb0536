package utils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordlys/portfolio/shared"
)

func TestSplitList(t *testing.T) {
	t.Parallel()
	want := []string{"https://example.com", "http://localhost:8080"}
	got := SplitList(" https://example.com, ,http://localhost:8080 ")
	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}
	assert.Nil(t, SplitList(""))
}

func TestNewHTTPClient_SetsUserAgent(t *testing.T) {
	t.Parallel()
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := NewHTTPClient()
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	res, err := client.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, shared.USER_AGENT, gotUA)
	assert.Empty(t, req.Header.Get("User-Agent"), "caller's request should be left untouched")
}

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractDominantColours(t *testing.T) {
	t.Parallel()
	body := solidPNG(t, color.RGBA{R: 0x1d, G: 0xb9, B: 0x54, A: 0xff})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer ts.Close()

	colours, err := ExtractDominantColours(context.Background(), ts.Client(), ts.URL)
	require.NoError(t, err)
	require.NotEmpty(t, colours)
	for _, c := range colours {
		assert.True(t, strings.HasPrefix(c, "#"))
		assert.Len(t, c, 7)
	}
}

func TestExtractDominantColours_BadStatus(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := ExtractDominantColours(context.Background(), ts.Client(), ts.URL)
	assert.Error(t, err)
}

func TestDominantColours_NotAnImage(t *testing.T) {
	t.Parallel()
	_, err := DominantColours([]byte("definitely not a png"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "json")
	logger.Debug("too quiet")
	logger.Info("Portfolio is running", slog.String("addr", ":8080"))

	out := buf.String()
	assert.NotContains(t, out, "too quiet")
	assert.Contains(t, out, "Portfolio is running")
	assert.Contains(t, out, `"addr":":8080"`)
	assert.True(t, strings.HasPrefix(out, "{"))
}
