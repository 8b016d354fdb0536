package utils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	color_extractor "github.com/marekm4/color-extractor"
)

// maxImageBytes bounds cover art downloads. Spotify album art tops out around 640x640.
const maxImageBytes = 5 << 20

// ExtractDominantColours downloads an image and returns its dominant colours as
// hex strings, most dominant first
func ExtractDominantColours(ctx context.Context, client *http.Client, imageUrl string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageUrl, nil)
	if err != nil {
		return nil, err
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching image: %s", res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}

	return DominantColours(body)
}

func DominantColours(body []byte) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	var domColours []string
	for _, c := range color_extractor.ExtractColors(img) {
		domColours = append(domColours, colorToHexString(c))
	}
	return domColours, nil
}

func colorToHexString(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%.2x%.2x%.2x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
