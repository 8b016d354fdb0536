package db

import (
	"sync"
)

type MemoryStore struct {
	m    sync.Mutex
	data map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: map[string]int{},
	}
}

func (ms *MemoryStore) IncrementKudos(slug string) (int, error) {
	ms.m.Lock()
	defer ms.m.Unlock()
	ms.data[slug]++
	return ms.data[slug], nil
}

func (ms *MemoryStore) GetKudos(slug string) (int, error) {
	ms.m.Lock()
	defer ms.m.Unlock()
	return ms.data[slug], nil
}
