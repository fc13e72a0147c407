package blob

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Memory keeps uploads in process memory and serves them under memory:// URLs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
}

type Object struct {
	ContentType string
	Data        []byte
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

func (m *Memory) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[objectPath] = Object{ContentType: contentType, Data: buf.Bytes()}
	m.mu.Unlock()
	return URLPrefix + objectPath, nil
}

// URLPrefix prefixes every URL returned by Memory.
const URLPrefix = "memory://"

// Get returns a stored object by path.
func (m *Memory) Get(objectPath string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[objectPath]
	return o, ok
}
