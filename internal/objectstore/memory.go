package objectstore

import (
	"context"
	"sort"
	"sync"

	"github.com/tyler180/nba-stats-backends/internal/schema"
)

// Memory is a process-local Store for dry runs and tests. Values are kept
// encoded so callers never share maps with the store.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	gets    int
	puts    int
}

func NewMemory() *Memory {
	return &Memory{objects: map[string][]byte{}}
}

func memKey(bucket, key string) string { return bucket + "|" + key }

func (m *Memory) Get(_ context.Context, bucket, key string) (schema.Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	b, ok := m.objects[memKey(bucket, key)]
	if !ok {
		return nil, ErrNotFound
	}
	return schema.DecodePayload(b)
}

func (m *Memory) Put(_ context.Context, bucket, key string, p schema.Payload) error {
	b, err := p.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.objects[memKey(bucket, key)] = b
	return nil
}

// Keys lists stored objects as bucket|key, sorted.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Counts returns how many Get and Put calls the store has served.
func (m *Memory) Counts() (gets, puts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets, m.puts
}
