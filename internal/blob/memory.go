package blob

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/wayplan/wayplan/internal/common"
)

// MemStore is an in-memory Store used by tests. It records the order of
// operations so tests can assert write ordering.
type MemStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Ops lists performed operations as "put <key>", "move <old> <new>",
	// "delete <key>".
	Ops []string

	// FailPut, FailMove, FailDelete force the next matching operation
	// to fail when the key matches (or on any key when set to "*").
	FailPut    string
	FailMove   string
	FailDelete string
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

func (m *MemStore) fails(pattern, key string) bool {
	return pattern != "" && (pattern == "*" || pattern == key)
}

func (m *MemStore) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails(m.FailPut, key) {
		return fmt.Errorf("%w: put %s: forced failure", common.ErrBlobOperation, key)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", common.ErrBlobOperation, key, err)
	}
	m.objects[key] = b
	m.Ops = append(m.Ops, "put "+key)
	return nil
}

func (m *MemStore) Move(ctx context.Context, oldKey, newKey string) error {
	if err := ValidateKey(newKey); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails(m.FailMove, oldKey) {
		return fmt.Errorf("%w: move %s: forced failure", common.ErrBlobOperation, oldKey)
	}
	b, ok := m.objects[oldKey]
	if !ok {
		return fmt.Errorf("%w: move %s: no such object", common.ErrBlobOperation, oldKey)
	}
	delete(m.objects, oldKey)
	m.objects[newKey] = b
	m.Ops = append(m.Ops, "move "+oldKey+" "+newKey)
	return nil
}

func (m *MemStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails(m.FailDelete, key) {
		return fmt.Errorf("%w: delete %s: forced failure", common.ErrBlobOperation, key)
	}
	delete(m.objects, key)
	m.Ops = append(m.Ops, "delete "+key)
	return nil
}

func (m *MemStore) PublicURL(key string) string {
	return "mem://" + key
}

// Get returns the stored bytes, for assertions.
func (m *MemStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}

// Len returns the number of stored objects.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
