package mocks

import (
	"context"
	"sync"

	"github.com/citasmx/citas-api/internal/store"
)

// MockLister implements store.Lister for any row and filter type.
//
// Without custom functions, List returns Items (paged by the requested page)
// and GetByID looks the id up in Rows, returning NotFoundErr when absent.
type MockLister[T any, F any] struct {
	ListFn    func(ctx context.Context, filter F, page store.Page) (store.Result[T], error)
	GetByIDFn func(ctx context.Context, id int64) (*T, error)

	Items       []T
	Rows        map[int64]*T
	Err         error
	NotFoundErr error

	mu          sync.Mutex
	ListCalls   []F
	GetByIDIDs  []int64
	RequestedPg []store.Page
}

// List implements store.Lister.
func (m *MockLister[T, F]) List(ctx context.Context, filter F, page store.Page) (store.Result[T], error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, filter)
	m.RequestedPg = append(m.RequestedPg, page)
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page)
	}
	if m.Err != nil {
		return store.Result[T]{}, m.Err
	}

	total := len(m.Items)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Limit()
	if end > total {
		end = total
	}
	return store.Result[T]{Items: m.Items[start:end], Total: total}, nil
}

// GetByID implements store.Lister.
func (m *MockLister[T, F]) GetByID(ctx context.Context, id int64) (*T, error) {
	m.mu.Lock()
	m.GetByIDIDs = append(m.GetByIDIDs, id)
	m.mu.Unlock()

	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if row, ok := m.Rows[id]; ok {
		return row, nil
	}
	if m.NotFoundErr != nil {
		return nil, m.NotFoundErr
	}
	return nil, store.ErrNotFound
}

// ListCallCount returns how many times List was called.
func (m *MockLister[T, F]) ListCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ListCalls)
}
