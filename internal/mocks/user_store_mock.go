package mocks

import (
	"context"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

// List is a mock implementation of store.UserStore.List
func (m *TestifyMockUserStore) List(
	ctx context.Context,
	filter store.UserFilter,
	page store.Page,
) (store.Result[domain.User], error) {
	args := m.Called(ctx, filter, page)
	if res, ok := args.Get(0).(store.Result[domain.User]); ok {
		return res, args.Error(1)
	}
	return store.Result[domain.User]{}, args.Error(1)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByEmail is a mock implementation of store.UserStore.GetByEmail
func (m *TestifyMockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
