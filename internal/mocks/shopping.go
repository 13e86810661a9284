package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
)

// MockShoppingService is a mock implementation of the shopping list service
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) Items(ctx context.Context, userID uint) ([]shoppinglist.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shoppinglist.Item), args.Error(1)
}

// Download mocks the Download method
func (m *MockShoppingService) Download(ctx context.Context, user *models.User, w io.Writer) error {
	args := m.Called(ctx, user, w)
	return args.Error(0)
}
