package mocks

import (
	"context"

	"overcooked-menu/internal/domain"

	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, evt domain.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type OrderStats struct {
	mock.Mock
}

func (m *OrderStats) RecordOrder(ctx context.Context, day string, items []domain.OrderItem) error {
	args := m.Called(ctx, day, items)
	return args.Error(0)
}

func (m *OrderStats) TopDishes(ctx context.Context, day string, n int) ([]domain.DishPopularity, error) {
	args := m.Called(ctx, day, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DishPopularity), args.Error(1)
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(orderID string) ([]byte, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type DishService struct {
	mock.Mock
}

func (m *DishService) ListAll(ctx context.Context) ([]domain.DishView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DishView), args.Error(1)
}

func (m *DishService) ListByCategory(ctx context.Context, category string) ([]domain.DishView, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DishView), args.Error(1)
}

func (m *DishService) Get(ctx context.Context, id string) (*domain.DishView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DishView), args.Error(1)
}

func (m *DishService) Create(ctx context.Context, in domain.DishInput) (*domain.DishView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DishView), args.Error(1)
}

func (m *DishService) Update(ctx context.Context, id string, patch domain.DishPatch) (*domain.DishView, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DishView), args.Error(1)
}

func (m *DishService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ReviewService struct {
	mock.Mock
}

func (m *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *ReviewService) ListByDish(ctx context.Context, dishID string) ([]domain.Review, error) {
	args := m.Called(ctx, dishID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *ReviewService) Create(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *ReviewService) Update(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *ReviewService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) Create(ctx context.Context, items []domain.OrderLine, note string) (*domain.Order, error) {
	args := m.Called(ctx, items, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *OrderService) QRCode(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *OrderService) Popular(ctx context.Context, day string, n int) ([]domain.DishPopularity, error) {
	args := m.Called(ctx, day, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DishPopularity), args.Error(1)
}
