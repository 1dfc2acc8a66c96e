package service

import (
	"context"

	"overcooked-menu/internal/domain"
	"overcooked-menu/internal/storage"
)

// CollectionStore is the document store contract the services are written against.
type CollectionStore[T any] interface {
	Load() []T
	Mutate(fn func(records []T) ([]T, error)) ([]T, error)
}

type ImageStore interface {
	SaveBase64(area, payload string) (string, error)
	Delete(ref string) error
	DefaultDishImage(category string) string
}

type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

type OrderStats interface {
	RecordOrder(ctx context.Context, day string, items []domain.OrderItem) error
	TopDishes(ctx context.Context, day string, n int) ([]domain.DishPopularity, error)
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// ReviewLister is the read side of the review service the dish service joins against.
type ReviewLister interface {
	ListAll(ctx context.Context) ([]domain.Review, error)
}

// DishCatalog is the read side of the dish service the order service prices against.
type DishCatalog interface {
	Catalog(ctx context.Context) []domain.Dish
}

type DishServiceInterface interface {
	ListAll(ctx context.Context) ([]domain.DishView, error)
	ListByCategory(ctx context.Context, category string) ([]domain.DishView, error)
	Get(ctx context.Context, id string) (*domain.DishView, error)
	Create(ctx context.Context, in domain.DishInput) (*domain.DishView, error)
	Update(ctx context.Context, id string, patch domain.DishPatch) (*domain.DishView, error)
	Delete(ctx context.Context, id string) error
}

type ReviewServiceInterface interface {
	ListAll(ctx context.Context) ([]domain.Review, error)
	ListByDish(ctx context.Context, dishID string) ([]domain.Review, error)
	Create(ctx context.Context, in domain.ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type OrderServiceInterface interface {
	ListAll(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, items []domain.OrderLine, note string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	QRCode(ctx context.Context, id string) ([]byte, error)
	Popular(ctx context.Context, day string, n int) ([]domain.DishPopularity, error)
}

var (
	_ CollectionStore[domain.Dish] = (*storage.Collection[domain.Dish])(nil)
	_ ImageStore                   = (*storage.ImageStore)(nil)
	_ EventPublisher               = (*storage.KafkaPublisher)(nil)
	_ OrderStats                   = (*storage.RedisStats)(nil)
	_ QRGenerator                  = DefaultQRGenerator{}
	_ ReviewLister                 = (*ReviewService)(nil)
	_ DishCatalog                  = (*DishService)(nil)
)
