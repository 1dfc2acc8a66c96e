package service

import (
	"encoding/base64"
	"path/filepath"
	"testing"

	"overcooked-menu/internal/domain"
	"overcooked-menu/internal/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	backend *storage.FileBackend
	dishes  *storage.Collection[domain.Dish]
	orders  *storage.Collection[domain.Order]
	reviews *storage.Collection[domain.Review]
	images  *storage.ImageStore
	logger  *zap.SugaredLogger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	logger := zap.NewNop().Sugar()
	backend := storage.NewFileBackend(filepath.Join(root, "data"))
	store := storage.NewStore(backend, logger)
	require.NoError(t, store.Init(storage.CollectionDishes, storage.CollectionOrders, storage.CollectionReviews))

	return &harness{
		backend: backend,
		dishes:  storage.NewCollection[domain.Dish](store, storage.CollectionDishes),
		orders:  storage.NewCollection[domain.Order](store, storage.CollectionOrders),
		reviews: storage.NewCollection[domain.Review](store, storage.CollectionReviews),
		images:  storage.NewImageStore(root),
		logger:  logger,
	}
}

func (h *harness) reviewService(publisher EventPublisher) *ReviewService {
	return NewReviewService(h.reviews, h.images, publisher, h.logger)
}

func (h *harness) dishService() *DishService {
	return NewDishService(h.dishes, h.reviewService(nil), h.images, h.logger)
}

func (h *harness) seedDishes(t *testing.T, dishes ...domain.Dish) {
	t.Helper()
	require.NoError(t, h.dishes.Save(dishes))
}

func (h *harness) seedReviews(t *testing.T, reviews ...domain.Review) {
	t.Helper()
	require.NoError(t, h.reviews.Save(reviews))
}

func jpegPayload(content string) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(content))
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int { return &i }
func strPtr(s string) *string { return &s }
