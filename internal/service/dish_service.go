package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"overcooked-menu/internal/domain"
	"overcooked-menu/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const latestReviewMaxRunes = 50

type DishService struct {
	dishes  CollectionStore[domain.Dish]
	reviews ReviewLister
	images  ImageStore
	logger  *zap.SugaredLogger
}

func NewDishService(dishes CollectionStore[domain.Dish], reviews ReviewLister, images ImageStore, logger *zap.SugaredLogger) *DishService {
	return &DishService{
		dishes:  dishes,
		reviews: reviews,
		images:  images,
		logger:  logger,
	}
}

func (s *DishService) ListAll(ctx context.Context) ([]domain.DishView, error) {
	dishes, err := s.loadOrSeed()
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(ctx, dishes)
}

func (s *DishService) ListByCategory(ctx context.Context, category string) ([]domain.DishView, error) {
	dishes, err := s.loadOrSeed()
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Dish, 0, len(dishes))
	for _, dish := range dishes {
		if strings.EqualFold(dish.Category, category) {
			matched = append(matched, dish)
		}
	}
	if len(matched) == 0 {
		s.logger.Infow("no dishes in category", "category", category, "dishes", len(dishes))
	}
	return s.summarizeAll(ctx, matched)
}

// Get returns the dish with its rating summary and every review attached.
func (s *DishService) Get(ctx context.Context, id string) (*domain.DishView, error) {
	dish, ok := findByID(s.dishes.Load(), id, func(d domain.Dish) string { return d.ID })
	if !ok {
		return nil, notFound("dish", id)
	}

	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	own := reviewsOf(reviews, id)
	view := summarize(dish, own)
	view.Reviews = own
	return &view, nil
}

func (s *DishService) Create(ctx context.Context, in domain.DishInput) (*domain.DishView, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	imagePath := s.images.DefaultDishImage(in.Category)
	if in.ImageData != "" {
		ref, err := s.images.SaveBase64(storage.ImageAreaDishes, in.ImageData)
		if err != nil {
			return nil, imageError(err)
		}
		imagePath = ref
	}

	dish := domain.Dish{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		Price:       *in.Price,
		Description: in.Description,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		ImagePath:   imagePath,
		Timestamp:   domain.Timestamp(time.Now()),
	}

	if _, err := s.dishes.Mutate(func(dishes []domain.Dish) ([]domain.Dish, error) {
		return append(dishes, dish), nil
	}); err != nil {
		return nil, err
	}

	s.logger.Infow("dish created", "dish_id", dish.ID, "category", dish.Category)
	view := summarize(dish, nil)
	return &view, nil
}

// Update merges patch over the stored dish. A replaced image file is left on disk.
func (s *DishService) Update(ctx context.Context, id string, patch domain.DishPatch) (*domain.DishView, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, invalid("price must not be negative")
	}

	var updated domain.Dish
	_, err := s.dishes.Mutate(func(dishes []domain.Dish) ([]domain.Dish, error) {
		i := indexByID(dishes, id, func(d domain.Dish) string { return d.ID })
		if i < 0 {
			return nil, notFound("dish", id)
		}

		dish := dishes[i]
		applyDishPatch(&dish, patch)
		if patch.ImageData != "" {
			ref, err := s.images.SaveBase64(storage.ImageAreaDishes, patch.ImageData)
			if err != nil {
				return nil, imageError(err)
			}
			dish.ImagePath = ref
		}
		dish.UpdatedAt = domain.Timestamp(time.Now())

		dishes[i] = dish
		updated = dish
		return dishes, nil
	})
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	view := summarize(updated, reviewsOf(reviews, id))
	return &view, nil
}

// Delete removes only the dish. Reviews and order lines that reference it stay.
func (s *DishService) Delete(ctx context.Context, id string) error {
	_, err := s.dishes.Mutate(func(dishes []domain.Dish) ([]domain.Dish, error) {
		i := indexByID(dishes, id, func(d domain.Dish) string { return d.ID })
		if i < 0 {
			return nil, notFound("dish", id)
		}
		return append(dishes[:i], dishes[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.logger.Infow("dish deleted", "dish_id", id)
	return nil
}

// Catalog returns the stored dishes without derived fields and without seeding.
func (s *DishService) Catalog(ctx context.Context) []domain.Dish {
	return s.dishes.Load()
}

func (s *DishService) loadOrSeed() ([]domain.Dish, error) {
	dishes := s.dishes.Load()
	if len(dishes) > 0 {
		return dishes, nil
	}

	seeded := false
	dishes, err := s.dishes.Mutate(func(current []domain.Dish) ([]domain.Dish, error) {
		if len(current) > 0 {
			return current, nil
		}
		seeded = true
		return sampleDishes(s.images, domain.Timestamp(time.Now())), nil
	})
	if err != nil {
		return nil, err
	}
	if seeded {
		s.logger.Infow("seeded sample dishes", "count", len(dishes))
	}
	return dishes, nil
}

func (s *DishService) summarizeAll(ctx context.Context, dishes []domain.Dish) ([]domain.DishView, error) {
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byDish := make(map[string][]domain.Review)
	for _, review := range reviews {
		byDish[review.DishID] = append(byDish[review.DishID], review)
	}

	views := make([]domain.DishView, 0, len(dishes))
	for _, dish := range dishes {
		views = append(views, summarize(dish, byDish[dish.ID]))
	}
	return views, nil
}

// summarize fills the derived rating fields of a dish from its reviews.
func summarize(dish domain.Dish, reviews []domain.Review) domain.DishView {
	view := domain.DishView{Dish: dish, ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return view
	}

	sum := 0
	latest := reviews[0]
	for _, review := range reviews {
		sum += review.Rating
		if review.Timestamp > latest.Timestamp {
			latest = review
		}
	}

	avg := float64(sum) / float64(len(reviews))
	excerpt := truncateComment(latest.Comment)
	view.AvgRating = &avg
	view.LatestReview = &excerpt
	return view
}

func truncateComment(comment string) string {
	if utf8.RuneCountInString(comment) <= latestReviewMaxRunes {
		return comment
	}
	return string([]rune(comment)[:latestReviewMaxRunes]) + "..."
}

func applyDishPatch(dish *domain.Dish, patch domain.DishPatch) {
	if patch.Name != nil {
		dish.Name = *patch.Name
	}
	if patch.Category != nil {
		dish.Category = *patch.Category
	}
	if patch.Price != nil {
		dish.Price = *patch.Price
	}
	if patch.Description != nil {
		dish.Description = *patch.Description
	}
	if patch.Ingredients != nil {
		dish.Ingredients = *patch.Ingredients
	}
	if patch.Steps != nil {
		dish.Steps = *patch.Steps
	}
}

func reviewsOf(reviews []domain.Review, dishID string) []domain.Review {
	var own []domain.Review
	for _, review := range reviews {
		if review.DishID == dishID {
			own = append(own, review)
		}
	}
	return own
}

func indexByID[T any](records []T, id string, key func(T) string) int {
	for i, record := range records {
		if key(record) == id {
			return i
		}
	}
	return -1
}

func findByID[T any](records []T, id string, key func(T) string) (T, bool) {
	if i := indexByID(records, id, key); i >= 0 {
		return records[i], true
	}
	var zero T
	return zero, false
}

// imageError reports undecodable payloads as validation failures and anything else as internal.
func imageError(err error) error {
	if errors.Is(err, storage.ErrImageDecode) {
		return invalid("image processing failed: %v", err)
	}
	return fmt.Errorf("store image: %w", err)
}

var _ DishServiceInterface = (*DishService)(nil)
