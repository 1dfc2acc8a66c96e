package service

import (
	"context"
	"time"

	"overcooked-menu/internal/domain"
	"overcooked-menu/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService struct {
	reviews   CollectionStore[domain.Review]
	images    ImageStore
	publisher EventPublisher
	logger    *zap.SugaredLogger
}

func NewReviewService(reviews CollectionStore[domain.Review], images ImageStore, publisher EventPublisher, logger *zap.SugaredLogger) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		images:    images,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.Load(), nil
}

func (s *ReviewService) ListByDish(ctx context.Context, dishID string) ([]domain.Review, error) {
	own := reviewsOf(s.reviews.Load(), dishID)
	if own == nil {
		own = []domain.Review{}
	}
	return own, nil
}

// Create stores the review and its images. Images written before a failing
// payload stay on disk.
func (s *ReviewService) Create(ctx context.Context, in domain.ReviewInput) (*domain.Review, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := validRating(*in.Rating); err != nil {
		return nil, err
	}

	paths, err := s.saveImages(in.Images)
	if err != nil {
		return nil, err
	}

	userName := domain.AnonymousUser
	if in.UserName != nil {
		userName = *in.UserName
	}

	review := domain.Review{
		ID:         uuid.NewString(),
		DishID:     in.DishID,
		Rating:     *in.Rating,
		Comment:    *in.Comment,
		ImagePaths: paths,
		UserName:   userName,
		Timestamp:  domain.Timestamp(time.Now()),
	}

	if _, err := s.reviews.Mutate(func(reviews []domain.Review) ([]domain.Review, error) {
		return append(reviews, review), nil
	}); err != nil {
		return nil, err
	}

	s.logger.Infow("review created", "review_id", review.ID, "dish_id", review.DishID, "rating", review.Rating)
	s.publish(ctx, domain.Event{
		Type:     domain.EventReviewCreated,
		DishID:   review.DishID,
		ReviewID: review.ID,
		Rating:   review.Rating,
	})
	return &review, nil
}

func (s *ReviewService) Update(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	var updated domain.Review
	_, err := s.reviews.Mutate(func(reviews []domain.Review) ([]domain.Review, error) {
		i := indexByID(reviews, id, func(r domain.Review) string { return r.ID })
		if i < 0 {
			return nil, notFound("review", id)
		}

		review := reviews[i]
		if patch.Rating != nil {
			if err := validRating(*patch.Rating); err != nil {
				return nil, err
			}
			review.Rating = *patch.Rating
		}
		if patch.Comment != nil {
			review.Comment = *patch.Comment
		}
		if patch.UserName != nil {
			review.UserName = *patch.UserName
		}

		added, err := s.saveImages(patch.Images)
		if err != nil {
			return nil, err
		}
		review.ImagePaths = append(append([]string{}, review.ImagePaths...), added...)
		review.UpdatedAt = domain.Timestamp(time.Now())

		reviews[i] = review
		updated = review
		return reviews, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("review updated", "review_id", id, "images", len(updated.ImagePaths))
	s.publish(ctx, domain.Event{
		Type:     domain.EventReviewUpdated,
		DishID:   updated.DishID,
		ReviewID: updated.ID,
		Rating:   updated.Rating,
	})
	return &updated, nil
}

// Delete removes the record first; image files are cleaned up afterwards and
// failures there are only logged.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	var removed domain.Review
	_, err := s.reviews.Mutate(func(reviews []domain.Review) ([]domain.Review, error) {
		i := indexByID(reviews, id, func(r domain.Review) string { return r.ID })
		if i < 0 {
			return nil, notFound("review", id)
		}
		removed = reviews[i]
		return append(reviews[:i], reviews[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	for _, ref := range removed.ImagePaths {
		if err := s.images.Delete(ref); err != nil {
			s.logger.Warnw("failed to delete review image", "path", ref, "error", err)
		}
	}

	s.logger.Infow("review deleted", "review_id", id, "dish_id", removed.DishID)
	s.publish(ctx, domain.Event{
		Type:     domain.EventReviewDeleted,
		DishID:   removed.DishID,
		ReviewID: removed.ID,
	})
	return nil
}

func (s *ReviewService) saveImages(payloads []string) ([]string, error) {
	paths := make([]string, 0, len(payloads))
	for i, payload := range payloads {
		ref, err := s.images.SaveBase64(storage.ImageAreaReviews, payload)
		if err != nil {
			if len(paths) > 0 {
				s.logger.Warnw("review images left on disk after failure", "written", paths, "failed_index", i)
			}
			return nil, imageError(err)
		}
		paths = append(paths, ref)
	}
	return paths, nil
}

func (s *ReviewService) publish(ctx context.Context, evt domain.Event) {
	publishEvent(ctx, s.publisher, s.logger, evt)
}

// publishTimeout caps how long a mutation waits on the event publisher.
var publishTimeout = 2 * time.Second

// publishEvent sends evt if a publisher is configured. The mutation it
// describes is already persisted, so failures are only logged.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.SugaredLogger, evt domain.Event) {
	if publisher == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := publisher.Publish(ctx, evt); err != nil {
		logger.Warnw("failed to publish event", "type", evt.Type, "key", evt.Key(), "error", err)
	}
}

var _ ReviewServiceInterface = (*ReviewService)(nil)
