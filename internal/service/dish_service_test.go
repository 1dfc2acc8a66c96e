package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"overcooked-menu/internal/domain"
	"overcooked-menu/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDishInput() domain.DishInput {
	return domain.DishInput{
		Name:        "Mapo Tofu",
		Category:    "hot",
		Price:       floatPtr(32.5),
		Description: "Numbing and spicy",
		Ingredients: []string{"tofu", "minced beef", "doubanjiang"},
		Steps:       []string{"brown the beef", "add sauce", "simmer tofu"},
	}
}

func TestDishCreateAndGetRoundTrip(t *testing.T) {
	h := newHarness(t)
	svc := h.dishService()
	ctx := context.Background()
	in := validDishInput()

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, *in.Price, got.Price)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.Ingredients, got.Ingredients)
	assert.Equal(t, in.Steps, got.Steps)
	assert.Equal(t, "/static/images/dishes/default-hot.jpg", got.ImagePath)
	assert.NotEmpty(t, got.Timestamp)
	assert.Empty(t, got.UpdatedAt)
	assert.Nil(t, got.AvgRating)
	assert.Nil(t, got.LatestReview)
	assert.Zero(t, got.ReviewCount)
}

func TestDishCreateWithImage(t *testing.T) {
	h := newHarness(t)
	in := validDishInput()
	in.ImageData = jpegPayload("jpeg bytes")

	created, err := h.dishService().Create(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.ImagePath, "/static/images/dishes/"))
	assert.NotContains(t, created.ImagePath, "default-")
	path, err := h.images.Resolve(created.ImagePath)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestDishCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.DishInput)
		errMsg string
	}{
		{name: "missing name", mutate: func(in *domain.DishInput) { in.Name = "" }, errMsg: "name"},
		{name: "missing category", mutate: func(in *domain.DishInput) { in.Category = "" }, errMsg: "category"},
		{name: "missing price", mutate: func(in *domain.DishInput) { in.Price = nil }, errMsg: "price"},
		{name: "negative price", mutate: func(in *domain.DishInput) { in.Price = floatPtr(-1) }, errMsg: "price"},
		{name: "missing description", mutate: func(in *domain.DishInput) { in.Description = "" }, errMsg: "description"},
		{name: "missing ingredients", mutate: func(in *domain.DishInput) { in.Ingredients = nil }, errMsg: "ingredients"},
		{name: "missing steps", mutate: func(in *domain.DishInput) { in.Steps = nil }, errMsg: "steps"},
		{name: "undecodable image", mutate: func(in *domain.DishInput) { in.ImageData = "data:image/jpeg;base64,!!!" }, errMsg: "image"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			h := newHarness(t)
			in := validDishInput()
			testCase.mutate(&in)

			_, err := h.dishService().Create(context.Background(), in)

			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), testCase.errMsg)
			assert.Empty(t, h.dishes.Load())
		})
	}
}

func TestDishCreateAcceptsZeroPriceAndEmptyLists(t *testing.T) {
	h := newHarness(t)
	in := validDishInput()
	in.Price = floatPtr(0)
	in.Ingredients = []string{}
	in.Steps = []string{}

	_, err := h.dishService().Create(context.Background(), in)

	assert.NoError(t, err)
}

func TestDishListSeedsEmptyCollection(t *testing.T) {
	h := newHarness(t)
	svc := h.dishService()

	dishes, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, dishes, 6)
	assert.Len(t, h.dishes.Load(), 6)

	again, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 6, "seeding happens once")

	categories := make(map[string]bool)
	for _, dish := range dishes {
		categories[dish.Category] = true
		assert.Equal(t, "/static/images/dishes/default-"+dish.Category+".jpg", dish.ImagePath)
	}
	assert.Len(t, categories, 6)
}

func TestDishListByCategory(t *testing.T) {
	h := newHarness(t)
	h.seedDishes(t,
		domain.Dish{ID: "d1", Name: "Soup", Category: "hot"},
		domain.Dish{ID: "d2", Name: "Salad", Category: "cold"},
		domain.Dish{ID: "d3", Name: "Stew", Category: "Hot"},
	)
	svc := h.dishService()

	hot, err := svc.ListByCategory(context.Background(), "hot")
	require.NoError(t, err)
	require.Len(t, hot, 2)
	assert.Equal(t, "d1", hot[0].ID)
	assert.Equal(t, "d3", hot[1].ID)

	none, err := svc.ListByCategory(context.Background(), "dessert")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDishDerivedFields(t *testing.T) {
	h := newHarness(t)
	h.seedDishes(t,
		domain.Dish{ID: "d1", Name: "Soup", Category: "hot"},
		domain.Dish{ID: "d2", Name: "Salad", Category: "cold"},
	)
	longComment := strings.Repeat("好", 60)
	h.seedReviews(t,
		domain.Review{ID: "r1", DishID: "d1", Rating: 5, Comment: "older", Timestamp: "2024-01-01T10:00:00.000000"},
		domain.Review{ID: "r2", DishID: "d1", Rating: 2, Comment: longComment, Timestamp: "2024-01-02T10:00:00.000000"},
		domain.Review{ID: "r3", DishID: "d1", Rating: 4, Comment: "middle", Timestamp: "2024-01-01T12:00:00.000000"},
		domain.Review{ID: "r4", DishID: "ghost", Rating: 1, Comment: "orphan", Timestamp: "2025-01-01T00:00:00.000000"},
	)

	views, err := h.dishService().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	soup := views[0]
	require.NotNil(t, soup.AvgRating)
	assert.InDelta(t, 11.0/3.0, *soup.AvgRating, 1e-9)
	require.NotNil(t, soup.LatestReview)
	assert.Equal(t, strings.Repeat("好", 50)+"...", *soup.LatestReview)
	assert.Equal(t, 3, soup.ReviewCount)

	salad := views[1]
	assert.Nil(t, salad.AvgRating)
	assert.Nil(t, salad.LatestReview)
	assert.Zero(t, salad.ReviewCount)
}

func TestDishDerivedFieldsAreNotPersisted(t *testing.T) {
	h := newHarness(t)
	h.seedDishes(t, domain.Dish{ID: "d1", Name: "Soup", Category: "hot"})
	h.seedReviews(t, domain.Review{ID: "r1", DishID: "d1", Rating: 3, Comment: "ok", Timestamp: "2024-01-01T10:00:00.000000"})

	_, err := h.dishService().ListAll(context.Background())
	require.NoError(t, err)

	raw, err := h.backend.Read("dishes")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "avg_rating")
	assert.NotContains(t, string(raw), "latest_review")
}

func TestSummarizeLatestReviewTieKeepsFirst(t *testing.T) {
	stamp := "2024-01-01T10:00:00.000000"
	view := summarize(domain.Dish{ID: "d1"}, []domain.Review{
		{ID: "r1", DishID: "d1", Rating: 4, Comment: "first", Timestamp: stamp},
		{ID: "r2", DishID: "d1", Rating: 2, Comment: "second", Timestamp: stamp},
	})

	require.NotNil(t, view.LatestReview)
	assert.Equal(t, "first", *view.LatestReview)
	assert.Equal(t, 3.0, *view.AvgRating)
}

func TestTruncateComment(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    string
	}{
		{name: "short", comment: "tasty", want: "tasty"},
		{name: "empty", comment: "", want: ""},
		{name: "exactly fifty", comment: strings.Repeat("a", 50), want: strings.Repeat("a", 50)},
		{name: "fifty one", comment: strings.Repeat("a", 51), want: strings.Repeat("a", 50) + "..."},
		{name: "multibyte", comment: strings.Repeat("辣", 51), want: strings.Repeat("辣", 50) + "..."},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, truncateComment(testCase.comment))
		})
	}
}

func TestDishGetAttachesReviews(t *testing.T) {
	h := newHarness(t)
	h.seedDishes(t, domain.Dish{ID: "d1", Name: "Soup", Category: "hot"})
	h.seedReviews(t,
		domain.Review{ID: "r1", DishID: "d1", Rating: 5, Comment: "great", Timestamp: "2024-01-01T10:00:00.000000"},
		domain.Review{ID: "r2", DishID: "d2", Rating: 1, Comment: "other dish", Timestamp: "2024-01-01T10:00:00.000000"},
	)

	got, err := h.dishService().Get(context.Background(), "d1")
	require.NoError(t, err)

	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "r1", got.Reviews[0].ID)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestDishGetNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.dishService().Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDishUpdate(t *testing.T) {
	h := newHarness(t)
	original := domain.Dish{
		ID: "d1", Name: "Soup", Category: "hot", Price: 10, Description: "plain",
		Ingredients: []string{"water"}, Steps: []string{"boil"},
		ImagePath: "/static/images/dishes/default-hot.jpg", Timestamp: "2024-01-01T10:00:00.000000",
	}
	h.seedDishes(t, original)
	svc := h.dishService()

	updated, err := svc.Update(context.Background(), "d1", domain.DishPatch{
		Price:       floatPtr(12),
		Ingredients: &[]string{"water", "salt"},
	})
	require.NoError(t, err)

	assert.Equal(t, 12.0, updated.Price)
	assert.Equal(t, []string{"water", "salt"}, updated.Ingredients)
	assert.Equal(t, "Soup", updated.Name)
	assert.Equal(t, original.Timestamp, updated.Timestamp)
	assert.NotEmpty(t, updated.UpdatedAt)

	stored := h.dishes.Load()
	require.Len(t, stored, 1)
	assert.Equal(t, 12.0, stored[0].Price)
	assert.Equal(t, original.Steps, stored[0].Steps)
}

func TestDishUpdateErrors(t *testing.T) {
	h := newHarness(t)
	h.seedDishes(t, domain.Dish{ID: "d1", Name: "Soup", Category: "hot", Price: 10})
	svc := h.dishService()

	_, err := svc.Update(context.Background(), "missing", domain.DishPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), "d1", domain.DishPatch{Price: floatPtr(-3)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(context.Background(), "d1", domain.DishPatch{ImageData: "???"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 10.0, h.dishes.Load()[0].Price)
	assert.Empty(t, h.dishes.Load()[0].UpdatedAt)
}

func TestDishDeleteLeavesReviewsOrphaned(t *testing.T) {
	h := newHarness(t)
	h.seedDishes(t,
		domain.Dish{ID: "d1", Name: "Soup", Category: "hot"},
		domain.Dish{ID: "d2", Name: "Salad", Category: "cold"},
	)
	h.seedReviews(t, domain.Review{ID: "r1", DishID: "d1", Rating: 4, Comment: "ok"})
	svc := h.dishService()

	require.NoError(t, svc.Delete(context.Background(), "d1"))

	dishes := h.dishes.Load()
	require.Len(t, dishes, 1)
	assert.Equal(t, "d2", dishes[0].ID)
	reviews := h.reviews.Load()
	require.Len(t, reviews, 1)
	assert.Equal(t, "d1", reviews[0].DishID)

	assert.ErrorIs(t, svc.Delete(context.Background(), "d1"), ErrNotFound)
}

func TestDishCreateKeepsCollectionWithUndecodableRecord(t *testing.T) {
	h := newHarness(t)
	original := `[{"id":"d1","name":"Soup","category":"hot","price":10},{"id":"d2","name":"Tea","category":"drink","price":"12"}]`
	require.NoError(t, h.backend.Write(storage.CollectionDishes, []byte(original)))
	svc := h.dishService()
	ctx := context.Background()

	_, err := svc.Create(ctx, validDishInput())

	assert.ErrorIs(t, err, storage.ErrCollectionDamaged)
	got, err := svc.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Name)
	data, err := os.ReadFile(h.backend.Path(storage.CollectionDishes))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}
