package domain

import "time"

// TimestampLayout mirrors an ISO-8601 local timestamp with microseconds. Values
// of this layout sort chronologically under plain string comparison.
const TimestampLayout = "2006-01-02T15:04:05.000000"

func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

const AnonymousUser = "anonymous"

type Dish struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	ImagePath   string   `json:"image_path"`
	Timestamp   string   `json:"timestamp"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// DishView is a dish as returned to callers. The rating fields are computed
// from the reviews collection on every read and never written back.
type DishView struct {
	Dish
	AvgRating    *float64 `json:"avg_rating"`
	LatestReview *string  `json:"latest_review"`
	ReviewCount  int      `json:"review_count"`
	Reviews      []Review `json:"reviews,omitempty"`
}

type DishInput struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description string   `json:"description" validate:"required"`
	Ingredients []string `json:"ingredients" validate:"required"`
	Steps       []string `json:"steps" validate:"required"`
	ImageData   string   `json:"image_data,omitempty"`
}

// DishPatch lists the fields a dish update may touch. Nil members are left as they are.
type DishPatch struct {
	Name        *string   `json:"name,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Description *string   `json:"description,omitempty"`
	Ingredients *[]string `json:"ingredients,omitempty"`
	Steps       *[]string `json:"steps,omitempty"`
	ImageData   string    `json:"image_data,omitempty"`
}

type Review struct {
	ID         string   `json:"id"`
	DishID     string   `json:"dish_id"`
	Rating     int      `json:"rating"`
	Comment    string   `json:"comment"`
	ImagePaths []string `json:"image_paths"`
	UserName   string   `json:"user_name"`
	Timestamp  string   `json:"timestamp"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

type ReviewInput struct {
	DishID   string   `json:"dish_id" validate:"required"`
	Rating   *int     `json:"rating" validate:"required"`
	Comment  *string  `json:"comment" validate:"required"`
	// UserName defaults to AnonymousUser only when absent.
	UserName *string  `json:"user_name,omitempty"`
	Images   []string `json:"images,omitempty"`
}

// ReviewPatch never carries id or dish_id; images are appended, not replaced.
type ReviewPatch struct {
	Rating   *int     `json:"rating,omitempty"`
	Comment  *string  `json:"comment,omitempty"`
	UserName *string  `json:"user_name,omitempty"`
	Images   []string `json:"images,omitempty"`
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCooking   OrderStatus = "cooking"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusPending, StatusCooking, StatusReady, StatusCompleted, StatusCancelled}

// Valid reports set membership only. Any valid status may follow any other.
func (s OrderStatus) Valid() bool {
	for _, candidate := range OrderStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

type Order struct {
	ID         string      `json:"id"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	Timestamp  string      `json:"timestamp"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
	Note       string      `json:"note"`
}

// OrderItem copies name, price and image from the dish when the order is placed.
type OrderItem struct {
	DishID    string  `json:"dish_id"`
	DishName  string  `json:"dish_name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	ImagePath string  `json:"image_path"`
}

type OrderLine struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

type OrderInput struct {
	Items []OrderLine `json:"items"`
	Note  string      `json:"note"`
}

type DishPopularity struct {
	DishID string  `json:"dish_id"`
	Score  float64 `json:"score"`
}

const (
	EventReviewCreated      = "review_created"
	EventReviewUpdated      = "review_updated"
	EventReviewDeleted      = "review_deleted"
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

type Event struct {
	Type      string    `json:"type"`
	DishID    string    `json:"dish_id,omitempty"`
	ReviewID  string    `json:"review_id,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
	Rating    int       `json:"rating,omitempty"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Key groups events of one aggregate on the same partition.
func (e Event) Key() string {
	switch {
	case e.OrderID != "":
		return e.OrderID
	case e.DishID != "":
		return e.DishID
	default:
		return e.ReviewID
	}
}
