package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"overcooked-menu/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const statsDayLayout = "2006-01-02"

type OrderService struct {
	orders    CollectionStore[domain.Order]
	dishes    DishCatalog
	stats     OrderStats
	publisher EventPublisher
	qr        QRGenerator
	logger    *zap.SugaredLogger
}

func NewOrderService(orders CollectionStore[domain.Order], dishes DishCatalog, stats OrderStats, publisher EventPublisher, qr QRGenerator, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{
		orders:    orders,
		dishes:    dishes,
		stats:     stats,
		publisher: publisher,
		qr:        qr,
		logger:    logger,
	}
}

// ListAll returns orders newest first. Orders with equal timestamps keep their stored order.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders := append([]domain.Order{}, s.orders.Load()...)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp > orders[j].Timestamp
	})
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, ok := findByID(s.orders.Load(), id, func(o domain.Order) string { return o.ID })
	if !ok {
		return nil, notFound("order", id)
	}
	return &order, nil
}

// Create prices every line from the current dish catalog. A line naming an
// unknown dish fails the whole order before anything is written.
func (s *OrderService) Create(ctx context.Context, lines []domain.OrderLine, note string) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, invalid("order must contain at least one item")
	}

	catalog := make(map[string]domain.Dish)
	for _, dish := range s.dishes.Catalog(ctx) {
		catalog[dish.ID] = dish
	}

	items := make([]domain.OrderItem, 0, len(lines))
	total := 0.0
	for i, line := range lines {
		if line.DishID == "" {
			return nil, invalid("missing required field: items[%d].dish_id", i)
		}
		if line.Quantity < 1 {
			return nil, invalid("items[%d].quantity must be at least 1, got %d", i, line.Quantity)
		}
		dish, ok := catalog[line.DishID]
		if !ok {
			return nil, invalid("dish %s does not exist", line.DishID)
		}

		lineTotal := dish.Price * float64(line.Quantity)
		items = append(items, domain.OrderItem{
			DishID:    dish.ID,
			DishName:  dish.Name,
			Quantity:  line.Quantity,
			Price:     dish.Price,
			Total:     lineTotal,
			ImagePath: dish.ImagePath,
		})
		total += lineTotal
	}

	now := time.Now()
	order := domain.Order{
		ID:         uuid.NewString(),
		Items:      items,
		TotalPrice: total,
		Status:     domain.StatusPending,
		Timestamp:  domain.Timestamp(now),
		Note:       note,
	}

	if _, err := s.orders.Mutate(func(orders []domain.Order) ([]domain.Order, error) {
		return append(orders, order), nil
	}); err != nil {
		return nil, err
	}

	s.logger.Infow("order created", "order_id", order.ID, "items", len(items), "total_price", total)

	if s.stats != nil {
		if err := s.stats.RecordOrder(ctx, now.Format(statsDayLayout), items); err != nil {
			s.logger.Warnw("failed to record order popularity", "order_id", order.ID, "error", err)
		}
	}
	publishEvent(ctx, s.publisher, s.logger, domain.Event{
		Type:    domain.EventOrderCreated,
		OrderID: order.ID,
		Status:  string(order.Status),
	})
	return &order, nil
}

// UpdateStatus accepts any valid status regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, invalid("invalid status %q, must be one of %v", status, domain.OrderStatuses)
	}

	var updated domain.Order
	_, err := s.orders.Mutate(func(orders []domain.Order) ([]domain.Order, error) {
		i := indexByID(orders, id, func(o domain.Order) string { return o.ID })
		if i < 0 {
			return nil, notFound("order", id)
		}
		orders[i].Status = status
		orders[i].UpdatedAt = domain.Timestamp(time.Now())
		updated = orders[i]
		return orders, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order status changed", "order_id", id, "status", status)
	publishEvent(ctx, s.publisher, s.logger, domain.Event{
		Type:    domain.EventOrderStatusChanged,
		OrderID: id,
		Status:  string(status),
	})
	return &updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	_, err := s.orders.Mutate(func(orders []domain.Order) ([]domain.Order, error) {
		i := indexByID(orders, id, func(o domain.Order) string { return o.ID })
		if i < 0 {
			return nil, notFound("order", id)
		}
		return append(orders[:i], orders[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.logger.Infow("order deleted", "order_id", id)
	return nil
}

func (s *OrderService) QRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(id)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}

// Popular returns the n most ordered dishes of day (YYYY-MM-DD), today when day is empty.
func (s *OrderService) Popular(ctx context.Context, day string, n int) ([]domain.DishPopularity, error) {
	if s.stats == nil {
		return []domain.DishPopularity{}, nil
	}
	if day == "" {
		day = time.Now().Format(statsDayLayout)
	} else if _, err := time.Parse(statsDayLayout, day); err != nil {
		return nil, invalid("day must be formatted as YYYY-MM-DD, got %q", day)
	}
	return s.stats.TopDishes(ctx, day, n)
}

var _ OrderServiceInterface = (*OrderService)(nil)
