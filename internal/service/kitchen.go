package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"delivery_kitchen/internal/kitchen"
	"delivery_kitchen/internal/metrics"
	"delivery_kitchen/internal/models"
)

var (
	ErrInvalidOrder        = errors.New("invalid order")
	ErrDuplicateOrder      = errors.New("order is already stored")
	ErrInvalidPickupWindow = errors.New("invalid pickup window: need 0 <= min <= max")
)

// KitchenService is the live kitchen behind the HTTP API.
type KitchenService struct {
	kitchen *kitchen.Kitchen

	// drivers dispatched through the API stop when the service is closed
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewKitchenService(k *kitchen.Kitchen) *KitchenService {
	ctx, cancel := context.WithCancel(context.Background())
	return &KitchenService{kitchen: k, ctx: ctx, cancel: cancel}
}

// PlaceOrder validates and places one order. A false result with a nil error
// means the kitchen had no slot for it. When p.Dispatch is set a driver is
// scheduled for the placed order.
func (s *KitchenService) PlaceOrder(ctx context.Context, p PlaceParams) (bool, error) {
	if err := validateOrder(p.Order); err != nil {
		return false, err
	}
	if p.Dispatch {
		if err := validatePickupWindow(p.MinPickup, p.MaxPickup); err != nil {
			return false, err
		}
	}
	if s.kitchen.Holds(p.Order.ID) {
		return false, fmt.Errorf("%w: %s", ErrDuplicateOrder, p.Order.ID)
	}

	if !s.kitchen.PlaceOrder(p.Order) {
		// a concurrent request with the same id won the slot
		if s.kitchen.Holds(p.Order.ID) {
			return false, fmt.Errorf("%w: %s", ErrDuplicateOrder, p.Order.ID)
		}
		metrics.RecordPlacementFailure()
		return false, nil
	}
	if p.Dispatch {
		s.kitchen.ScheduleDriverPickup(s.ctx, p.Order.ID, p.MinPickup, p.MaxPickup)
	}
	return true, nil
}

// PickupOrder hands the order to a driver right away. It reports false when
// the order is unknown or had already expired.
func (s *KitchenService) PickupOrder(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	return s.kitchen.PickupOrder(id), nil
}

// Reset empties the live kitchen and its action log.
func (s *KitchenService) Reset(ctx context.Context) error {
	s.kitchen.Clear()
	return nil
}

// Close cancels drivers still waiting and blocks until they are gone.
func (s *KitchenService) Close() {
	s.once.Do(s.cancel)
	s.kitchen.Wait()
}

func validateOrder(o models.Order) error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	switch o.Temp {
	case models.Hot, models.Cold, models.Room:
	default:
		return fmt.Errorf("%w: temp must be hot, cold or room, got %q", ErrInvalidOrder, o.Temp)
	}
	if o.Freshness <= 0 {
		return fmt.Errorf("%w: freshness must be positive", ErrInvalidOrder)
	}
	if o.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidOrder)
	}
	return nil
}

func validatePickupWindow(minPickup, maxPickup time.Duration) error {
	if minPickup < 0 || maxPickup < minPickup {
		return fmt.Errorf("%w (min=%s max=%s)", ErrInvalidPickupWindow, minPickup, maxPickup)
	}
	return nil
}
