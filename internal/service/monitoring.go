package service

import (
	"context"

	"delivery_kitchen/internal/kitchen"
	"delivery_kitchen/internal/models"
)

type MonitoringService struct {
	kitchen *kitchen.Kitchen
}

func NewMonitoringService(k *kitchen.Kitchen) *MonitoringService {
	return &MonitoringService{kitchen: k}
}

// GetState snapshots the live kitchen.
func (s *MonitoringService) GetState(ctx context.Context) (models.KitchenState, error) {
	if err := ctx.Err(); err != nil {
		return models.KitchenState{}, err
	}
	return s.kitchen.Snapshot(), nil
}
