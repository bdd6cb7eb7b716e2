package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"delivery_kitchen/internal/kitchen"
	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/repository"
)

type ActionLogService struct {
	kitchen    *kitchen.Kitchen
	runRepo    repository.RunRepo
	actionRepo repository.ActionRepo
}

func NewActionLogService(k *kitchen.Kitchen, runRepo repository.RunRepo, actionRepo repository.ActionRepo) *ActionLogService {
	return &ActionLogService{kitchen: k, runRepo: runRepo, actionRepo: actionRepo}
}

var (
	ErrInvalidFilter = errors.New("invalid action filter")
	ErrRunNotFound   = errors.New("simulation run not found")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeFilter trims and lowercases the kind and validates the time range.
func normalizeFilter(f ActionFilter) (ActionFilter, error) {
	f.RunID = strings.TrimSpace(f.RunID)
	f.From = normalizeToUTC(f.From)
	f.To = normalizeToUTC(f.To)
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return ActionFilter{}, fmt.Errorf("%w: from must be <= to", ErrInvalidFilter)
	}

	f.Kind = strings.ToLower(strings.TrimSpace(f.Kind))
	switch models.ActionKind(f.Kind) {
	case "", models.ActionPlace, models.ActionMove, models.ActionPickup, models.ActionDiscard:
	default:
		return ActionFilter{}, fmt.Errorf("%w: unknown action %q", ErrInvalidFilter, f.Kind)
	}
	return f, nil
}

// List returns the matching entries in log order. Without a run id it reads
// the live kitchen's log; otherwise the stored log of that run.
func (s *ActionLogService) List(ctx context.Context, f ActionFilter) ([]models.Action, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	if f.RunID == "" {
		return filterActions(s.kitchen.Actions(), f), nil
	}

	run, err := s.runRepo.Get(ctx, f.RunID)
	if err != nil {
		return nil, err
	}
	if run.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, f.RunID)
	}
	return s.actionRepo.List(ctx, f.RunID, f.From, f.To, f.Kind)
}

func filterActions(in []models.Action, f ActionFilter) []models.Action {
	out := make([]models.Action, 0, len(in))
	for _, a := range in {
		if !f.From.IsZero() && a.Timestamp < f.From.UnixMicro() {
			continue
		}
		if !f.To.IsZero() && a.Timestamp > f.To.UnixMicro() {
			continue
		}
		if f.Kind != "" && string(a.Action) != f.Kind {
			continue
		}
		out = append(out, a)
	}
	return out
}
