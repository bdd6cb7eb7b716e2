package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/service"
)

func TestActionsHandler_ListAndValidation(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	log := &mockActionLog{resp: []models.Action{
		models.NewAction(now, "a1", models.ActionPlace, models.Shelf),
		models.NewAction(now.Add(time.Second), "a1", models.ActionMove, models.Heater),
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 99}, ActionLog: log})

	w := do(r, http.MethodGet, "/api/v1/actions?from=notatime", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	q := "/api/v1/actions?run_id=run-1&from=" + now.Format(time.RFC3339) + "&to=2025-03-01&action=move"
	w = do(r, http.MethodGet, q, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("actions status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count   int             `json:"count"`
		Actions []models.Action `json:"actions"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Actions) != 2 || out.Actions[1].Target != models.Heater {
		t.Fatalf("unexpected response: %+v", out)
	}

	f := log.lastFilter
	if f.RunID != "run-1" || f.Kind != "move" || !f.From.Equal(now) {
		t.Fatalf("filter = %+v", f)
	}
	endOfDay := time.Date(2025, 3, 1, 23, 59, 59, 999999000, time.UTC)
	if !f.To.Equal(endOfDay) {
		t.Fatalf("date-only 'to' should cover the day, got %v", f.To)
	}
}

func TestActionsHandler_MicrosecondBounds(t *testing.T) {
	log := &mockActionLog{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, ActionLog: log})

	w := do(r, http.MethodGet, "/api/v1/actions?from=1740830400000000", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !log.lastFilter.From.Equal(time.UnixMicro(1740830400000000)) {
		t.Fatalf("from = %v", log.lastFilter.From)
	}
}

func TestActionsHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrRunNotFound, http.StatusNotFound},
		{service.ErrInvalidFilter, http.StatusBadRequest},
	}
	for _, tc := range cases {
		r := newTestRouter(&service.Service{Authorization: &mockAuth{}, ActionLog: &mockActionLog{err: tc.err}})
		if w := do(r, http.MethodGet, "/api/v1/actions?run_id=x", nil); w.Code != tc.want {
			t.Fatalf("%v: status=%d want %d", tc.err, w.Code, tc.want)
		}
	}
}
