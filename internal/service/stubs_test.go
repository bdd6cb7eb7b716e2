package service

import (
	"context"
	"sync"
	"time"

	"delivery_kitchen/internal/client"
	"delivery_kitchen/internal/models"
)

// runRepoStub keeps runs in memory and remembers every save.
type runRepoStub struct {
	mu      sync.Mutex
	runs    map[string]models.Run
	saves   []models.Run
	saveErr error
	getErr  error
}

func newRunRepoStub() *runRepoStub {
	return &runRepoStub{runs: map[string]models.Run{}}
}

func (r *runRepoStub) Save(ctx context.Context, run models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves = append(r.saves, run)
	r.runs[run.ID] = run
	return nil
}

func (r *runRepoStub) Get(ctx context.Context, id string) (models.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[id], r.getErr
}

func (r *runRepoStub) List(ctx context.Context, startedBy string, limit int) ([]models.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Run, 0, len(r.runs))
	for _, run := range r.runs {
		if startedBy != "" && run.StartedBy != startedBy {
			continue
		}
		out = append(out, run)
	}
	return out, nil
}

func (r *runRepoStub) last() models.Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		return models.Run{}
	}
	return r.saves[len(r.saves)-1]
}

// actionRepoStub captures appended batches and the last List arguments.
type actionRepoStub struct {
	mu      sync.Mutex
	batches map[string][]models.Action
	err     error

	gotRunID string
	gotFrom  time.Time
	gotTo    time.Time
	gotKind  string
	listResp []models.Action
}

func newActionRepoStub() *actionRepoStub {
	return &actionRepoStub{batches: map[string][]models.Action{}}
}

func (a *actionRepoStub) AppendBatch(ctx context.Context, runID string, actions []models.Action) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.batches[runID] = append(a.batches[runID], actions...)
	return nil
}

func (a *actionRepoStub) List(ctx context.Context, runID string, from, to time.Time, kind string) ([]models.Action, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gotRunID, a.gotFrom, a.gotTo, a.gotKind = runID, from, to, kind
	return a.listResp, a.err
}

// challengeStub serves a fixed problem and records the submitted solution.
type challengeStub struct {
	problem  client.Problem
	fetchErr error
	verdict  string
	solveErr error

	mu       sync.Mutex
	solvedID string
	rate     time.Duration
	solved   []models.Action
}

func (c *challengeStub) Fetch(ctx context.Context, name string, seed int64) (client.Problem, error) {
	return c.problem, c.fetchErr
}

func (c *challengeStub) Solve(ctx context.Context, problemID string, rate, minPickup, maxPickup time.Duration, actions []models.Action) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solvedID = problemID
	c.rate = rate
	c.solved = actions
	return c.verdict, c.solveErr
}
