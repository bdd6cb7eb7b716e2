package handlers

import (
	"context"
	"net/http"

	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	dispatcher models.Dispatcher
	signUpErr  error
	token      string
	signInErr  error
	parseID    int64
	parseName  string
	parseErr   error

	lastUsername   string
	lastPassword   string
	lastParseToken string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (models.Dispatcher, error) {
	m.lastUsername, m.lastPassword = username, password
	return m.dispatcher, m.signUpErr
}
func (m *mockAuth) SignIn(ctx context.Context, username, password string) (string, error) {
	m.lastUsername, m.lastPassword = username, password
	return m.token, m.signInErr
}
func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.lastParseToken = token
	if m.parseErr != nil {
		return models.Identity{}, m.parseErr
	}
	return models.Identity{DispatcherID: m.parseID, Username: m.parseName}, nil
}

type mockKitchen struct {
	placed    bool
	placeErr  error
	pickedUp  bool
	pickupErr error
	resetErr  error

	lastPlace   service.PlaceParams
	lastPickup  string
	resetCalled int
}

func (m *mockKitchen) PlaceOrder(ctx context.Context, p service.PlaceParams) (bool, error) {
	m.lastPlace = p
	return m.placed, m.placeErr
}
func (m *mockKitchen) PickupOrder(ctx context.Context, id string) (bool, error) {
	m.lastPickup = id
	return m.pickedUp, m.pickupErr
}
func (m *mockKitchen) Reset(ctx context.Context) error {
	m.resetCalled++
	return m.resetErr
}

type mockMonitoring struct {
	state models.KitchenState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.KitchenState, error) {
	return m.state, m.err
}

type mockActionLog struct {
	resp       []models.Action
	err        error
	lastFilter service.ActionFilter
}

func (m *mockActionLog) List(ctx context.Context, f service.ActionFilter) ([]models.Action, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockSimulation struct {
	run        models.Run
	runs       []models.Run
	err        error
	lastP      service.SimulationParams
	lastID     string
	lastFilter service.RunFilter
	started    int
}

func (m *mockSimulation) Run(ctx context.Context, p service.SimulationParams) (models.Run, error) {
	m.lastP = p
	return m.run, m.err
}
func (m *mockSimulation) Start(ctx context.Context, p service.SimulationParams) (models.Run, error) {
	m.started++
	m.lastP = p
	return m.run, m.err
}
func (m *mockSimulation) Get(ctx context.Context, id string) (models.Run, error) {
	m.lastID = id
	return m.run, m.err
}
func (m *mockSimulation) List(ctx context.Context, f service.RunFilter) ([]models.Run, error) {
	m.lastFilter = f
	return m.runs, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
