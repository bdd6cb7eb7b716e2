package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"delivery_kitchen/internal/logger"
	"delivery_kitchen/internal/models"
	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newIdentityEchoRouter guards one route that answers with the stored identity.
func newIdentityEchoRouter(auth service.Authorization) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Authorization: auth}, nil)
	r.GET("/secure", h.requireDispatcher, func(c *gin.Context) {
		c.JSON(http.StatusOK, dispatcherFrom(c))
	})
	return r
}

func TestRequireDispatcher_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		wantMsg  string
	}{
		{"missing header", "", nil, errMissingAuth},
		{"other scheme", "Token abc", nil, errBadAuth},
		{"bearer without token", "Bearer", nil, errBadAuth},
		{"bearer with blank token", "Bearer   ", nil, errBadAuth},
		{"rejected token", "Bearer expired", service.ErrInvalidToken, errBadToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newIdentityEchoRouter(&mockAuth{parseErr: tc.parseErr})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status=%d, want 401 (body=%s)", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error = %q, want %q", out.Error, tc.wantMsg)
			}
		})
	}
}

func TestRequireDispatcher_StoresIdentity(t *testing.T) {
	auth := &mockAuth{parseID: 123, parseName: "grill"}
	r := newIdentityEchoRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var who models.Identity
	if err := json.Unmarshal(w.Body.Bytes(), &who); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if who != (models.Identity{DispatcherID: 123, Username: "grill"}) {
		t.Fatalf("identity = %+v", who)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q", auth.lastParseToken)
	}
}

func TestAudit_LogsDispatcherOnKitchenOperations(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	k := &mockKitchen{placed: true, pickedUp: true}
	h := NewHandler(&service.Service{Authorization: &mockAuth{parseID: 3, parseName: "pass"}, Kitchen: k}, log)
	gin.SetMode(gin.TestMode)
	r := h.InitRoutes()

	if w := do(r, http.MethodPost, "/api/v1/orders", strings.NewReader(`{"id":"o1","temp":"hot","freshness":60}`)); w.Code != http.StatusCreated {
		t.Fatalf("place status=%d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/v1/orders/o1/pickup", nil); w.Code != http.StatusOK {
		t.Fatalf("pickup status=%d", w.Code)
	}

	for _, event := range []string{"kitchen_order_submitted", "kitchen_order_handed_out"} {
		entries := logs.FilterMessage(event).All()
		if len(entries) != 1 {
			t.Fatalf("%s logged %d times", event, len(entries))
		}
		fields := entries[0].ContextMap()
		if fields["dispatcher"] != "pass" || fields["dispatcher_id"] != int64(3) || fields["order_id"] != "o1" {
			t.Fatalf("%s fields = %v", event, fields)
		}
	}
}

func TestDispatcherFrom_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if who := dispatcherFrom(c); who != (models.Identity{}) {
		t.Fatalf("expected zero identity, got %+v", who)
	}
	c.Set(identityCtx, "not an identity")
	if who := dispatcherFrom(c); who != (models.Identity{}) {
		t.Fatalf("expected zero identity for foreign value, got %+v", who)
	}
}
