package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"doganjib/internal/api"
	"doganjib/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStaff struct {
	orders       []models.Order
	ordersErr    error
	updated      []models.OrderStatus
	updateErr    error
	inventory    []models.InventoryItem
	availability models.StaffAvailability
	returns      int
}

func (f *fakeStaff) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return f.orders, nil
}

func (f *fakeStaff) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = append(f.updated, status)
	return &models.Order{ID: orderID, Status: status}, nil
}

func (f *fakeStaff) Inventory(ctx context.Context) ([]models.InventoryItem, error) {
	return f.inventory, nil
}

func (f *fakeStaff) StaffAvailability(ctx context.Context) (*models.StaffAvailability, error) {
	return &f.availability, nil
}

func (f *fakeStaff) DriverReturn(ctx context.Context) error {
	f.returns++
	return nil
}

func newTestServer(staff *fakeStaff) *Server {
	return NewServer(staff, time.Minute, zap.NewNop())
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&fakeStaff{})

	w := performRequest(server.Router(), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestActiveOrdersEndpoint(t *testing.T) {
	staff := &fakeStaff{orders: []models.Order{
		{ID: 1, Status: models.OrderStatusReceived},
		{ID: 2, Status: models.OrderStatusInKitchen},
	}}
	server := newTestServer(staff)

	w := performRequest(server.Router(), http.MethodGet, "/api/orders/active", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 2)
}

func TestUpdateStatusForwardTransition(t *testing.T) {
	staff := &fakeStaff{}
	server := newTestServer(staff)
	server.poller.Apply(models.Order{ID: 5, Status: models.OrderStatusReceived})

	w := performRequest(server.Router(), http.MethodPut, "/api/orders/5/status",
		models.UpdateOrderStatusRequest{Status: models.OrderStatusInKitchen})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, staff.updated, 1)
	assert.Equal(t, models.OrderStatusInKitchen, staff.updated[0])

	// Snapshot folds the change in so the next poll is quiet.
	current, ok := server.poller.Current(5)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusInKitchen, current.Status)
}

func TestUpdateStatusRejectsBackwardTransition(t *testing.T) {
	staff := &fakeStaff{}
	server := newTestServer(staff)
	server.poller.Apply(models.Order{ID: 5, Status: models.OrderStatusDelivering})

	w := performRequest(server.Router(), http.MethodPut, "/api/orders/5/status",
		models.UpdateOrderStatusRequest{Status: models.OrderStatusReceived})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, staff.updated)
}

func TestUpdateStatusRejectsStageSkip(t *testing.T) {
	staff := &fakeStaff{}
	server := newTestServer(staff)
	server.poller.Apply(models.Order{ID: 5, Status: models.OrderStatusReceived})

	w := performRequest(server.Router(), http.MethodPut, "/api/orders/5/status",
		models.UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, staff.updated)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	server := newTestServer(&fakeStaff{})

	w := performRequest(server.Router(), http.MethodPut, "/api/orders/5/status",
		map[string]string{"status": "TELEPORTED"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeliveredOrderLeavesSnapshot(t *testing.T) {
	staff := &fakeStaff{}
	server := newTestServer(staff)
	server.poller.Apply(models.Order{ID: 9, Status: models.OrderStatusDelivering})

	w := performRequest(server.Router(), http.MethodPut, "/api/orders/9/status",
		models.UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})

	require.Equal(t, http.StatusOK, w.Code)
	_, ok := server.poller.Current(9)
	assert.False(t, ok)
}

func TestBackendErrorPassthrough(t *testing.T) {
	staff := &fakeStaff{ordersErr: &api.APIError{
		Status:  http.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: "직원 권한이 필요합니다",
	}}
	server := newTestServer(staff)

	w := performRequest(server.Router(), http.MethodGet, "/api/orders/active", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "직원 권한이 필요합니다")
}

func TestSessionExpiredMapsToUnauthorized(t *testing.T) {
	staff := &fakeStaff{ordersErr: fmt.Errorf("fetching orders: %w", api.ErrSessionExpired)}
	server := newTestServer(staff)

	w := performRequest(server.Router(), http.MethodGet, "/api/orders/active", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInventoryAndAvailabilityEndpoints(t *testing.T) {
	staff := &fakeStaff{
		inventory:    []models.InventoryItem{{ID: 1, Name: "샴페인", Quantity: 12, Unit: "병"}},
		availability: models.StaffAvailability{CooksAvailable: 3, DriversAvailable: 1},
	}
	server := newTestServer(staff)

	w := performRequest(server.Router(), http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "샴페인")

	w = performRequest(server.Router(), http.MethodGet, "/api/staff/availability", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cooksAvailable":3`)
}

func TestDriverReturnEndpoint(t *testing.T) {
	staff := &fakeStaff{}
	server := newTestServer(staff)

	w := performRequest(server.Router(), http.MethodPost, "/api/staff/drivers/return", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, staff.returns)
}

func TestMetricsEndpoint(t *testing.T) {
	staff := &fakeStaff{}
	server := newTestServer(staff)
	server.metrics.SetActiveOrders([]models.Order{
		{ID: 1, Status: models.OrderStatusInKitchen},
	})

	w := performRequest(server.Router(), http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dashboard_active_orders")
}

func TestWebsocketReceivesStatusChange(t *testing.T) {
	staff := &fakeStaff{}
	server := newTestServer(staff)
	server.poller.Apply(models.Order{ID: 5, Status: models.OrderStatusReceived})

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the client.
	require.Eventually(t, func() bool {
		return server.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	w := performRequest(server.Router(), http.MethodPut, "/api/orders/5/status",
		models.UpdateOrderStatusRequest{Status: models.OrderStatusInKitchen})
	require.Equal(t, http.StatusOK, w.Code)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventStatusChanged, event.Type)
}

func TestPollerBroadcastsDiffs(t *testing.T) {
	staff := &fakeStaff{orders: []models.Order{
		{ID: 1, Status: models.OrderStatusReceived},
	}}
	metrics := NewMetrics()
	hub := NewHub(metrics, zap.NewNop())
	poller := NewPoller(staff, hub, metrics, time.Minute, zap.NewNop())

	poller.poll(context.Background())
	current, ok := poller.Current(1)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusReceived, current.Status)

	// Order progressed between polls.
	staff.orders = []models.Order{{ID: 1, Status: models.OrderStatusInKitchen}}
	poller.poll(context.Background())
	current, ok = poller.Current(1)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusInKitchen, current.Status)

	// Order finished and left the active listing.
	staff.orders = nil
	poller.poll(context.Background())
	_, ok = poller.Current(1)
	assert.False(t, ok)
}
