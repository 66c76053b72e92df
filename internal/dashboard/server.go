package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"doganjib/internal/api"
	"doganjib/internal/models"
)

// StaffAPI is the slice of the backend client the dashboard needs.
type StaffAPI interface {
	ActiveOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error)
	Inventory(ctx context.Context) ([]models.InventoryItem, error)
	StaffAvailability(ctx context.Context) (*models.StaffAvailability, error)
	DriverReturn(ctx context.Context) error
}

// Server is the staff dashboard: a REST surface over the backend staff API
// plus a websocket stream of order-pipeline changes.
type Server struct {
	router  *gin.Engine
	staff   StaffAPI
	hub     *Hub
	poller  *Poller
	metrics *Metrics
	log     *zap.Logger
}

// NewServer wires the dashboard server. pollInterval controls how often the
// backend is asked for fresh orders.
func NewServer(staff StaffAPI, pollInterval time.Duration, log *zap.Logger) *Server {
	metrics := NewMetrics()
	hub := NewHub(metrics, log)

	s := &Server{
		router:  gin.New(),
		staff:   staff,
		hub:     hub,
		poller:  NewPoller(staff, hub, metrics, pollInterval, log),
		metrics: metrics,
		log:     log,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/ws", s.hub.HandleWS)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	apiGroup := s.router.Group("/api")
	{
		apiGroup.GET("/orders/active", s.handleActiveOrders)
		apiGroup.PUT("/orders/:id/status", s.handleUpdateStatus)
		apiGroup.GET("/inventory", s.handleInventory)
		apiGroup.GET("/staff/availability", s.handleAvailability)
		apiGroup.POST("/staff/drivers/return", s.handleDriverReturn)
	}
}

// Router returns the Gin router, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// MetricsHandler exposes the Prometheus registry for a dedicated listener.
func (s *Server) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}

// Run starts the poller and serves until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.poller.Run(ctx)

	srv := &http.Server{Addr: addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("dashboard listening", zap.String("addr", addr))
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleActiveOrders(c *gin.Context) {
	orders, err := s.staff.ActiveOrders(c.Request.Context())
	if err != nil {
		s.renderError(c, err, "failed to fetch active orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// handleUpdateStatus validates the transition against the tracked order
// before touching the backend, so a stale dashboard cannot move an order
// backwards or skip a stage.
func (s *Server) handleUpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}

	if current, ok := s.poller.Current(orderID); ok {
		if err := models.ValidateTransition(current.Status, req.Status); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
	}

	order, err := s.staff.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		s.renderError(c, err, "failed to update order status")
		return
	}

	if prev, ok := s.poller.Current(orderID); ok {
		s.metrics.RecordTransition(prev.Status, order.Status)
		s.hub.Broadcast(Event{Type: EventStatusChanged, Payload: statusChange{
			OrderID: orderID,
			From:    prev.Status,
			To:      order.Status,
		}})
	}
	s.poller.Apply(*order)

	c.JSON(http.StatusOK, order)
}

func (s *Server) handleInventory(c *gin.Context) {
	items, err := s.staff.Inventory(c.Request.Context())
	if err != nil {
		s.renderError(c, err, "failed to fetch inventory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleAvailability(c *gin.Context) {
	availability, err := s.staff.StaffAvailability(c.Request.Context())
	if err != nil {
		s.renderError(c, err, "failed to fetch staff availability")
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (s *Server) handleDriverReturn(c *gin.Context) {
	if err := s.staff.DriverReturn(c.Request.Context()); err != nil {
		s.renderError(c, err, "failed to mark driver as returned")
		return
	}
	c.Status(http.StatusNoContent)
}

// renderError maps backend errors onto the dashboard response, preserving
// the backend's status code and message when available.
func (s *Server) renderError(c *gin.Context, err error, msg string) {
	s.log.Warn(msg, zap.Error(err))

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}
	if errors.Is(err, api.ErrSessionExpired) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "staff session expired, sign in again"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": msg})
}
