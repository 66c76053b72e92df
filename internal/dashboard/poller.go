package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"doganjib/internal/models"
)

// Poller fetches active orders on an interval, keeps the latest snapshot,
// and pushes arrival, departure, and status-change events through the hub.
type Poller struct {
	staff    StaffAPI
	hub      *Hub
	metrics  *Metrics
	interval time.Duration
	log      *zap.Logger

	mu   sync.RWMutex
	last map[int64]models.Order
}

// NewPoller creates a poller. Run must be called to start it.
func NewPoller(staff StaffAPI, hub *Hub, metrics *Metrics, interval time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		staff:    staff,
		hub:      hub,
		metrics:  metrics,
		interval: interval,
		log:      log,
		last:     make(map[int64]models.Order),
	}
}

// Run polls until the context is cancelled. The first poll happens
// immediately so the dashboard is never empty at startup.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Snapshot returns the most recent active-order listing.
func (p *Poller) Snapshot() []models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	orders := make([]models.Order, 0, len(p.last))
	for _, o := range p.last {
		orders = append(orders, o)
	}
	return orders
}

// Apply folds a locally applied status change into the snapshot so the next
// poll does not re-announce it.
func (p *Poller) Apply(order models.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if order.Status == models.OrderStatusDelivered {
		delete(p.last, order.ID)
		return
	}
	p.last[order.ID] = order
}

// Current returns the tracked order with the given id.
func (p *Poller) Current(orderID int64) (models.Order, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	order, ok := p.last[orderID]
	return order, ok
}

func (p *Poller) poll(ctx context.Context) {
	start := time.Now()
	orders, err := p.staff.ActiveOrders(ctx)
	p.metrics.pollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.pollErrors.Inc()
		p.log.Warn("failed to poll active orders", zap.Error(err))
		return
	}

	p.metrics.SetActiveOrders(orders)

	fresh := make(map[int64]models.Order, len(orders))
	for _, o := range orders {
		fresh[o.ID] = o
	}

	p.mu.Lock()
	previous := p.last
	p.last = fresh
	p.mu.Unlock()

	for id, order := range fresh {
		before, known := previous[id]
		switch {
		case !known:
			p.hub.Broadcast(Event{Type: EventOrderArrived, Payload: order})
		case before.Status != order.Status:
			p.hub.Broadcast(Event{Type: EventStatusChanged, Payload: statusChange{
				OrderID: id,
				From:    before.Status,
				To:      order.Status,
			}})
		}
	}
	for id, order := range previous {
		if _, still := fresh[id]; !still {
			p.hub.Broadcast(Event{Type: EventOrderGone, Payload: statusChange{
				OrderID: id,
				From:    order.Status,
				To:      models.OrderStatusDelivered,
			}})
		}
	}
}

type statusChange struct {
	OrderID int64              `json:"orderId"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
}
