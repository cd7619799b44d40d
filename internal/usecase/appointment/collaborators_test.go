package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	domainwl "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type captureNotifier struct {
	mu        sync.Mutex
	confirmed []uint
	cancelled []uint
}

func (n *captureNotifier) AppointmentConfirmed(salon *models.Salon, ap *models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, ap.ID)
}

func (n *captureNotifier) AppointmentCancelled(salon *models.Salon, ap *models.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, ap.ID)
}

type captureCharger struct {
	fail    bool
	charged []float64
}

func (c *captureCharger) ChargeDeposit(ctx context.Context, ap *models.Appointment, amountChf float64) (string, error) {
	if c.fail {
		return "", errors.New("card declined")
	}
	c.charged = append(c.charged, amountChf)
	return "pay_123", nil
}

func (c *captureCharger) ChargeNoShow(ctx context.Context, ap *models.Appointment, amountChf float64) (string, error) {
	if c.fail {
		return "", errors.New("card declined")
	}
	c.charged = append(c.charged, amountChf)
	return "pay_456", nil
}

type captureSink struct {
	mu    sync.Mutex
	slots []domainwl.FreedSlot
}

func (s *captureSink) SlotFreed(salonID uint, slot domainwl.FreedSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = append(s.slots, slot)
}

func (s *captureSink) freed() []domainwl.FreedSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domainwl.FreedSlot(nil), s.slots...)
}
