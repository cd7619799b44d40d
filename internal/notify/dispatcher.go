package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domainwl "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/timezone"
)

const (
	kindConfirmed     = "appointment_confirmed"
	kindCancelled     = "appointment_cancelled"
	kindWaitlistMatch = "waitlist_slot_available"
)

type event struct {
	Kind       string
	Salon      *models.Salon
	CustomerID uint
	Body       string
	Payload    any
}

// Dispatcher fans notifications out to a per-salon redis channel and,
// when the customer has a phone on file, an SMS. Delivery is best-effort
// from a single worker goroutine; callers never block on it.
type Dispatcher struct {
	db   *gorm.DB
	rdb  *redis.Client
	sms  *twilio.RestClient
	from string
	log  *zap.SugaredLogger

	queue chan event
}

func NewDispatcher(
	db *gorm.DB,
	rdb *redis.Client,
	sms *twilio.RestClient,
	fromNumber string,
	log *zap.SugaredLogger,
) *Dispatcher {
	d := &Dispatcher{
		db:    db,
		rdb:   rdb,
		sms:   sms,
		from:  fromNumber,
		log:   log,
		queue: make(chan event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) AppointmentConfirmed(salon *models.Salon, ap *models.Appointment) {
	d.enqueue(event{
		Kind:       kindConfirmed,
		Salon:      salon,
		CustomerID: ap.CustomerID,
		Body: fmt.Sprintf("%s: your appointment on %s is confirmed.",
			salon.Name, d.localTime(salon, ap.StartsAt)),
		Payload: ap,
	})
}

func (d *Dispatcher) AppointmentCancelled(salon *models.Salon, ap *models.Appointment) {
	d.enqueue(event{
		Kind:       kindCancelled,
		Salon:      salon,
		CustomerID: ap.CustomerID,
		Body: fmt.Sprintf("%s: your appointment on %s was cancelled.",
			salon.Name, d.localTime(salon, ap.StartsAt)),
		Payload: ap,
	})
}

func (d *Dispatcher) WaitlistSlotAvailable(salon *models.Salon, entry *models.WaitlistEntry, slot domainwl.FreedSlot) {
	d.enqueue(event{
		Kind:       kindWaitlistMatch,
		Salon:      salon,
		CustomerID: entry.CustomerID,
		Body: fmt.Sprintf("%s: a slot opened up on %s. Book soon, first come first served.",
			salon.Name, d.localTime(salon, slot.StartsAt)),
		Payload: map[string]any{"entry": entry, "slot": slot},
	})
}

func (d *Dispatcher) enqueue(ev event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warnw("notification queue full, dropping event", "kind", ev.Kind)
	}
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		d.publish(ctx, ev)
		d.sendSMS(ctx, ev)
		cancel()
	}
}

func (d *Dispatcher) publish(ctx context.Context, ev event) {
	if d.rdb == nil {
		return
	}
	msg, err := json.Marshal(map[string]any{
		"kind":        ev.Kind,
		"salon_id":    ev.Salon.ID,
		"customer_id": ev.CustomerID,
		"body":        ev.Body,
		"payload":     ev.Payload,
	})
	if err != nil {
		d.log.Errorw("notification marshal failed", "kind", ev.Kind, "error", err)
		return
	}
	channel := fmt.Sprintf("salon:%d:notifications", ev.Salon.ID)
	if err := d.rdb.Publish(ctx, channel, msg).Err(); err != nil {
		d.log.Errorw("notification publish failed", "channel", channel, "error", err)
	}
}

func (d *Dispatcher) sendSMS(ctx context.Context, ev event) {
	if d.sms == nil || d.from == "" {
		return
	}

	var customer models.Customer
	if err := d.db.WithContext(ctx).First(&customer, ev.CustomerID).Error; err != nil {
		d.log.Errorw("notification customer lookup failed", "customer_id", ev.CustomerID, "error", err)
		return
	}
	if customer.Phone == "" {
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(customer.Phone)
	params.SetFrom(d.from)
	params.SetBody(ev.Body)

	if _, err := d.sms.Api.CreateMessage(params); err != nil {
		d.log.Errorw("notification sms failed", "customer_id", ev.CustomerID, "error", err)
	}
}

func (d *Dispatcher) localTime(salon *models.Salon, t time.Time) string {
	return t.In(timezone.Location(salon.Timezone)).Format("Mon 02 Jan 15:04")
}
