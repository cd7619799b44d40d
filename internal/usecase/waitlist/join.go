package waitlist

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domainap "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/waitlist"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

type JoinInput struct {
	SalonID   uint
	ServiceID uint

	DateFrom time.Time
	DateTo   time.Time

	// morning | afternoon | any (empty = any)
	TimePreference string

	// Comma-separated weekday numbers, 0=Sunday. Empty = all days.
	Weekdays string

	// Optional preferred staff member.
	StaffID *uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string
}

// Join puts a customer on the salon's waitlist. Preference fields are frozen
// at creation; the returned entry carries the manage token the anonymous
// caller needs to withdraw later.
type Join struct {
	catalog domainap.Repository
	repo    domain.Repository
	audit   *audit.Dispatcher
}

func NewJoin(catalog domainap.Repository, repo domain.Repository, audit *audit.Dispatcher) *Join {
	return &Join{catalog: catalog, repo: repo, audit: audit}
}

func (uc *Join) Execute(ctx context.Context, in JoinInput) (*models.WaitlistEntry, error) {
	if _, err := uc.catalog.GetSalonByID(ctx, in.SalonID); err != nil {
		return nil, err
	}

	services, err := uc.catalog.ListServices(ctx, in.SalonID, []uint{in.ServiceID})
	if err != nil {
		return nil, err
	}
	if len(services) != 1 {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if in.StaffID != nil {
		staff, err := uc.catalog.GetStaff(ctx, in.SalonID, *in.StaffID)
		if err != nil {
			return nil, err
		}
		if err := domainap.EnsureTenant(in.SalonID, staff.SalonID); err != nil {
			return nil, err
		}
	}

	if in.DateTo.Before(in.DateFrom) {
		return nil, httperr.ErrBusiness("invalid_date_range")
	}

	pref := in.TimePreference
	switch pref {
	case "":
		pref = domain.PrefAny
	case domain.PrefMorning, domain.PrefAfternoon, domain.PrefAny:
	default:
		return nil, httperr.ErrBusiness("invalid_time_preference")
	}

	customer, err := uc.catalog.GetOrCreateCustomer(
		ctx, in.SalonID, in.CustomerName, in.CustomerPhone, in.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}

	entry := &models.WaitlistEntry{
		SalonID:        in.SalonID,
		CustomerID:     customer.ID,
		ServiceID:      in.ServiceID,
		DateFrom:       in.DateFrom,
		DateTo:         in.DateTo,
		TimePreference: pref,
		Weekdays:       in.Weekdays,
		StaffID:        in.StaffID,
		Status:         domain.StatusActive,
		ManageToken:    uuid.New(),
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		Action:   "waitlist_joined",
		Entity:   "waitlist_entry",
		EntityID: &entry.ID,
	})

	return entry, nil
}
