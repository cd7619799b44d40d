package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httpresp"
	apusecase "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/appointment"
)

type BookingRulesHandler struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewBookingRulesHandler(repo domain.Repository, audit *audit.Dispatcher) *BookingRulesHandler {
	return &BookingRulesHandler{repo: repo, audit: audit}
}

func (h *BookingRulesHandler) Get(c *gin.Context) {
	salonID, _ := salonScope(c)

	rules, err := h.repo.GetBookingRules(c.Request.Context(), salonID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rules)
}

type UpdateBookingRulesRequest struct {
	MinLeadTimeMinutes                 int    `json:"min_lead_time_minutes" binding:"min=0"`
	MaxBookingHorizonDays              int    `json:"max_booking_horizon_days" binding:"min=1"`
	SlotGranularityMinutes             int    `json:"slot_granularity_minutes" binding:"min=5"`
	DefaultBufferMinutes               int    `json:"default_buffer_minutes" binding:"min=0"`
	ReservationTimeoutMinutes          int    `json:"reservation_timeout_minutes" binding:"min=1"`
	CancellationCutoffHours            int    `json:"cancellation_cutoff_hours" binding:"min=0"`
	MaxBookingsPerDay                  int    `json:"max_bookings_per_day" binding:"min=0"`
	MaxConcurrentReservationsPerClient int    `json:"max_concurrent_reservations_per_client" binding:"min=0"`
	DepositRequiredPercent             int    `json:"deposit_required_percent" binding:"min=0,max=100"`
	NoShowPolicy                       string `json:"no_show_policy"`
	RequiresApproval                   bool   `json:"requires_approval"`
}

func (h *BookingRulesHandler) Update(c *gin.Context) {
	salonID, userID := salonScope(c)

	var req UpdateBookingRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	switch req.NoShowPolicy {
	case "":
		req.NoShowPolicy = apusecase.NoShowPolicyNone
	case apusecase.NoShowPolicyNone, apusecase.NoShowPolicyChargeDeposit, apusecase.NoShowPolicyChargeFull:
	default:
		httperr.BadRequest(c, "invalid_no_show_policy", "no_show_policy must be none, charge_deposit or charge_full")
		return
	}

	rules, err := h.repo.GetBookingRules(c.Request.Context(), salonID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	rules.SalonID = salonID
	rules.MinLeadTimeMinutes = req.MinLeadTimeMinutes
	rules.MaxBookingHorizonDays = req.MaxBookingHorizonDays
	rules.SlotGranularityMinutes = req.SlotGranularityMinutes
	rules.DefaultBufferMinutes = req.DefaultBufferMinutes
	rules.ReservationTimeoutMinutes = req.ReservationTimeoutMinutes
	rules.CancellationCutoffHours = req.CancellationCutoffHours
	rules.MaxBookingsPerDay = req.MaxBookingsPerDay
	rules.MaxConcurrentReservationsPerClient = req.MaxConcurrentReservationsPerClient
	rules.DepositRequiredPercent = req.DepositRequiredPercent
	rules.NoShowPolicy = req.NoShowPolicy
	rules.RequiresApproval = req.RequiresApproval

	if err := h.repo.SaveBookingRules(c.Request.Context(), rules); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID: salonID,
		ActorID: &userID,
		Action:  "booking_rules_updated",
		Entity:  "booking_rules",
	})

	httpresp.OK(c, rules)
}
