package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httpresp"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
	apusecase "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/appointment"
	wlusecase "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/waitlist"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the anonymous booking flow. Every route starts from a
// salon slug; the resolved salon ID scopes everything downstream.
type PublicHandler struct {
	repo domain.Repository

	availability *apusecase.GetAvailability
	reserve      *apusecase.Reserve
	confirm      *apusecase.ConfirmReservation
	abandon      *apusecase.AbandonHold

	joinWaitlist     *wlusecase.Join
	withdrawWaitlist *wlusecase.Withdraw
}

func NewPublicHandler(
	repo domain.Repository,
	availability *apusecase.GetAvailability,
	reserve *apusecase.Reserve,
	confirm *apusecase.ConfirmReservation,
	abandon *apusecase.AbandonHold,
	joinWaitlist *wlusecase.Join,
	withdrawWaitlist *wlusecase.Withdraw,
) *PublicHandler {
	return &PublicHandler{
		repo:             repo,
		availability:     availability,
		reserve:          reserve,
		confirm:          confirm,
		abandon:          abandon,
		joinWaitlist:     joinWaitlist,
		withdrawWaitlist: withdrawWaitlist,
	}
}

func (h *PublicHandler) salonFromSlug(c *gin.Context) (*models.Salon, bool) {
	salon, err := h.repo.GetSalonBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "salon_not_found", "salon not found")
		return nil, false
	}
	if !salon.Active {
		httperr.NotFound(c, "salon_not_found", "salon not found")
		return nil, false
	}
	return salon, true
}

// ======================================================
// SERVICES
// ======================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	salon, ok := h.salonFromSlug(c)
	if !ok {
		return
	}

	services, err := h.repo.ListActiveServices(c.Request.Context(), salon.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) GetAvailability(c *gin.Context) {
	salon, ok := h.salonFromSlug(c)
	if !ok {
		return
	}

	serviceIDs, err := parseIDList(c.Query("services"))
	if err != nil || len(serviceIDs) == 0 {
		httperr.BadRequest(c, "invalid_services", "services must be a comma-separated id list")
		return
	}

	var staffID uint
	if s := c.Query("staffId"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_staff_id", "staffId must be numeric")
			return
		}
		staffID = uint(n)
	}

	from, to, err := h.dateRange(c, salon)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_range", "from/to must be YYYY-MM-DD")
		return
	}

	days, err := h.availability.Execute(c.Request.Context(), apusecase.AvailabilityInput{
		SalonID:    salon.ID,
		ServiceIDs: serviceIDs,
		StaffID:    staffID,
		DateFrom:   from,
		DateTo:     to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"salon": salon.Slug, "days": days})
}

func (h *PublicHandler) dateRange(c *gin.Context, salon *models.Salon) (time.Time, time.Time, error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	var from time.Time
	var err error
	if fromStr == "" {
		from = time.Now()
	} else if from, err = parseDateInSalon(salon, fromStr); err != nil {
		return time.Time{}, time.Time{}, err
	}

	to := from.AddDate(0, 0, 7)
	if toStr != "" {
		if to, err = parseDateInSalon(salon, toStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

// ======================================================
// RESERVATIONS
// ======================================================

type PublicReserveRequest struct {
	StaffID    uint   `json:"staff_id" binding:"required"`
	ServiceIDs []uint `json:"service_ids" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string `json:"time" binding:"required"` // HH:mm

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`

	Notes string `json:"notes"`
}

func (h *PublicHandler) CreateReservation(c *gin.Context) {
	salon, ok := h.salonFromSlug(c)
	if !ok {
		return
	}

	var req PublicReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	startsAt, err := parseDateTimeInSalon(salon, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "date or time invalid")
		return
	}

	ap, err := h.reserve.Execute(c.Request.Context(), apusecase.ReserveInput{
		SalonID:       salon.ID,
		StaffID:       req.StaffID,
		ServiceIDs:    req.ServiceIDs,
		StartsAt:      startsAt,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(201, gin.H{
		"hold_token":     ap.HoldToken,
		"reserved_until": ap.ReservedUntil,
		"appointment":    ap,
	})
}

func (h *PublicHandler) ConfirmReservation(c *gin.Context) {
	salon, ok := h.salonFromSlug(c)
	if !ok {
		return
	}

	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		httperr.BadRequest(c, "invalid_token", "token must be a uuid")
		return
	}

	ap, err := h.confirm.ExecuteByToken(c.Request.Context(), salon.ID, token)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *PublicHandler) AbandonReservation(c *gin.Context) {
	salon, ok := h.salonFromSlug(c)
	if !ok {
		return
	}

	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		httperr.BadRequest(c, "invalid_token", "token must be a uuid")
		return
	}

	ap, err := h.abandon.Execute(c.Request.Context(), salon.ID, token)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// WAITLIST
// ======================================================

type PublicJoinWaitlistRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	DateFrom  string `json:"date_from" binding:"required"` // YYYY-MM-DD
	DateTo    string `json:"date_to" binding:"required"`   // YYYY-MM-DD

	TimePreference string `json:"time_preference"` // morning | afternoon | any
	Weekdays       string `json:"weekdays"`        // csv of 0-6
	StaffID        *uint  `json:"staff_id"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
}

func (h *PublicHandler) JoinWaitlist(c *gin.Context) {
	salon, ok := h.salonFromSlug(c)
	if !ok {
		return
	}

	var req PublicJoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	dateFrom, err := parseDateInSalon(salon, req.DateFrom)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date_from must be YYYY-MM-DD")
		return
	}
	dateTo, err := parseDateInSalon(salon, req.DateTo)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date_to must be YYYY-MM-DD")
		return
	}

	entry, err := h.joinWaitlist.Execute(c.Request.Context(), wlusecase.JoinInput{
		SalonID:        salon.ID,
		ServiceID:      req.ServiceID,
		DateFrom:       dateFrom,
		DateTo:         dateTo,
		TimePreference: req.TimePreference,
		Weekdays:       req.Weekdays,
		StaffID:        req.StaffID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(201, gin.H{
		"manage_token": entry.ManageToken,
		"entry":        entry,
	})
}

func (h *PublicHandler) WithdrawWaitlist(c *gin.Context) {
	salon, ok := h.salonFromSlug(c)
	if !ok {
		return
	}

	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		httperr.BadRequest(c, "invalid_token", "token must be a uuid")
		return
	}

	if err := h.withdrawWaitlist.ExecuteByToken(c.Request.Context(), salon.ID, token); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(204)
}

// ======================================================
// HELPERS
// ======================================================

func parseIDList(csv string) ([]uint, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}
