package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/dto"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httpresp"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/middleware"
	apusecase "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler serves the staff calendar. The salon scope always comes
// from the JWT, never from the request.
type AppointmentHandler struct {
	repo domain.Repository

	listDay    *apusecase.ListDay
	reserve    *apusecase.Reserve
	confirm    *apusecase.ConfirmReservation
	approve    *apusecase.ApproveAppointment
	cancel     *apusecase.CancelAppointment
	reschedule *apusecase.RescheduleAppointment
	transition *apusecase.TransitionAppointment
	noShow     *apusecase.MarkNoShow
}

func NewAppointmentHandler(
	repo domain.Repository,
	listDay *apusecase.ListDay,
	reserve *apusecase.Reserve,
	confirm *apusecase.ConfirmReservation,
	approve *apusecase.ApproveAppointment,
	cancel *apusecase.CancelAppointment,
	reschedule *apusecase.RescheduleAppointment,
	transition *apusecase.TransitionAppointment,
	noShow *apusecase.MarkNoShow,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		listDay:    listDay,
		reserve:    reserve,
		confirm:    confirm,
		approve:    approve,
		cancel:     cancel,
		reschedule: reschedule,
		transition: transition,
		noShow:     noShow,
	}
}

func salonScope(c *gin.Context) (salonID uint, userID uint) {
	return c.MustGet(middleware.ContextSalonID).(uint),
		c.MustGet(middleware.ContextUserID).(uint)
}

func appointmentID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "id must be numeric")
		return 0, false
	}
	return uint(n), true
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	salonID, _ := salonScope(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}

	salon, err := h.repo.GetSalonByID(c.Request.Context(), salonID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	date, err := parseDateInSalon(salon, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
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

	aps, err := h.listDay.Execute(c.Request.Context(), apusecase.ListDayInput{
		SalonID: salonID,
		StaffID: staffID,
		Date:    date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.FromAppointments(aps))
}

// ======================================================
// CREATE (walk-in / phone booking)
// ======================================================

type StaffCreateAppointmentRequest struct {
	StaffID    uint   `json:"staff_id" binding:"required"`
	ServiceIDs []uint `json:"service_ids" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string `json:"time" binding:"required"` // HH:mm

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`

	Notes string `json:"notes"`
}

// Create books on behalf of a customer at the desk. It goes through the same
// atomic reserve as the public flow and confirms the hold immediately.
func (h *AppointmentHandler) Create(c *gin.Context) {
	salonID, _ := salonScope(c)

	var req StaffCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	salon, err := h.repo.GetSalonByID(c.Request.Context(), salonID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	startsAt, err := parseDateTimeInSalon(salon, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "date or time invalid")
		return
	}

	ap, err := h.reserve.Execute(c.Request.Context(), apusecase.ReserveInput{
		SalonID:       salonID,
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

	confirmed, err := h.confirm.ExecuteByToken(c.Request.Context(), salonID, ap.HoldToken)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(201, confirmed)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Approve(c *gin.Context) {
	salonID, userID := salonScope(c)
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.approve.Execute(c.Request.Context(), salonID, userID, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	salonID, userID := salonScope(c)
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	res, err := h.cancel.Execute(c.Request.Context(), apusecase.CancelInput{
		SalonID:       salonID,
		AppointmentID: id,
		CancelledBy:   domain.CancelledByStaff,
		Reason:        req.Reason,
		ActorID:       &userID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm

	// Optional; 0 keeps the current staff member.
	StaffID uint `json:"staff_id"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	salonID, userID := salonScope(c)
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	salon, err := h.repo.GetSalonByID(c.Request.Context(), salonID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	startsAt, err := parseDateTimeInSalon(salon, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "date or time invalid")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), apusecase.RescheduleInput{
		SalonID:       salonID,
		AppointmentID: id,
		NewStaffID:    req.StaffID,
		NewStartsAt:   startsAt,
		ActorID:       userID,
		RescheduledBy: domain.CancelledByStaff,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	h.applyTransition(c, apusecase.TransitionCheckIn)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.applyTransition(c, apusecase.TransitionStart)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.applyTransition(c, apusecase.TransitionComplete)
}

func (h *AppointmentHandler) applyTransition(c *gin.Context, kind apusecase.TransitionKind) {
	salonID, userID := salonScope(c)
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), salonID, userID, id, kind)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	salonID, userID := salonScope(c)
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	res, err := h.noShow.Execute(c.Request.Context(), salonID, userID, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}
