package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/audit"
	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

type AbsenceHandler struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAbsenceHandler(repo domain.Repository, audit *audit.Dispatcher) *AbsenceHandler {
	return &AbsenceHandler{repo: repo, audit: audit}
}

type CreateAbsenceRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD

	// Optional time-of-day bounds; empty means the whole day.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	Reason string `json:"reason"`
}

func (h *AbsenceHandler) Create(c *gin.Context) {
	salonID, userID := salonScope(c)

	var req CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	salon, err := h.repo.GetSalonByID(c.Request.Context(), salonID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	startDate, err := parseDateInSalon(salon, req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := parseDateInSalon(salon, req.EndDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "end_date must be YYYY-MM-DD")
		return
	}
	if endDate.Before(startDate) {
		httperr.BadRequest(c, "invalid_date_range", "end_date before start_date")
		return
	}

	ab := &models.Absence{
		StaffID:   userID,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := h.repo.CreateAbsence(c.Request.Context(), ab); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		ActorID:  &userID,
		Action:   "absence_created",
		Entity:   "absence",
		EntityID: &ab.ID,
	})

	c.JSON(201, ab)
}

func (h *AbsenceHandler) Delete(c *gin.Context) {
	salonID, userID := salonScope(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "id must be numeric")
		return
	}
	absenceID := uint(id)

	if err := h.repo.DeleteAbsence(c.Request.Context(), salonID, absenceID); err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		ActorID:  &userID,
		Action:   "absence_deleted",
		Entity:   "absence",
		EntityID: &absenceID,
	})

	c.Status(204)
}
