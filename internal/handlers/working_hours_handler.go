package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httpresp"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// WorkingHoursHandler lets a staff member manage their own weekly schedule
// and date overrides. The staff ID is always the authenticated user.
type WorkingHoursHandler struct {
	repo domain.Repository
}

func NewWorkingHoursHandler(repo domain.Repository) *WorkingHoursHandler {
	return &WorkingHoursHandler{repo: repo}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	_, userID := salonScope(c)

	hours, err := h.repo.ListWorkingHours(c.Request.Context(), userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	_, userID := salonScope(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	hours := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		hours = append(hours, models.WorkingHours{
			StaffID:    userID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	if err := h.repo.ReplaceWorkingHours(c.Request.Context(), userID, hours); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// OVERRIDES
// ======================================================

type OverrideRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD
	Closed    bool   `json:"closed"`

	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`

	Note string `json:"note"`
}

func (h *WorkingHoursHandler) CreateOverride(c *gin.Context) {
	salonID, userID := salonScope(c)

	var req OverrideRequest
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

	ov := &models.WorkingHoursOverride{
		StaffID:    userID,
		StartDate:  startDate,
		EndDate:    endDate,
		Closed:     req.Closed,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		BreakStart: req.BreakStart,
		BreakEnd:   req.BreakEnd,
		Note:       req.Note,
	}
	if err := h.repo.CreateWorkingHoursOverride(c.Request.Context(), ov); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(201, ov)
}

func (h *WorkingHoursHandler) DeleteOverride(c *gin.Context) {
	salonID, _ := salonScope(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "id must be numeric")
		return
	}

	if err := h.repo.DeleteWorkingHoursOverride(c.Request.Context(), salonID, uint(id)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(204)
}
