package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httperr"
	"github.com/carosellagiuliano-max/salon-scheduler/internal/httpresp"
	wlusecase "github.com/carosellagiuliano-max/salon-scheduler/internal/usecase/waitlist"
)

// WaitlistHandler exposes the staff-facing waitlist view.
type WaitlistHandler struct {
	repo    domain.Repository
	matches *wlusecase.ListMatches
}

func NewWaitlistHandler(repo domain.Repository, matches *wlusecase.ListMatches) *WaitlistHandler {
	return &WaitlistHandler{repo: repo, matches: matches}
}

// ListMatches answers "who is waiting for an opening in this stretch of the
// calendar", FIFO-ordered.
func (h *WaitlistHandler) ListMatches(c *gin.Context) {
	salonID, _ := salonScope(c)

	salon, err := h.repo.GetSalonByID(c.Request.Context(), salonID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		httperr.BadRequest(c, "missing_date_range", "from and to are required")
		return
	}
	from, err := parseDateInSalon(salon, fromStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateInSalon(salon, toStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD")
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

	entries, err := h.matches.Execute(c.Request.Context(), wlusecase.ListMatchesInput{
		SalonID: salonID,
		StaffID: staffID,
		From:    from,
		To:      to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, entries)
}
