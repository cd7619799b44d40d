package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/carosellagiuliano-max/salon-scheduler/internal/domain/appointment"
)

// Respond maps scheduling errors onto HTTP statuses so handlers stay thin.
// Conflicts are 409 so clients re-query availability; policy rejections are
// 422 with the exact rule kind; an expired hold is 410.
func Respond(c *gin.Context, err error) {
	var pv *domain.PolicyViolation
	if errors.As(err, &pv) {
		Write(c, http.StatusUnprocessableEntity, string(pv.Kind), "booking rejected by salon policy")
		return
	}

	var it *domain.InvalidTransitionError
	if errors.As(err, &it) {
		Write(c, http.StatusConflict, "invalid_transition", it.Error())
		return
	}

	var be BusinessError
	if errors.As(err, &be) {
		BadRequest(c, be.Code, be.Code)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSlotConflict):
		Write(c, http.StatusConflict, "slot_conflict", "the interval was just taken")
	case errors.Is(err, domain.ErrReservationExpired):
		Write(c, http.StatusGone, "reservation_expired", "the hold expired before confirmation")
	case errors.Is(err, domain.ErrCrossTenant):
		Write(c, http.StatusForbidden, "cross_tenant_reference", "entity belongs to another salon")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(c, "not_found", "resource not found")
	default:
		Internal(c, "internal_error", "unexpected error")
	}
}
