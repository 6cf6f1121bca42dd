package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/avercast/timeslips-api/internal/domain/timesheet"
	"github.com/avercast/timeslips-api/internal/httperr"
)

// writeDomainError maps engine errors onto HTTP responses. Anything
// untyped is a failed request: the transaction already rolled back,
// so only a generic failure is surfaced.
func writeDomainError(c *gin.Context, err error) {

	var ve timesheet.ValidationError
	if errors.As(err, &ve) {
		httperr.BadRequest(c, ve.Rule, ve.Error())
		return
	}

	var nf timesheet.NotFoundError
	if errors.As(err, &nf) {
		httperr.NotFound(c, "not_found", nf.Error())
		return
	}

	var ciu timesheet.CodeInUseError
	if errors.As(err, &ciu) {
		httperr.Conflict(c, "code_in_use", ciu.Error())
		return
	}

	var ia timesheet.InsufficientAccessError
	if errors.As(err, &ia) {
		httperr.Forbidden(c, "insufficient_access", "You do not have access to perform this action.")
		return
	}

	var la timesheet.LastAdminError
	if errors.As(err, &la) {
		httperr.Conflict(c, "last_admin", la.Error())
		return
	}

	var cf timesheet.ConflictError
	if errors.As(err, &cf) {
		httperr.Conflict(c, "concurrent_update", cf.Error())
		return
	}

	log.Println("request failed:", err)
	httperr.Internal(c, "internal_error", "Something went wrong.")
}
