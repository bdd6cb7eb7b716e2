package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"delivery_kitchen/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339, YYYY-MM-DD or unix microseconds"
	errToInvalid   = "invalid 'to' time; use RFC3339, YYYY-MM-DD or unix microseconds"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return len(s) == len(layoutDate) && strings.Count(s, "-") == 2
}

// @Summary      List actions
// @Description  Action log of the live kitchen, or of a stored simulation run when run_id is set. A date-only 'to' covers the whole day.
// @Tags         actions
// @Produce      json
// @Param        run_id  query     string  false  "Simulation run id"
// @Param        from    query     string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', 'YYYY-MM-DD' or unix µs)"
// @Param        to      query     string  false  "End of range, inclusive"
// @Param        action  query     string  false  "Action kind"  Enums(place,move,pickup,discard)
// @Success      200     {object}  map[string]interface{}  "count, actions"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/actions [get]
// @Security     BearerAuth
func (h *Handler) getActions(c *gin.Context) {
	var (
		f   = service.ActionFilter{RunID: c.Query("run_id"), Kind: c.Query("action")}
		err error
	)
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Microsecond)
		}
	}

	actions, err := h.services.ActionLog.List(c.Request.Context(), f)
	if err != nil {
		h.respondServiceError(c, err, "failed to load actions", "actions_list_failed",
			"run_id", f.RunID, "from", f.From, "to", f.To, "action", f.Kind)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(actions),
		"actions": actions,
	})
}

// parseQueryTime accepts the layouts above or the microsecond timestamps used
// in the action log itself.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if us, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMicro(us).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
