package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/transcripts/internal/entities"
)

// RunsController exposes the conversion run ledger.
type RunsController struct {
	store RunStore
}

func NewRunsController(store RunStore) *RunsController {
	return &RunsController{store: store}
}

// ListRuns handles GET /api/runs
// Supports ?limit=, ?offset= and an optional ?source= filter.
func (rc *RunsController) ListRuns(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	var (
		runs  []entities.ConversionRun
		total int64
		err   error
	)
	if raw := c.Query("source"); raw != "" {
		source, valid := entities.ParseSourceKind(raw)
		if !valid {
			respondBadRequest(c, "unknown source: "+raw)
			return
		}
		runs, total, err = rc.store.ListBySource(source, limit, offset)
	} else {
		runs, total, err = rc.store.List(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "list runs")
		return
	}
	if runs == nil {
		runs = []entities.ConversionRun{}
	}

	c.IndentedJSON(http.StatusOK, newPaginatedResponse(runs, total, limit, offset))
}

// GetRun handles GET /api/runs/:id
func (rc *RunsController) GetRun(c *gin.Context) {
	run, err := rc.store.GetByRunID(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "run")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get run")
		return
	}
	c.IndentedJSON(http.StatusOK, run)
}
