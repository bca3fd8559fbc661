package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/transcripts/internal/database"
)

const (
	checkOK            = "ok"
	checkNotConfigured = "not configured"
)

// HealthResponse reports the service version and one entry per component.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController answers liveness probes. Only a failing run ledger makes
// the service unhealthy; a missing queue just means conversions run inline.
type HealthController struct {
	ledger  *database.Database
	queue   TaskQueue
	version string
}

func NewHealthController(ledger *database.Database, queue TaskQueue, version string) *HealthController {
	return &HealthController{ledger: ledger, queue: queue, version: version}
}

func (h *HealthController) ledgerCheck() (string, bool) {
	if h.ledger == nil {
		return checkNotConfigured, true
	}
	if err := h.ledger.Ping(); err != nil {
		return "error: " + err.Error(), false
	}
	return checkOK, true
}

func (h *HealthController) Status(c *gin.Context) {
	ledger, healthy := h.ledgerCheck()

	queue := "disabled"
	if h.queue != nil {
		queue = "enabled"
	}

	resp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Checks:  map[string]string{"database": ledger, "queue": queue},
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}
