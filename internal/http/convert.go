package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/transcripts/internal/entities"
	"github.com/mrlokans/transcripts/internal/services"
)

// ConvertController triggers conversions of one input source.
type ConvertController struct {
	runner services.Runner
	queue  TaskQueue
}

func NewConvertController(runner services.Runner, queue TaskQueue) *ConvertController {
	return &ConvertController{runner: runner, queue: queue}
}

// Convert handles POST /api/convert/:source
// With a queue the conversion is enqueued and 202 is returned with the
// task id; otherwise it runs inside the request and the report is returned.
func (cc *ConvertController) Convert(c *gin.Context) {
	source, ok := entities.ParseSourceKind(c.Param("source"))
	if !ok {
		respondBadRequest(c, "unknown source: "+c.Param("source"))
		return
	}

	if cc.queue != nil {
		taskID, err := cc.queue.EnqueueConversion(source)
		if err != nil {
			respondInternalError(c, err, "enqueue conversion")
			return
		}
		respondAccepted(c, "conversion enqueued", gin.H{
			"task_id": taskID,
			"source":  source,
		})
		return
	}

	if cc.runner == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "conversion is not configured"})
		return
	}

	report, err := cc.runner.Run(c.Request.Context(), source)
	if err != nil {
		respondInternalError(c, err, "run conversion")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"report": report,
		"status": report.Status(),
	})
}
