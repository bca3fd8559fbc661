package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
)

func TestTasksController_GetTaskStatus(t *testing.T) {
	queue := &fakeQueue{statuses: map[string]backlite.TaskStatus{
		"t1": backlite.TaskStatusSuccess,
		"t2": backlite.TaskStatusRunning,
	}}
	controller := NewTasksController(queue)
	router := gin.New()
	router.GET("/api/tasks/:id", controller.GetTaskStatus)

	tests := []struct {
		id       string
		wantCode int
		want     string
	}{
		{"t1", http.StatusOK, `"status":"success"`},
		{"t2", http.StatusOK, `"status":"running"`},
		{"t3", http.StatusNotFound, `"status":"not_found"`},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/tasks/"+tt.id, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestTasksController_StatusError(t *testing.T) {
	controller := NewTasksController(&fakeQueue{err: errBoom})
	router := gin.New()
	router.GET("/api/tasks/:id", controller.GetTaskStatus)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tasks/t1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "pending", taskStatusToString(backlite.TaskStatusPending))
	assert.Equal(t, "running", taskStatusToString(backlite.TaskStatusRunning))
	assert.Equal(t, "success", taskStatusToString(backlite.TaskStatusSuccess))
	assert.Equal(t, "failure", taskStatusToString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", taskStatusToString(backlite.TaskStatusNotFound))
}
