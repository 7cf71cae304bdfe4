package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anlevch/go-taskboard/internal/models"
	"github.com/anlevch/go-taskboard/internal/services"
	"github.com/anlevch/go-taskboard/internal/storage/memory"
)

// newTestRouter wires the task routes behind a stub middleware that
// injects the caller directly, standing in for the JWT middleware.
func newTestRouter(caller models.Caller, taskService services.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := &handlerImpl{
		logger: zerolog.Nop(),
		tasks:  taskService,
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(callerCtxKey, caller)
	})

	router.GET("/tasks", h.HandleListTasks)
	router.POST("/tasks", h.HandleCreateTask)
	router.GET("/tasks/:id", h.HandleGetTask)
	router.PUT("/tasks/:id", h.HandleUpdateTask)
	router.DELETE("/tasks/:id", h.HandleDeleteTask)
	router.GET("/stats", h.HandleTaskStats)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTaskHandlersCRUD(t *testing.T) {
	taskService := services.NewTaskService(zerolog.Nop(), memory.NewTaskStore())
	router := newTestRouter(models.Caller{ID: "alice"}, taskService)

	rec := performJSON(t, router, http.MethodPost, "/tasks", gin.H{
		"title":       "write report",
		"description": "quarterly numbers",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Completed)
	assert.Nil(t, created.CompletedAt)

	rec = performJSON(t, router, http.MethodGet, "/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performJSON(t, router, http.MethodPut, "/tasks/"+created.ID, gin.H{
		"title":     "write report",
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.CompletedAt)

	rec = performJSON(t, router, http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed listTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Total)
	assert.Equal(t, 1, listed.TotalPages)

	rec = performJSON(t, router, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats taskStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 100.0, stats.CompletionRate)

	rec = performJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = performJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandlersErrorMapping(t *testing.T) {
	taskService := services.NewTaskService(zerolog.Nop(), memory.NewTaskStore())

	aliceRouter := newTestRouter(models.Caller{ID: "alice"}, taskService)
	rec := performJSON(t, aliceRouter, http.MethodPost, "/tasks", gin.H{
		"title": "private task",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created taskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	bobRouter := newTestRouter(models.Caller{ID: "bob"}, taskService)

	t.Run("missing title is rejected", func(t *testing.T) {
		rec := performJSON(t, aliceRouter, http.MethodPost, "/tasks", gin.H{
			"description": "no title",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing task is 404", func(t *testing.T) {
		rec := performJSON(t, aliceRouter, http.MethodGet, "/tasks/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign task is 403 with bare status text", func(t *testing.T) {
		rec := performJSON(t, bobRouter, http.MethodGet, "/tasks/"+created.ID, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusText(http.StatusForbidden), body["error"])
	})

	t.Run("privileged caller bypasses ownership", func(t *testing.T) {
		adminRouter := newTestRouter(models.Caller{ID: "admin", Privileged: true}, taskService)
		rec := performJSON(t, adminRouter, http.MethodGet, "/tasks/"+created.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
