package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anlevch/go-taskboard/internal/models"
	"github.com/anlevch/go-taskboard/internal/services"
)

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Overdue     bool       `json:"overdue"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Overdue:     task.Overdue(time.Now()),
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// abortTaskError maps service errors to responses. Access denials
// carry the bare status text so the response body never reveals
// whether the record exists.
func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrTaskAccessDenied):
		abort(c, newForbiddenError())
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=4096"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		h.logger.Error().Msg("no caller found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateTaskParams{
		Title:   req.Title,
		DueDate: req.DueDate,
	}
	if req.Description != nil {
		params.Description = *req.Description
	}

	task, err := h.tasks.Create(c, caller, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

type listTasksRequest struct {
	Completed *bool  `form:"completed"`
	Search    string `form:"search" binding:"omitempty,max=255"`
	Overdue   bool   `form:"overdue"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

type listTasksResponse struct {
	Tasks      []taskResponse `json:"tasks"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		h.logger.Error().Msg("no caller found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req listTasksRequest
	err := c.ShouldBindQuery(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError(errInvalidQueryParams.Error()))
		return
	}

	page, err := h.tasks.List(c, caller, models.TaskFilter{
		Completed:   req.Completed,
		Search:      req.Search,
		OverdueOnly: req.Overdue,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := listTasksResponse{
		Tasks:      make([]taskResponse, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(),
	}
	for i := range page.Items {
		response.Tasks[i] = newTaskResponse(&page.Items[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		h.logger.Error().Msg("no caller found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.Get(c, caller, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=4096"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		h.logger.Error().Msg("no caller found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.UpdateTaskParams{
		Title:     req.Title,
		DueDate:   req.DueDate,
		Completed: req.Completed,
	}
	if req.Description != nil {
		params.Description = *req.Description
	}

	task, err := h.tasks.Update(c, caller, c.Param("id"), params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		h.logger.Error().Msg("no caller found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.tasks.Delete(c, caller, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		h.abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type taskStatsResponse struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

func (h *handlerImpl) HandleTaskStats(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		h.logger.Error().Msg("no caller found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	stats, err := h.tasks.Stats(c, caller)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to aggregate task stats")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, taskStatsResponse{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Pending:        stats.Pending,
		Overdue:        stats.Overdue,
		CompletionRate: stats.CompletionRate,
	})
}
