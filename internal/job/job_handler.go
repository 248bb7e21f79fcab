package job

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.CreateJob(c.Request.Context(), caller, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.ListJobs(c.Request.Context(), caller)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Assign(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Assign(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Unassign(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	if err := h.service.Unassign(c.Request.Context(), caller, c.Param("assignmentId")); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
