package invoice

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

func (h *Handler) CreateFromTime(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.CreateFromTime(c.Request.Context(), caller, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
