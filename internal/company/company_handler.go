package company

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("company.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetMe(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	comp, err := h.service.GetMine(c.Request.Context(), caller)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comp, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	comp, err := h.service.Update(c.Request.Context(), caller, req)
	if err != nil {
		h.logger.Warn("company update failed", zap.String("company_id", caller.CompanyID), zap.Error(err))
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comp, nil)
}
