package resolver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/response"
	timeentryerrors "go-fieldtime/internal/timeentry/errors"
)

//go:generate mockgen -destination=mock/resolver_service_mock.go -package=mock . Service
type Service interface {
	Resolve(ctx context.Context, companyID, workerID string, loc LocationProvider) (Selection, error)
	Refresh(companyID, workerID string)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Resolve(c *gin.Context) {
	h.resolve(c, false)
}

func (h *Handler) Refresh(c *gin.Context) {
	h.resolve(c, true)
}

func (h *Handler) resolve(c *gin.Context, refresh bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	if caller.WorkerID == "" {
		response.FromError(c, timeentryerrors.ErrWorkerRequired)
		return
	}
	var q ResolveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	if refresh {
		h.service.Refresh(caller.CompanyID, caller.WorkerID)
	}
	sel, err := h.service.Resolve(c.Request.Context(), caller.CompanyID, caller.WorkerID, StaticLocation(q.Fix()))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(sel), nil)
}
