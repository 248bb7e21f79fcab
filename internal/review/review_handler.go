package review

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/response"
	"go-fieldtime/internal/timeentry"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListExceptions(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var q ExceptionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	items, meta, err := h.service.ListExceptions(c.Request.Context(), caller, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Summary(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), caller, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		response.FromError(c, err)
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), caller, req.EntryIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		response.FromError(c, err)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), caller, req.EntryIDs, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApproveAll(c *gin.Context) {
	h.bulk(c, h.service.ApproveAll)
}

func (h *Handler) RejectAll(c *gin.Context) {
	h.bulk(c, h.service.RejectAll)
}

func (h *Handler) bulk(c *gin.Context, run func(ctx context.Context, caller domain.Caller, req BulkRequest) (*BulkResult, error)) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := run(c.Request.Context(), caller, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Edit(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Edit(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Resubmit(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.Resubmit(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Dispute(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}
	var req timeentry.DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.AddDisputeNote(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
