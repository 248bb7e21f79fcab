package rbac

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/response"
)

type CheckRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce answers whether the authenticated caller's role may perform
// resource:action. Clients use it to decide which screens to offer.
func (h *Handler) Enforce(c *gin.Context) {
	caller, ok := c.Get(domain.CallerContextKey)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	allowed, err := h.service.Enforce(domain.EnforceRequest{
		Role:      caller.(domain.Caller).Role,
		CompanyID: caller.(domain.Caller).CompanyID,
		Resource:  strings.TrimSpace(req.Resource),
		Action:    strings.TrimSpace(req.Action),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}
