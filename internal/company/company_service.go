package company

import (
	"context"
	"time"

	companyerrors "go-fieldtime/internal/company/errors"
	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	GetMine(ctx context.Context, caller domain.Caller) (*CompanyResponse, error)
	Update(ctx context.Context, caller domain.Caller, req UpdateCompanyRequest) (*CompanyResponse, error)
}

type service struct {
	repo    Repository
	cache   *SettingsCache
	timeout time.Duration
	logger  *zap.Logger
}

func NewService(repo Repository, cache *SettingsCache, timeout time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{repo: repo, cache: cache, timeout: timeout, logger: l}
}

func (s *service) GetMine(ctx context.Context, caller domain.Caller) (*CompanyResponse, error) {
	if err := caller.EnsureTenant(""); err != nil {
		return nil, err
	}
	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	comp, err := s.repo.GetByID(ctx, caller.CompanyID)
	if err != nil {
		return nil, err
	}
	return mapToResponse(comp), nil
}

func (s *service) Update(ctx context.Context, caller domain.Caller, req UpdateCompanyRequest) (*CompanyResponse, error) {
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		return nil, err
	}
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	comp, err := s.repo.GetByID(ctx, caller.CompanyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		comp.Name = *req.Name
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || *req.Timezone == "" {
			return nil, companyerrors.ErrInvalidTimezone
		}
		comp.Timezone = *req.Timezone
	}
	if req.RequireGeofence != nil {
		comp.RequireGeofence = *req.RequireGeofence
	}
	if req.MaxShiftHours != nil {
		comp.MaxShiftHours = *req.MaxShiftHours
	}
	if req.ExceedThresholdHours != nil {
		comp.ExceedThresholdHours = *req.ExceedThresholdHours
	}
	if req.AutoApproveDays != nil {
		comp.AutoApproveDays = *req.AutoApproveDays
	}
	if !validHours(comp.MaxShiftHours) || !validHours(comp.ExceedThresholdHours) {
		return nil, companyerrors.ErrInvalidShiftLimits
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(comp.ID)
	}

	contextutil.GetLogger(ctx, s.logger).Info("company settings updated",
		zap.String("company_id", comp.ID),
		zap.String("actor_id", caller.ActorID()),
	)
	return mapToResponse(comp), nil
}

func validHours(h int) bool {
	return h >= 1 && h <= 24
}

func mapToResponse(c *Company) *CompanyResponse {
	return &CompanyResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Timezone:             c.Timezone,
		RequireGeofence:      c.RequireGeofence,
		MaxShiftHours:        c.MaxShiftHours,
		AutoApproveDays:      c.AutoApproveDays,
		ExceedThresholdHours: c.ExceedThresholdHours,
		IsActive:             c.IsActive,
	}
}
