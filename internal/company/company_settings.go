package company

import (
	"context"
	"time"

	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/ttlcache"

	"go.uber.org/zap"
)

const SettingsTTL = 5 * time.Minute

// Settings is the read-mostly slice of a company the clock flow depends on.
type Settings struct {
	CompanyID            string
	Timezone             string
	RequireGeofence      bool
	MaxShiftHours        int
	AutoApproveDays      int
	ExceedThresholdHours int

	loc *time.Location
}

// SettingsFromCompany normalises zero values to the documented defaults and
// resolves the IANA zone once. An unknown zone falls back to UTC.
func SettingsFromCompany(c *Company, logger *zap.Logger) Settings {
	s := Settings{
		CompanyID:            c.ID,
		Timezone:             c.Timezone,
		RequireGeofence:      c.RequireGeofence,
		MaxShiftHours:        c.MaxShiftHours,
		AutoApproveDays:      c.AutoApproveDays,
		ExceedThresholdHours: c.ExceedThresholdHours,
	}
	if s.MaxShiftHours <= 0 {
		s.MaxShiftHours = DefaultMaxShiftHours
	}
	if s.ExceedThresholdHours <= 0 {
		s.ExceedThresholdHours = DefaultExceedThresholdHours
	}
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		if logger != nil {
			logger.Warn("invalid company timezone, using UTC",
				zap.String("company_id", c.ID),
				zap.String("timezone", s.Timezone),
				zap.Error(err),
			)
		}
		loc = time.UTC
	}
	s.loc = loc
	return s
}

func (s Settings) Location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}

func (s Settings) MaxShift() time.Duration {
	return time.Duration(s.MaxShiftHours) * time.Hour
}

func (s Settings) ExceedThreshold() time.Duration {
	return time.Duration(s.ExceedThresholdHours) * time.Hour
}

// DayBounds returns [00:00, next 00:00) of the company-local day containing t,
// expressed in UTC.
func (s Settings) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.Location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Location())
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

//go:generate mockgen -destination=mock/company_settings_mock.go -package=mock . SettingsReader
type SettingsReader interface {
	Get(ctx context.Context, companyID string) (Settings, error)
}

// SettingsCache keeps company settings for SettingsTTL per company id.
// Concurrent misses for one company share a single repository read.
type SettingsCache struct {
	repo   Repository
	store  *ttlcache.Store[string, Settings]
	logger *zap.Logger
}

func NewSettingsCache(repo Repository, c clock.Clock, logger ...*zap.Logger) *SettingsCache {
	l := zap.L().Named("company.settings")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.settings")
	}
	return &SettingsCache{
		repo:   repo,
		store:  ttlcache.New[string, Settings](SettingsTTL, c),
		logger: l,
	}
}

func (c *SettingsCache) Get(ctx context.Context, companyID string) (Settings, error) {
	return c.store.Get(ctx, companyID, func(ctx context.Context) (Settings, error) {
		comp, err := c.repo.GetByID(ctx, companyID)
		if err != nil {
			return Settings{}, err
		}
		return SettingsFromCompany(comp, c.logger), nil
	})
}

func (c *SettingsCache) Invalidate(companyID string) {
	c.store.Invalidate(companyID)
}
