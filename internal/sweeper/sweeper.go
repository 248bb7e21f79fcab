// Package sweeper closes shifts that ran past their company's maximum length
// and, where enabled, approves clean entries that sat in review long enough.
package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-fieldtime/internal/company"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/timeentry"
)

const (
	BatchSize        = 200
	approveBatchSize = 500
)

type EntrySource interface {
	ListActiveBatch(ctx context.Context, afterID string, limit int) ([]timeentry.TimeEntry, error)
	ListAutoApprovable(ctx context.Context, companyID string, closedBefore time.Time, afterID string, limit int) ([]string, error)
}

type Closer interface {
	AutoClose(ctx context.Context, companyID, entryID string) (bool, error)
}

type CompanySource interface {
	ListAutoApproveEnabled(ctx context.Context) ([]company.Company, error)
}

// Approver approves entries on behalf of the system.
type Approver interface {
	AutoApprove(ctx context.Context, companyID string, ids []string) (int, error)
}

type Options struct {
	DryRun bool
}

type Report struct {
	DryRun       bool          `json:"dry_run"`
	Scanned      int           `json:"scanned"`
	Stale        int           `json:"stale"`
	Closed       int           `json:"closed"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	AutoApproved int           `json:"auto_approved"`
	StaleIDs     []string      `json:"stale_ids,omitempty"`
	Duration     time.Duration `json:"duration"`
}

type Sweeper struct {
	entries   EntrySource
	closer    Closer
	settings  company.SettingsReader
	companies CompanySource
	approver  Approver
	clock     clock.Clock
	logger    *zap.Logger
}

type Deps struct {
	Entries  EntrySource
	Closer   Closer
	Settings company.SettingsReader
	// Companies and Approver enable the auto-approve pass; either may be nil.
	Companies CompanySource
	Approver  Approver
	Clock     clock.Clock
}

func New(d Deps, logger ...*zap.Logger) *Sweeper {
	l := zap.L().Named("sweeper")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sweeper")
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	return &Sweeper{
		entries:   d.Entries,
		closer:    d.Closer,
		settings:  d.Settings,
		companies: d.Companies,
		approver:  d.Approver,
		clock:     d.Clock,
		logger:    l,
	}
}

// Run scans every ACTIVE entry in id order and auto-closes the stale ones,
// then runs the auto-approve pass. Per-entry failures are counted and logged;
// only listing failures abort the run.
func (s *Sweeper) Run(ctx context.Context, opts Options) (Report, error) {
	started := s.clock.Now()
	report := Report{DryRun: opts.DryRun}

	if err := s.sweepActive(ctx, opts, &report); err != nil {
		return report, err
	}
	if err := s.autoApprove(ctx, opts, &report); err != nil {
		return report, err
	}

	report.Duration = s.clock.Now().Sub(started)
	s.logger.Info("sweep finished",
		zap.Bool("dry_run", report.DryRun),
		zap.Int("scanned", report.Scanned),
		zap.Int("stale", report.Stale),
		zap.Int("closed", report.Closed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("auto_approved", report.AutoApproved),
	)
	return report, nil
}

func (s *Sweeper) sweepActive(ctx context.Context, opts Options, report *Report) error {
	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := s.entries.ListActiveBatch(ctx, afterID, BatchSize)
		if err != nil {
			return err
		}
		for i := range batch {
			s.sweepOne(ctx, opts, &batch[i], report)
		}
		if len(batch) < BatchSize {
			return nil
		}
		afterID = batch[len(batch)-1].ID
	}
}

func (s *Sweeper) sweepOne(ctx context.Context, opts Options, e *timeentry.TimeEntry, report *Report) {
	report.Scanned++
	log := s.logger.With(zap.String("company_id", e.CompanyID), zap.String("entry_id", e.ID))

	settings, err := s.settings.Get(ctx, e.CompanyID)
	if err != nil {
		report.Failed++
		log.Error("load company settings failed", zap.Error(err))
		return
	}
	if s.clock.Now().Sub(e.ClockInAt) <= settings.MaxShift() {
		return
	}

	report.Stale++
	report.StaleIDs = append(report.StaleIDs, e.ID)
	if opts.DryRun {
		return
	}

	closed, err := s.closer.AutoClose(ctx, e.CompanyID, e.ID)
	switch {
	case err != nil:
		report.Failed++
		log.Error("auto clock-out failed", zap.Error(err))
	case closed:
		report.Closed++
	default:
		report.Skipped++
		log.Info("entry changed before auto clock-out, skipped")
	}
}

func (s *Sweeper) autoApprove(ctx context.Context, opts Options, report *Report) error {
	if s.companies == nil || s.approver == nil {
		return nil
	}

	companies, err := s.companies.ListAutoApproveEnabled(ctx)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	for _, c := range companies {
		cutoff := now.Add(-time.Duration(c.AutoApproveDays) * 24 * time.Hour)
		log := s.logger.With(zap.String("company_id", c.ID))

		afterID := ""
		for {
			ids, err := s.entries.ListAutoApprovable(ctx, c.ID, cutoff, afterID, approveBatchSize)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				break
			}

			if opts.DryRun {
				report.AutoApproved += len(ids)
			} else {
				n, err := s.approver.AutoApprove(ctx, c.ID, ids)
				if err != nil {
					report.Failed += len(ids)
					log.Error("auto-approve failed", zap.Int("entries", len(ids)), zap.Error(err))
				}
				report.AutoApproved += n
			}

			if len(ids) < approveBatchSize {
				break
			}
			afterID = ids[len(ids)-1]
		}
	}
	return nil
}
