package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-fieldtime/internal/company"
	"go-fieldtime/internal/config"
	"go-fieldtime/internal/invoice"
	"go-fieldtime/internal/job"
	"go-fieldtime/internal/messaging/kafka"
	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
	"go-fieldtime/internal/resolver"
	"go-fieldtime/internal/review"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/counter"
	"go-fieldtime/internal/shared/database"
	"go-fieldtime/internal/sweeper"
	"go-fieldtime/internal/timeentry"
)

// modules holds the wired services shared by the api and the worker.
type modules struct {
	companyRepo company.Repository
	jobRepo     job.Repository
	entryRepo   timeentry.Repository
	outboxRepo  kafka.OutboxRepository

	settings *company.SettingsCache
	resolver *resolver.Resolver

	company  company.Service
	job      job.Service
	entries  timeentry.Service
	review   review.Service
	invoice  invoice.Service
}

// buildModules wires repositories and services. rdb may be nil, in which
// case review summaries are always computed from the database.
func buildModules(cfg config.Config, db *gorm.DB, rdb redis.Cmdable, clk clock.Clock, logger *zap.Logger) *modules {
	transactor := database.NewTransactor(db)

	// --- Repositories ---
	m := &modules{
		companyRepo: company.NewRepository(db),
		jobRepo:     job.NewRepository(db),
		entryRepo:   timeentry.NewRepository(db),
		outboxRepo:  kafka.NewOutboxRepository(db),
	}
	reviewRepo := review.NewRepository(db)

	// --- Services ---
	m.settings = company.NewSettingsCache(m.companyRepo, clk, logger)
	m.company = company.NewService(m.companyRepo, m.settings, cfg.OperationTimeout, logger)

	m.resolver = resolver.New(m.entryRepo, m.jobRepo, m.settings, resolver.Options{
		Clock:           clk,
		LocationTimeout: cfg.LocationTimeout,
	}, logger)
	m.job = job.NewService(m.jobRepo, clk, cfg.OperationTimeout, m.resolver.Invalidate, logger)

	m.entries = timeentry.NewService(timeentry.Deps{
		Transactor: transactor,
		Repo:       m.entryRepo,
		Outbox:     m.outboxRepo,
		Settings:   m.settings,
		Selector:   m.resolver,
		Clock:      clk,
		Timeout:    cfg.OperationTimeout,
	}, logger)

	m.review = review.NewService(review.Deps{
		Transactor:   transactor,
		Repo:         reviewRepo,
		Entries:      m.entryRepo,
		EntryService: m.entries,
		Outbox:       m.outboxRepo,
		Settings:     m.settings,
		Summaries:    review.NewSummaryCache(rdb, reviewRepo, logger),
		Clock:        clk,
		Timeout:      cfg.OperationTimeout,
		BatchSize:    cfg.BulkCap,
	}, logger)

	m.invoice = invoice.NewService(invoice.Deps{
		Transactor: transactor,
		Repo:       invoice.NewRepository(db),
		Entries:    m.entryRepo,
		Counters:   counter.NewRepository(db),
		Outbox:     m.outboxRepo,
		Clock:      clk,
		Timeout:    cfg.OperationTimeout,
	}, logger)

	return m
}

func (m *modules) sweeper(clk clock.Clock, logger *zap.Logger) *sweeper.Sweeper {
	return sweeper.New(sweeper.Deps{
		Entries:   m.entryRepo,
		Closer:    m.entries,
		Settings:  m.settings,
		Companies: m.companyRepo,
		Approver:  m.review,
		Clock:     clk,
	}, logger)
}

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	m := buildModules(cfg, db, rdb, clock.Real(), logger)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Handlers ---
	companyHandler := company.NewHandler(m.company, logger)
	jobHandler := job.NewHandler(m.job)
	resolverHandler := resolver.NewHandler(m.resolver)
	entryHandler := timeentry.NewHandler(m.entries)
	reviewHandler := review.NewHandler(m.review)
	invoiceHandler := invoice.NewHandler(m.invoice)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api/v1")
	{
		company.RegisterRoutes(api, companyHandler, auth, rbacService)
		job.RegisterRoutes(api, jobHandler, auth, rbacService)
		resolver.RegisterRoutes(api, resolverHandler, auth, rbacService)
		timeentry.RegisterRoutes(api, entryHandler, auth, rbacService, rdb)
		review.RegisterRoutes(api, reviewHandler, auth, rbacService)
		invoice.RegisterRoutes(api, invoiceHandler, auth, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, auth)
	}

	return nil
}
