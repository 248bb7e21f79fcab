package database

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn inside one database transaction. Repositories join it
// through their WithTx(tx) method; returning an error rolls everything back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

// TransactorFunc adapts a function, mostly for tests with mocked repositories.
type TransactorFunc func(ctx context.Context, fn func(tx *gorm.DB) error) error

func (f TransactorFunc) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return f(ctx, fn)
}

// NoTx calls fn with a nil transaction handle.
var NoTx = TransactorFunc(func(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
})
