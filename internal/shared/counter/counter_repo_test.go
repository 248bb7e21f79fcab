package counter_test

import (
	"context"
	"testing"

	"go-fieldtime/internal/shared/connection"
	"go-fieldtime/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNextValue_IncrementsPerCompany(t *testing.T) {
	db, err := connection.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&counter.CompanyCounter{}))

	repo := counter.NewRepository(db)
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()

	v, err := repo.GetNextValue(ctx, a, counter.TypeInvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, _ = repo.GetNextValue(ctx, a, counter.TypeInvoiceNumber)
	assert.Equal(t, int64(2), v)

	v, _ = repo.GetNextValue(ctx, b, counter.TypeInvoiceNumber)
	assert.Equal(t, int64(1), v)
}
