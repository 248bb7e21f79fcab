package review_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-fieldtime/internal/review"
	"go-fieldtime/internal/review/mock"
)

func TestSummaryCache(t *testing.T) {
	ctx := context.Background()
	rg := review.Range{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	}
	key := review.SummaryKey(companyID, rg)
	want := review.Summary{OutsideGeofence: 2, AllPending: 7, Disputed: 1}
	body, err := json.Marshal(want)
	require.NoError(t, err)

	t.Run("Hit does not touch the database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		cache := review.NewSummaryCache(rdb, repo, zap.NewNop())

		rmock.ExpectGet(key).SetVal(string(body))
		repo.EXPECT().Summary(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		got, err := cache.Get(ctx, companyID, rg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("Miss loads and stores for thirty seconds", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		cache := review.NewSummaryCache(rdb, repo, zap.NewNop())

		rmock.ExpectGet(key).RedisNil()
		repo.EXPECT().Summary(gomock.Any(), companyID, rg).Return(want, nil).Times(1)
		rmock.ExpectSet(key, string(body), review.SummaryTTL).SetVal("OK")

		got, err := cache.Get(ctx, companyID, rg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("Redis outage falls back to the database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		cache := review.NewSummaryCache(rdb, repo, zap.NewNop())

		rmock.ExpectGet(key).SetErr(errors.New("connection refused"))
		repo.EXPECT().Summary(gomock.Any(), companyID, rg).Return(want, nil).Times(1)
		rmock.ExpectSet(key, string(body), review.SummaryTTL).SetErr(errors.New("connection refused"))

		got, err := cache.Get(ctx, companyID, rg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("Redis outage keeps counts in process for the TTL", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		cache := review.NewSummaryCache(rdb, repo, zap.NewNop())

		rmock.ExpectGet(key).SetErr(errors.New("connection refused"))
		rmock.ExpectGet(key).SetErr(errors.New("connection refused"))
		repo.EXPECT().Summary(gomock.Any(), companyID, rg).Return(want, nil).Times(1)

		for i := 0; i < 2; i++ {
			got, err := cache.Get(ctx, companyID, rg)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("Without Redis counts are kept in process", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		cache := review.NewSummaryCache(nil, repo, zap.NewNop())

		repo.EXPECT().Summary(gomock.Any(), companyID, rg).Return(want, nil).Times(1)

		for i := 0; i < 3; i++ {
			got, err := cache.Get(ctx, companyID, rg)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Cancelled caller does not cancel the shared query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		cache := review.NewSummaryCache(rdb, repo, zap.NewNop())

		started := make(chan struct{})
		release := make(chan struct{})
		queryErr := make(chan error, 1)
		rmock.ExpectGet(key).RedisNil()
		repo.EXPECT().Summary(gomock.Any(), companyID, rg).DoAndReturn(
			func(qctx context.Context, _ string, _ review.Range) (review.Summary, error) {
				close(started)
				<-release
				queryErr <- qctx.Err()
				return want, nil
			}).Times(1)
		rmock.ExpectSet(key, string(body), review.SummaryTTL).SetVal("OK")

		cctx, cancel := context.WithCancel(ctx)
		errc := make(chan error, 1)
		go func() {
			_, err := cache.Get(cctx, companyID, rg)
			errc <- err
		}()
		<-started
		cancel()
		assert.ErrorIs(t, <-errc, context.Canceled)

		close(release)
		require.Eventually(t, func() bool {
			return rmock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
		assert.NoError(t, <-queryErr)
	})

	t.Run("Database error is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		rdb, rmock := redismock.NewClientMock()
		cache := review.NewSummaryCache(rdb, repo, zap.NewNop())

		rmock.ExpectGet(key).RedisNil()
		repo.EXPECT().Summary(gomock.Any(), companyID, rg).Return(review.Summary{}, errors.New("db down"))

		_, err := cache.Get(ctx, companyID, rg)
		assert.Error(t, err)
	})
}
