package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"forklift-fleet-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormRepository_SQL(t *testing.T) {
	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		run              func(t *testing.T, s Store)
	}{
		{
			name: "Create rejects a taken ID",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "forklifts" WHERE id = $1`)).
					WithArgs("G001").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectRollback()
			},
			run: func(t *testing.T, s Store) {
				_, err := s.Forklifts().Create(context.Background(), model.Forklift{ID: "G001", Model: "Toyota 8FGU25"})
				assert.ErrorIs(t, err, ErrDuplicateID)
			},
		},
		{
			name: "Get maps a missing row to ErrNotFound",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "operators" WHERE id = \$1 ORDER BY "operators"."id" LIMIT \$[0-9]+`).
					WithArgs("OP404", Any{}).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			run: func(t *testing.T, s Store) {
				_, err := s.Operators().Get(context.Background(), "OP404")
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name: "Delete of a missing row returns ErrNotFound",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "maintenances" WHERE id = $1`)).
					WithArgs("M999").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
			run: func(t *testing.T, s Store) {
				err := s.Maintenances().Delete(context.Background(), "M999")
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name: "Deleting an operator clears its subscription mappings first",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscription_operator_mapping WHERE operator_id = $1`)).
					WithArgs("OP001").
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "operators" WHERE id = $1`)).
					WithArgs("OP001").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			run: func(t *testing.T, s Store) {
				require.NoError(t, s.Operators().Delete(context.Background(), "OP001"))
			},
		},
		{
			name: "List keeps insertion order",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "gas_supplies" ORDER BY created_at ASC, id ASC`)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "forklift_id", "quantity", "hour_meter_before", "hour_meter_after"}).
						AddRow("GS002", "G001", 20.5, 100, 110).
						AddRow("GS001", "G004", 18.0, 300, 309))
			},
			run: func(t *testing.T, s Store) {
				items, err := s.GasSupplies().List(context.Background())
				require.NoError(t, err)
				require.Len(t, items, 2)
				assert.Equal(t, "GS002", items[0].ID)
				assert.Equal(t, 309, items[1].HourMeterAfter)
			},
		},
		{
			name: "Subscriptions are joined through the operator mapping",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_operator_mapping.*WHERE .*som\.operator_id = \$1`).
					WithArgs("OP001").
					WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
						AddRow("https://example.com/push", "key", "auth", time.Now()))
			},
			run: func(t *testing.T, s Store) {
				subs, err := s.SubscriptionsForOperator(context.Background(), "OP001")
				require.NoError(t, err)
				require.Len(t, subs, 1)
				assert.Equal(t, "https://example.com/push", subs[0].Endpoint)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			s := NewGormStore(gormDB, "sequence")

			tc.mockExpectations(mock)
			tc.run(t, s)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

func TestGormRepository_UpdateMissing(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB, "sequence")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "forklifts" WHERE id = \$1 ORDER BY "forklifts"."id" LIMIT \$[0-9]+`).
		WithArgs("G404", Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.Forklifts().Update(context.Background(), "G404", model.Forklift{Model: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
