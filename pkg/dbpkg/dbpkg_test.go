package dbpkg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestSetupUnsupportedDriver(t *testing.T) {
	_, err := Setup("mysql", "whatever")
	require.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := SetupTestDB(t)

	require.NoError(t, Migrate(context.Background(), db, DriverSQLite))
}

func TestConstraintViolated(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	const insert = `INSERT INTO accounts (number, holder_name, balance, created_at) VALUES ($1, $2, $3, $4)`

	_, err := db.ExecContext(ctx, insert, "A1", "Alice", 0, now)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "A1", "Alice", 0, now)
	require.Error(t, err)
	require.True(t, ConstraintViolated(err, "accounts_pkey", "accounts.number"))
	require.False(t, ConstraintViolated(err, "accounts_balance_check"))

	_, err = db.ExecContext(ctx, insert, "A2", "Bob", -1, now)
	require.Error(t, err)
	require.True(t, ConstraintViolated(err, "accounts_balance_check"))

	pqErr := &pq.Error{Constraint: "accounts_pkey"}
	require.True(t, ConstraintViolated(pqErr, "accounts_pkey"))
	require.False(t, ConstraintViolated(pqErr, "accounts_balance_check"))

	require.False(t, ConstraintViolated(errors.New("boom"), "accounts_pkey"))
}

func TestSQLiteLowerIsUnicodeAware(t *testing.T) {
	db := SetupTestDB(t)

	testCases := []struct {
		in   any
		want string
	}{
		{in: "ÉMILE Zoë", want: "émile zoë"},
		{in: "ÅNGSTRÖM", want: "ångström"},
		{in: "Plain ASCII", want: "plain ascii"},
		{in: int64(42), want: "42"},
	}

	for _, tc := range testCases {
		var got string
		require.NoError(t, db.QueryRowContext(context.Background(), `SELECT lower($1)`, tc.in).Scan(&got))
		require.Equal(t, tc.want, got)
	}

	var null *string
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT lower(NULL)`).Scan(&null))
	require.Nil(t, null)
}
