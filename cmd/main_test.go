package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

func TestSetupClosesDatabaseOnFailure(t *testing.T) {
	testCases := []struct {
		name string
		env  string
	}{
		{name: "AppFails", env: "FRAUD_STRATEGY=bogus\n"},
		{name: "RedisFails", env: "REDIS_ADDR=127.0.0.1:1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.env")
			env := "DB_DRIVER=sqlite\nDB_SOURCE=file:setup_" + tc.name + "?mode=memory\n" + tc.env
			require.NoError(t, os.WriteFile(path, []byte(env), 0o600))

			var opened *sql.DB

			prevPath, prevOpen := configPath, openDB
			t.Cleanup(func() { configPath, openDB = prevPath, prevOpen })

			configPath = path
			openDB = func(driver, source string) (*sql.DB, error) {
				db, err := dbpkg.Setup(driver, source)
				opened = db
				return db, err
			}

			a, _, _, err := setup(context.Background())
			require.Error(t, err)
			require.Nil(t, a)

			require.NotNil(t, opened)
			require.ErrorContains(t, opened.Ping(), "database is closed")
		})
	}
}

func TestSetupOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=sqlite\nDB_SOURCE=file:setup_ok?mode=memory\n"), 0o600))

	prevPath := configPath
	t.Cleanup(func() { configPath = prevPath })

	configPath = path

	a, config, _, err := setup(context.Background())
	require.NoError(t, err)
	require.Equal(t, dbpkg.DriverSQLite, config.DBDriver)
	require.NoError(t, a.DB.Ping())
	require.NoError(t, a.DB.Close())
}
