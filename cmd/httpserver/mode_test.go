package httpserver_test

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/app"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

func TestNewRunsInReleaseMode(t *testing.T) {
	gin.SetMode(gin.DebugMode)

	config := integrationtest.Config()

	a, err := app.New(dbpkg.SetupTestDB(t), config, nil)
	require.NoError(t, err)

	_, err = httpserver.New(a, zerolog.Nop(), config)
	require.NoError(t, err)

	require.Equal(t, gin.ReleaseMode, gin.Mode())
}
