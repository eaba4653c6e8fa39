// Package integrationtest provides helpers used in end-to-end tests of the http server.
package integrationtest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/app"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/fraud"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// Config returns the configuration used by test servers.
func Config() configpkg.Config {
	return configpkg.Config{
		DBDriver:            dbpkg.DriverSQLite,
		Environment:         "test",
		FraudStrategy:       fraud.StrategyNone,
		FraudZThreshold:     fraud.DefaultZThreshold,
		FraudSampleSize:     fraud.DefaultSampleSize,
		FraudSeed:           fraud.DefaultSeed,
		LowBalanceThreshold: "100",
	}
}

// SetupServer returns a test server backed by a private in-memory database.
func SetupServer(t *testing.T, config configpkg.Config) *httpserver.Server {
	t.Helper()

	gin.SetMode(gin.ReleaseMode)

	a, err := app.New(dbpkg.SetupTestDB(t), config, nil)
	if err != nil {
		t.Fatalf("app.New(db, %+v, nil) returned error: %v", config, err)
	}

	server, err := httpserver.New(a, zerolog.Nop(), config)
	if err != nil {
		t.Fatalf("httpserver.New(a, logger, config) returned error: %v", err)
	}

	return server
}

// SeedAccount creates the account and deposits amount into it when amount is not empty.
func SeedAccount(t *testing.T, server *httpserver.Server, number, holderName, amount string) domain.Account {
	t.Helper()

	ctx := context.Background()

	account, err := server.App.Accounts.Create(ctx, number, holderName)
	if err != nil {
		t.Fatalf("seeding account %s failed: %v", number, err)
	}

	if amount == "" {
		return account
	}

	res, err := server.App.Ledger.Deposit(ctx, number, amount)
	if err != nil {
		t.Fatalf("seeding deposit to %s failed: %v", number, err)
	}

	return res.Account
}

// Do sends the request with body encoded as JSON and returns the recorded response.
func Do(t *testing.T, server http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}
