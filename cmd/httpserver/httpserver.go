// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/app"
	"github.com/go-petr/pet-ledger/internal/entrydelivery"
	"github.com/go-petr/pet-ledger/internal/ledgerdelivery"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// Server holds the wired services, handlers router and configuration.
type Server struct {
	App    *app.App
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(a *app.App, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("amount", moneypkg.ValidAmount); err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	accountHandler := accountdelivery.NewHandler(a.Accounts)
	ledgerHandler := ledgerdelivery.NewHandler(a.Ledger)
	entryHandler := entrydelivery.NewHandler(a.Entries)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.RateLimit(config.RateLimitRPS, config.RateLimitBurst))

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:number", accountHandler.Get)
	engine.PATCH("/accounts/:number", accountHandler.Rename)
	engine.DELETE("/accounts/:number", accountHandler.Delete)

	engine.POST("/accounts/:number/deposits", ledgerHandler.Deposit)
	engine.POST("/accounts/:number/withdrawals", ledgerHandler.Withdraw)
	engine.POST("/transfers", ledgerHandler.Transfer)

	engine.GET("/accounts/:number/transactions", entryHandler.History)
	engine.GET("/transactions", entryHandler.Report)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	server := &Server{
		App:    a,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
