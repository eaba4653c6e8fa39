// Package entrydelivery manages delivery layer of transaction history and reports.
package entrydelivery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/entryservice"
	"github.com/go-petr/pet-ledger/internal/httperr"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Response formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Service provides service layer interface needed by entry delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package entrydelivery
type Service interface {
	History(ctx context.Context, number string) ([]domain.Entry, error)
	Report(ctx context.Context, start, end time.Time) ([]domain.Entry, error)
}

// Handler facilitates entry delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns entry handler.
func NewHandler(es Service) *Handler {
	return &Handler{service: es}
}

type uriRequest struct {
	Number string `uri:"number" binding:"required"`
}

type historyRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=json csv"`
}

type data struct {
	Transactions []domain.Entry `json:"transactions"`
}

func (h *Handler) respond(gctx *gin.Context, format, filename string, entries []domain.Entry) {
	if format != FormatCSV {
		gctx.JSON(http.StatusOK, web.Response{Data: data{entries}})
		return
	}

	gctx.Header("Content-Type", "text/csv")
	gctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	gctx.Status(http.StatusOK)

	if err := entryservice.WriteCSV(gctx.Writer, entries); err != nil {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
	}
}

// History handles http request to list the transactions of the account, newest first.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	entries, err := h.service.History(ctx, uri.Number)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(httperr.Status(err))

		return
	}

	h.respond(gctx, req.Format, uri.Number+"_transactions.csv", entries)
}

type reportRequest struct {
	From   string `form:"from" binding:"required"`
	To     string `form:"to" binding:"required"`
	Format string `form:"format" binding:"omitempty,oneof=json csv"`
}

// Report handles http request to list the transactions of all accounts between two dates inclusive.
func (h *Handler) Report(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req reportRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	start, err := time.Parse(entryservice.DateLayout, req.From)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidDate))

		return
	}

	end, err := time.Parse(entryservice.DateLayout, req.To)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidDate))

		return
	}

	entries, err := h.service.Report(ctx, start, end)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(httperr.Status(err))

		return
	}

	h.respond(gctx, req.Format, fmt.Sprintf("transactions_%s_%s.csv", req.From, req.To), entries)
}
