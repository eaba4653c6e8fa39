// Package ledgerdelivery manages delivery layer of deposits, withdrawals and transfers.
package ledgerdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/httperr"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Deposit(ctx context.Context, number, amount string) (domain.MovementResult, error)
	Withdraw(ctx context.Context, number, amount string) (domain.MovementResult, error)
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

type uriRequest struct {
	Number string `uri:"number" binding:"required"`
}

type movementRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

type movementFunc func(ctx context.Context, number, amount string) (domain.MovementResult, error)

func (h *Handler) movement(gctx *gin.Context, move movementFunc) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	var req movementRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	result, err := move(ctx, uri.Number, req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(httperr.Status(err))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

// Deposit handles http request to deposit money to the account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.movement(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money from the account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.movement(gctx, h.service.Withdraw)
}

type transferRequest struct {
	FromAccountNumber string `json:"from_account" binding:"required"`
	ToAccountNumber   string `json:"to_account" binding:"required"`
	Amount            string `json:"amount" binding:"required,amount"`
}

type transferData struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

// Transfer handles http request to create a transfer between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})

		return
	}

	arg := domain.CreateTransferParams{
		FromAccountNumber: req.FromAccountNumber,
		ToAccountNumber:   req.ToAccountNumber,
		Amount:            req.Amount,
	}

	result, err := h.service.Transfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(httperr.Status(err))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: transferData{result}})
}
