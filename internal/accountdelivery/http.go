// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/httperr"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, number, holderName string) (domain.Account, error)
	Get(ctx context.Context, number string) (domain.Account, error)
	Search(ctx context.Context, query string) ([]domain.Account, error)
	Rename(ctx context.Context, number, holderName string) (domain.Account, error)
	Delete(ctx context.Context, number string) error
	IsLowBalance(a domain.Account) bool
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account    domain.Account `json:"account"`
	LowBalance bool           `json:"low_balance"`
}

type uriRequest struct {
	Number string `uri:"number" binding:"required"`
}

type createRequest struct {
	Number     string `json:"number" binding:"required,max=64"`
	HolderName string `json:"holder_name" binding:"required,max=128"`
}

func fail(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

	code, res := httperr.Status(err)
	gctx.JSON(code, res)
}

func badRequest(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindErrorMsg(err)})
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	account, err := h.service.Create(gctx.Request.Context(), req.Number, req.HolderName)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: data{Account: account, LowBalance: h.service.IsLowBalance(account)},
	})
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	account, err := h.service.Get(gctx.Request.Context(), req.Number)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: data{Account: account, LowBalance: h.service.IsLowBalance(account)},
	})
}

type listRequest struct {
	Query string `form:"q" binding:"max=128"`
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}

// List handles http request to list accounts, optionally filtered by the q query.
func (h *Handler) List(gctx *gin.Context) {
	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	accounts, err := h.service.Search(gctx.Request.Context(), req.Query)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataAccounts{Accounts: accounts}})
}

type renameRequest struct {
	HolderName string `json:"holder_name" binding:"required,max=128"`
}

// Rename handles http request to change the holder name of account.
func (h *Handler) Rename(gctx *gin.Context) {
	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	var req renameRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	account, err := h.service.Rename(gctx.Request.Context(), uri.Number, req.HolderName)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: data{Account: account, LowBalance: h.service.IsLowBalance(account)},
	})
}

type dataDeleted struct {
	Number string `json:"number"`
}

// Delete handles http request to delete account with all its transactions.
func (h *Handler) Delete(gctx *gin.Context) {
	var req uriRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	if err := h.service.Delete(gctx.Request.Context(), req.Number); err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataDeleted{Number: req.Number}})
}
