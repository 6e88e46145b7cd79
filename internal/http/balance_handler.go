package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/middleware"
	"github.com/divvyhq/divvy/internal/service"
)

// BalanceHandler serves the balance summary endpoints.
type BalanceHandler struct {
	svc *service.BalanceService
}

func NewBalanceHandler(svc *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{svc: svc}
}

func (h *BalanceHandler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/with/{userId}", h.withFriend)
}

func (h *BalanceHandler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Balances(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *BalanceHandler) withFriend(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.WithFriend(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}
