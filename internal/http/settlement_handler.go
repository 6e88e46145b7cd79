package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/middleware"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/service"
)

// SettlementHandler serves the settle-up endpoints.
type SettlementHandler struct {
	svc *service.SettlementService
}

func NewSettlementHandler(svc *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

func (h *SettlementHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/with/{userId}", h.listWithUser)
}

type createSettlementRequest struct {
	ReceiverID  string       `json:"receiverId"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description,omitempty"`
	Date        int64        `json:"date,omitempty"`
}

func (h *SettlementHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSettlementRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	settlement, err := h.svc.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreateSettlementInput{
		ReceiverID:  req.ReceiverID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlement)
}

func (h *SettlementHandler) listWithUser(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.svc.ListWithUser(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlements)
}
