package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/middleware"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/service"
)

// ExpenseHandler serves the expense endpoints.
type ExpenseHandler struct {
	svc *service.ExpenseService
}

func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

func (h *ExpenseHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Get("/with/{userId}", h.listWithFriend)
}

type createExpenseRequest struct {
	Description    string           `json:"description"`
	Amount         money.Amount     `json:"amount"`
	Date           int64            `json:"date,omitempty"`
	PayerID        string           `json:"payerId,omitempty"`
	GroupID        string           `json:"groupId,omitempty"`
	Category       string           `json:"category,omitempty"`
	SplitType      models.SplitType `json:"splitType"`
	ParticipantIDs []string         `json:"participantIds"`

	// ExactAmounts is required for unequal splits.
	ExactAmounts map[string]money.Amount `json:"exactAmounts,omitempty"`

	// Percents holds per-participant percentages for percentage splits,
	// as decimal strings ("33.33").
	Percents map[string]string `json:"percents,omitempty"`
}

func (h *ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var percentsBP map[string]int64
	if len(req.Percents) > 0 {
		percentsBP = make(map[string]int64, len(req.Percents))
		for userID, pct := range req.Percents {
			bp, err := money.ParsePercent(pct)
			if err != nil {
				writeError(w, service.Validationf("invalid percentage for %s: %v", userID, err))
				return
			}
			percentsBP[userID] = bp
		}
	}

	expense, err := h.svc.Create(r.Context(), middleware.GetUserID(r.Context()), service.CreateExpenseInput{
		Description:    req.Description,
		Amount:         req.Amount,
		Date:           req.Date,
		PayerID:        req.PayerID,
		GroupID:        req.GroupID,
		Category:       req.Category,
		SplitType:      req.SplitType,
		ParticipantIDs: req.ParticipantIDs,
		ExactAmounts:   req.ExactAmounts,
		PercentsBP:     percentsBP,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.svc.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) listWithFriend(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListWithFriend(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}
