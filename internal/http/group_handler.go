package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/middleware"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/service"
)

// GroupHandler serves group and group-expense endpoints.
type GroupHandler struct {
	groups   *service.GroupService
	expenses *service.ExpenseService
}

func NewGroupHandler(groups *service.GroupService, expenses *service.ExpenseService) *GroupHandler {
	return &GroupHandler{groups: groups, expenses: expenses}
}

func (h *GroupHandler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/members", h.addMembers)
	r.Get("/{id}/expenses", h.listExpenses)
}

type createGroupRequest struct {
	Name      string           `json:"name"`
	Type      models.GroupType `json:"type,omitempty"`
	MemberIDs []string         `json:"memberIds,omitempty"`
}

func (h *GroupHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Type, req.MemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) list(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *GroupHandler) get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type addMembersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

func (h *GroupHandler) addMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groups.AddMembers(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.MemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListByGroup(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}
