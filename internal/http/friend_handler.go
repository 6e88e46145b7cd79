package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/middleware"
	"github.com/divvyhq/divvy/internal/service"
)

// FriendHandler serves the friendship lifecycle endpoints.
type FriendHandler struct {
	svc *service.FriendService
}

func NewFriendHandler(svc *service.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

func (h *FriendHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/requests", h.request)
	r.Get("/requests", h.listPending)
	r.Post("/requests/{id}/accept", h.accept)
	r.Post("/requests/{id}/decline", h.decline)
}

type friendRequestRequest struct {
	UserID string `json:"userId"`
}

func (h *FriendHandler) request(w http.ResponseWriter, r *http.Request) {
	var req friendRequestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	friendship, err := h.svc.Request(r.Context(), middleware.GetUserID(r.Context()), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, friendship)
}

func (h *FriendHandler) accept(w http.ResponseWriter, r *http.Request) {
	friendship, err := h.svc.Accept(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friendship)
}

func (h *FriendHandler) decline(w http.ResponseWriter, r *http.Request) {
	friendship, err := h.svc.Decline(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friendship)
}

func (h *FriendHandler) list(w http.ResponseWriter, r *http.Request) {
	friends, err := h.svc.ListFriends(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *FriendHandler) listPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.svc.ListPendingRequests(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}
