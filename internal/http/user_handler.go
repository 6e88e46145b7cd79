package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divvyhq/divvy/internal/service"
	"github.com/divvyhq/divvy/internal/storage"
)

// UserHandler serves user lookups, used to find people to befriend.
type UserHandler struct {
	store storage.Store
}

func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/lookup", h.lookup)
	r.Get("/{id}", h.get)
}

// lookup finds a user by exact username or email.
func (h *UserHandler) lookup(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	email := r.URL.Query().Get("email")

	switch {
	case username != "":
		user, err := h.store.GetUserByUsername(r.Context(), username)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	case email != "":
		user, err := h.store.GetUserByEmail(r.Context(), email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	default:
		writeError(w, service.Validationf("lookup requires a username or email parameter"))
	}
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
