package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ecollinet/chasse-backend/internal/auth"
	"github.com/ecollinet/chasse-backend/internal/http/respond"
	"github.com/ecollinet/chasse-backend/internal/hunt"
	"github.com/ecollinet/chasse-backend/internal/models"
	"github.com/ecollinet/chasse-backend/internal/models/dto"
	"github.com/ecollinet/chasse-backend/internal/storage"
)

// UsersHandler owns the participant endpoints: user CRUD plus the advance
// and current-step operations of the progression engine.
type UsersHandler struct {
	users       storage.UserStore
	hasher      auth.BcryptHasher
	progression *hunt.Progression
	log         *slog.Logger
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users storage.UserStore, hasher auth.BcryptHasher, progression *hunt.Progression, log *slog.Logger) *UsersHandler {
	return &UsersHandler{users: users, hasher: hasher, progression: progression, log: log}
}

// Register wires the user routes. Creation, reads, and the hunt operations
// are public (participants prove identity with their hunt password on
// advance); destructive routes and the listing go through the admin guard.
func (h *UsersHandler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/users", h.handleCreate)
	mux.HandleFunc("GET /api/users/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/users/{id}", h.handleUpdate)
	mux.HandleFunc("POST /api/users/{id}/advance", h.handleAdvance)
	mux.HandleFunc("GET /api/users/{id}/current_step", h.handleCurrentStep)

	mux.Handle("GET /api/users", guard(http.HandlerFunc(h.handleList)))
	mux.Handle("DELETE /api/users/{id}", guard(http.HandlerFunc(h.handleDelete)))
	mux.Handle("DELETE /api/users", guard(http.HandlerFunc(h.handleDeleteAll)))
}

func (h *UsersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.NewUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	password := strings.TrimSpace(req.Password)
	if password == "" {
		respond.Error(w, http.StatusNotAcceptable, "password cannot be empty")
		return
	}
	hash, err := h.hasher.Hash(password)
	if err != nil {
		h.log.Error("hash password", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CurrentStep:  1,
	}
	created, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		writeStoreError(w, h.log, "create user", err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *UsersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.users.UserByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.log, "get user", err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, h.log, "list users", err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// handleUpdate rewrites a user. An empty password in the payload keeps the
// stored hash; a non-empty one is trimmed and re-hashed.
func (h *UsersHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	user, err := h.users.UserByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.log, "get user", err)
		return
	}
	user.Name = strings.TrimSpace(req.Name)
	if req.CurrentStep > 0 {
		user.CurrentStep = req.CurrentStep
	}
	if password := strings.TrimSpace(req.Password); password != "" {
		hash, err := h.hasher.Hash(password)
		if err != nil {
			h.log.Error("hash password", "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		user.PasswordHash = hash
	}
	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		writeStoreError(w, h.log, "update user", err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *UsersHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		writeStoreError(w, h.log, "delete user", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

func (h *UsersHandler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAllUsers(r.Context()); err != nil {
		writeStoreError(w, h.log, "delete all users", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *UsersHandler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var attempt hunt.Attempt
	if err := json.NewDecoder(r.Body).Decode(&attempt); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	outcome, err := h.progression.Advance(r.Context(), id, attempt)
	if err != nil {
		writeStoreError(w, h.log, "advance", err)
		return
	}
	switch o := outcome.(type) {
	case hunt.WrongPassword:
		respond.JSON(w, http.StatusForbidden, dto.AdvanceResponse{Type: "WrongPassword"})
	case hunt.WrongPlace:
		respond.JSON(w, http.StatusNotAcceptable, dto.AdvanceResponse{Type: "WrongPlace", Distance: &o.Distance})
	case hunt.WrongAnswer:
		respond.JSON(w, http.StatusNotAcceptable, dto.AdvanceResponse{Type: "WrongAnswer"})
	case hunt.Success:
		respond.JSON(w, http.StatusOK, dto.AdvanceResponse{Type: "Success", Step: &o.Step})
	default:
		h.log.Error("advance", "error", "unknown outcome")
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *UsersHandler) handleCurrentStep(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	step, err := h.progression.CurrentStep(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.log, "current step", err)
		return
	}
	respond.JSON(w, http.StatusOK, step)
}
