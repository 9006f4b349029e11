package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/ecollinet/chasse-backend/internal/http/respond"
	"github.com/ecollinet/chasse-backend/internal/hunt"
	"github.com/ecollinet/chasse-backend/internal/media"
	"github.com/ecollinet/chasse-backend/internal/models"
)

// StepsHandler owns the admin CRUD surface over steps and their media.
type StepsHandler struct {
	catalog *hunt.Catalog
	media   *media.Store
	log     *slog.Logger
}

// NewStepsHandler constructs the handler.
func NewStepsHandler(catalog *hunt.Catalog, mediaStore *media.Store, log *slog.Logger) *StepsHandler {
	return &StepsHandler{catalog: catalog, media: mediaStore, log: log}
}

// Register wires the step routes. Everything except the media read is admin
// territory and goes through the guard.
func (h *StepsHandler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	admin := func(fn http.HandlerFunc) http.Handler { return guard(fn) }

	mux.Handle("GET /api/steps", admin(h.handleList))
	mux.Handle("POST /api/steps", admin(h.handleCreate))
	mux.Handle("DELETE /api/steps", admin(h.handleDeleteAll))
	mux.Handle("GET /api/steps/{id}", admin(h.handleGet))
	mux.Handle("PUT /api/steps/{id}", admin(h.handleUpdate))
	mux.Handle("DELETE /api/steps/{id}", admin(h.handleDelete))

	mux.HandleFunc("GET /api/steps/media/{id}", h.handleGetMedia)
	mux.Handle("POST /api/steps/media/{id}", admin(h.handleUploadMedia))
	mux.Handle("DELETE /api/steps/media/{id}", admin(h.handleDeleteMedia))
}

func (h *StepsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	steps, err := h.catalog.List(r.Context())
	if err != nil {
		writeStoreError(w, h.log, "list steps", err)
		return
	}
	respond.JSON(w, http.StatusOK, steps)
}

func (h *StepsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var step models.Step
	if err := json.NewDecoder(r.Body).Decode(&step); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	step.ID = 0 // the store assigns identifiers
	created, err := h.catalog.Create(r.Context(), step)
	if err != nil {
		writeStoreError(w, h.log, "create step", err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *StepsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	step, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.log, "get step", err)
		return
	}
	respond.JSON(w, http.StatusOK, step)
}

func (h *StepsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var step models.Step
	if err := json.NewDecoder(r.Body).Decode(&step); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	step.ID = id
	updated, err := h.catalog.Update(r.Context(), step)
	if err != nil {
		writeStoreError(w, h.log, "update step", err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *StepsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		writeStoreError(w, h.log, "delete step", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

func (h *StepsHandler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteAll(r.Context()); err != nil {
		writeStoreError(w, h.log, "delete all steps", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *StepsHandler) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.media.Exists(id) {
		respond.Error(w, http.StatusNotFound, "item not found")
		return
	}
	http.ServeFile(w, r, h.media.Path(id))
}

func (h *StepsHandler) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	defer r.Body.Close()
	n, err := h.media.Save(id, r.Body)
	if err != nil {
		h.log.Error("upload media", "step_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to store media")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"step_id": id, "bytes": n})
}

func (h *StepsHandler) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.media.Delete(id); err != nil {
		if os.IsNotExist(err) {
			respond.Error(w, http.StatusNotFound, "item not found")
			return
		}
		h.log.Error("delete media", "step_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete media")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
