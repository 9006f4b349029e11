package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ecollinet/chasse-backend/internal/http/respond"
	"github.com/ecollinet/chasse-backend/internal/storage"
)

// writeStoreError maps persistence failures onto HTTP: missing rows are
// 404, anything else is a logged 500.
func writeStoreError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "item not found")
		return
	}
	log.Error(op, "error", err)
	respond.Error(w, http.StatusInternalServerError, "internal error")
}

// pathID extracts the {id} wildcard as an int64, writing a 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
