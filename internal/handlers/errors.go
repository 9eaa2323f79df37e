package handlers

import (
	"errors"
	"net/http"

	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

// writeStoreError maps a store error to 404 or 500. Anything other than
// ErrNotFound is logged.
func writeStoreError(w http.ResponseWriter, logger *zap.Logger, err error, notFound, failed string) {
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, notFound)
		return
	}
	logger.Error(failed, zap.Error(err))
	utils.WriteError(w, http.StatusInternalServerError, failed)
}
