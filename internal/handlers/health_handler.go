package handlers

import (
	"net/http"

	"github.com/grvbrk/vidplay/internal/utils"
)

func HandlerHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"status": "ok", "service": "vidplay"})
}
