package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/grvbrk/vidplay/internal/events"
	"github.com/grvbrk/vidplay/internal/models"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/upload"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

type UploadHandler struct {
	VideoStore store.VideoStore
	Tracker    *upload.Tracker
	Events     events.Publisher
	Logger     *zap.Logger
}

func NewUploadHandler(videoStore store.VideoStore, tracker *upload.Tracker, publisher events.Publisher, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		VideoStore: videoStore,
		Tracker:    tracker,
		Events:     publisher,
		Logger:     logger,
	}
}

// HandlerUploadVideo accepts a multipart upload, discards the bytes and
// starts a simulated transfer that creates the video when it finishes.
func (uh *UploadHandler) HandlerUploadVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		uh.Logger.Warn("Error parsing upload form", zap.Error(err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid upload form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Video file is required")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "video/") {
		utils.WriteError(w, http.StatusBadRequest, "File must be a video")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		utils.WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		uh.Logger.Error("Error reading uploaded file", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to upload video")
		return
	}

	video := models.Video{
		Title:       title,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	finish := func(ctx context.Context) (string, error) {
		if err := uh.VideoStore.CreateVideo(ctx, &video); err != nil {
			return "", err
		}
		uh.Events.Publish(ctx, events.VideoCreated, video.ID, video)
		return video.ID, nil
	}

	u, err := uh.Tracker.Start(header.Filename, size, finish)
	if err != nil {
		uh.Logger.Error("Error starting upload", zap.String("file_name", header.Filename), zap.Error(err))
		utils.WriteError(w, http.StatusServiceUnavailable, "Uploads are unavailable")
		return
	}
	uh.Logger.Info("upload started",
		zap.String("upload_id", u.ID),
		zap.String("file_name", header.Filename),
		zap.Int64("size", size),
	)

	utils.WriteJSON(w, http.StatusAccepted, u)
}

func (uh *UploadHandler) HandlerGetUpload(w http.ResponseWriter, r *http.Request) {
	u, err := uh.Tracker.Get(chi.URLParam(r, "id"))
	if errors.Is(err, upload.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Upload not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, u)
}
