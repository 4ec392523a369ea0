package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 10 << 20

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.deny(w, r, errNoPrincipal)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, ErrFileTooLarge)
			return
		}
		log.Err(err).Msg("error parsing multipart form")
		writeError(w, ErrMissingFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, ErrMissingFile)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Msg("error reading uploaded file")
		writeError(w, ErrMissingFile)
		return
	}

	image, err := h.services.ImageService.Upload(ctx, userID, header.Filename, content)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("image upload failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, image, http.StatusCreated)
}

func (h *Handler) listImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.deny(w, r, errNoPrincipal)
		return
	}

	images, err := h.services.ImageService.List(ctx, userID)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("error listing images")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.ImagesResponse{Images: images, Length: len(images)}, http.StatusOK)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		h.deny(w, r, errNoPrincipal)
		return
	}

	if err := h.services.ImageService.Delete(ctx, userID, chi.URLParam(r, "id")); err != nil {
		log.Err(err).Str("user_id", userID).Msg("error deleting image")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// rawImage streams a stored blob. It is the target of the storage URL
// rewriting.
func (h *Handler) rawImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		h.deny(w, r, errNoPrincipal)
		return
	}

	body, contentType, err := h.services.ImageService.Raw(ctx, chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if _, err = io.Copy(w, body); err != nil {
		log.Err(err).Msg("error streaming image")
	}
}
