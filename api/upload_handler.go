package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/typegarden-backend/errs"
	"github.com/rpupo63/typegarden-backend/services"
)

// maxUploadBytes caps uploaded font and image files.
const maxUploadBytes = 20 << 20

var allowedUploadKinds = map[string]string{
	"font":  "fonts",
	"image": "images",
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  *services.Uploader
}

func newUploadHandler(uploader *services.Uploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// UploadResponse carries the public URL of a stored blob
type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// upload stores a font binary or project image and returns its public URL
// @Summary Upload a file
// @Description Accepts a multipart file, verifies bucket accessibility, stores the blob, and returns a publicly resolvable URL
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param kind path string true "Upload kind: font or image"
// @Param file formData file true "File contents"
// @Success 200 {object} UploadResponse "Stored file URL"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing file or unknown kind"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Upload storage not configured or unreachable"
// @Router /upload/{kind} [post]
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.uploader == nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "upload storage not configured"))
			return
		}

		prefix, ok := allowedUploadKinds[chi.URLParam(r, "kind")]
		if !ok {
			h.responder.WriteError(w, errs.NewBadRequestError("unknown upload kind"))
			return
		}

		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewSignInRequiredError())
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		// Probe the bucket before attempting the upload
		if err := h.uploader.CheckBucket(r.Context()); err != nil {
			h.logger.Error().Err(err).Msg("bucket accessibility check failed")
			h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "upload storage unreachable"))
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		key := fmt.Sprintf("%s/%s/%d-%s%s", prefix, userID, time.Now().Unix(), uuid.NewString()[:8], ext)

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		url, err := h.uploader.Upload(r.Context(), key, contentType, file)
		if err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusBadGateway, "upload failed"))
			return
		}

		h.responder.WriteJSON(w, UploadResponse{URL: url, Key: key})
	}
}
