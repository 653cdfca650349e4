package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "fir-voice/internal/api/errors"
	"fir-voice/internal/api/middleware"
	"fir-voice/internal/api/v1/dto"
	"fir-voice/internal/api/v1/services"
	apperrors "fir-voice/internal/app/errors"
	"fir-voice/internal/app/pipeline"
)

// multipartOverhead is the allowance on top of the upload limit for
// boundaries and part headers.
const multipartOverhead = 1 << 20

// TranscriptionHandler handles POST /transcribe
type TranscriptionHandler struct {
	service        services.TranscriptionService
	maxUploadBytes int64
}

// NewTranscriptionHandler creates a new transcription handler. maxUploadBytes
// <= 0 leaves the request body unbounded; the stager still enforces its own limit.
func NewTranscriptionHandler(service services.TranscriptionService, maxUploadBytes int64) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Transcribe handles POST /transcribe
//
// @Summary Transcribe an audio file
// @Description Uploads one audio file, normalizes it to 16 kHz mono PCM and returns the recognized text. Every temporary file is removed before the response is sent.
// @Tags transcription
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file in any container ffmpeg can read"
// @Param verbose query bool false "Include duration, segments and timing"
// @Success 200 {object} dto.TranscribeResponse "Transcription"
// @Failure 400 {object} errors.APIError "Missing or empty upload"
// @Failure 500 {object} errors.APIError "Decoding, preprocessing or inference failed"
// @Router /transcribe [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	var query dto.TranscribeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleError(c, apierrors.NewBadRequestError("Invalid query parameters"))
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}
	// multipart spill files live outside the staging area; drop them with the request
	defer func() {
		if form := c.Request.MultipartForm; form != nil {
			_ = form.RemoveAll()
		}
	}()

	file, header, err := c.Request.FormFile(dto.AudioField)
	if err != nil {
		middleware.HandleError(c, h.uploadError(c, err))
		return
	}
	defer file.Close()

	response, err := h.service.Transcribe(c.Request.Context(), pipeline.Upload{
		Body:      file,
		Filename:  header.Filename,
		RequestID: middleware.GetRequestID(c),
	}, query.Verbose)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// uploadError maps a failure to read the multipart field onto a validation error.
func (h *TranscriptionHandler) uploadError(c *gin.Context, err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apperrors.Validation("audio file exceeds the %d byte limit", h.maxUploadBytes)
	case errors.Is(err, http.ErrMissingFile):
		// a file input submitted with nothing chosen arrives as a plain value
		if form := c.Request.MultipartForm; form != nil {
			if _, ok := form.Value[dto.AudioField]; ok {
				return apperrors.Validation("No audio file selected")
			}
		}
		return apperrors.Validation("No audio file provided")
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return apperrors.Validation("No audio file provided")
	default:
		return apperrors.Validation("malformed multipart body: %v", err)
	}
}
