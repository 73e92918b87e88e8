package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/kdduha/caption-generator/backend/internal/models"
)

const (
	imageField       = "image"
	holidayField     = "holiday"
	defaultMaxMemory = 32 << 20
)

type captionService interface {
	Generate(ctx context.Context, req *models.CaptionRequest) (*models.CaptionResponse, error)
	Holidays() []string
}

type CaptionHandler struct {
	service        captionService
	maxUploadBytes int64
}

func NewCaptionHandler(service captionService, maxUploadBytes int64) *CaptionHandler {
	return &CaptionHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Generate godoc
// @Summary Generate caption
// @Description Generate a short social media caption from an optional image and an optional holiday theme. At least one of them is required.
// @Tags caption
// @Accept multipart/form-data
// @Produce json
// @Param image formData file false "Image to describe"
// @Param holiday formData string false "Holiday or theme" example(Christmas)
// @Success 200 {object} models.CaptionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/generate [post]
func (h *CaptionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, status, err := h.parseRequest(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	resp, err := h.service.Generate(r.Context(), req)
	if err != nil {
		status, message := classify(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Holidays godoc
// @Summary List holiday themes
// @Description Preset holiday themes accepted by the generate endpoint.
// @Tags caption
// @Produce json
// @Success 200 {object} models.HolidaysResponse
// @Router /api/holidays [get]
func (h *CaptionHandler) Holidays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HolidaysResponse{Holidays: h.service.Holidays()})
}

func (h *CaptionHandler) parseRequest(w http.ResponseWriter, r *http.Request) (*models.CaptionRequest, int, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	var req models.CaptionRequest
	if isMultipart(r) {
		maxMemory := h.maxUploadBytes
		if maxMemory <= 0 {
			maxMemory = defaultMaxMemory
		}
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, uploadStatus(err), errors.New("invalid multipart form")
		}
		file, _, err := r.FormFile(imageField)
		switch {
		case err == nil:
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return nil, http.StatusBadRequest, errors.New("failed to read image")
			}
			req.Image = data
		case !errors.Is(err, http.ErrMissingFile):
			return nil, http.StatusBadRequest, errors.New("invalid image field")
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, uploadStatus(err), errors.New("invalid form")
	}

	req.Holiday = strings.TrimSpace(r.FormValue(holidayField))
	return &req, http.StatusOK, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func uploadStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// classify maps service errors to a status and a user facing message.
// Backend details stay in the service log.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest, "Either image or holiday must be provided"
	default:
		return http.StatusInternalServerError, "Failed to generate caption"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
