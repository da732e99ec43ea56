package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"Gallerist/internal/config"
	"Gallerist/internal/media"
	"Gallerist/internal/response"
	"Gallerist/internal/service"

	"go.uber.org/zap"
)

type UploadHandler struct {
	UploadService *service.UploadService
	Logger        *zap.SugaredLogger
	Config        *config.Config
}

func NewUploadHandler(uploadService *service.UploadService, logger *zap.SugaredLogger, cfg *config.Config) *UploadHandler {
	return &UploadHandler{UploadService: uploadService, Logger: logger, Config: cfg}
}

// UploadedImage — ответ загрузки: filename содержит handle объекта в media store.
type UploadedImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type deleteImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

func toUploaded(img media.StoredImage) UploadedImage {
	return UploadedImage{URL: img.URL, Filename: img.Handle, Size: img.Size}
}

func (h *UploadHandler) fail(w http.ResponseWriter, err error, fallback string) {
	writeError(w, h.Logger, !h.Config.IsProduction(), err, fallback)
}

func (h *UploadHandler) parse(w http.ResponseWriter, r *http.Request, limit int64) bool {
	if err := parseMultipart(w, r, limit); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			response.Fail(w, http.StatusRequestEntityTooLarge, "Request body too large")
		} else {
			response.Fail(w, http.StatusBadRequest, "Invalid multipart form")
		}
		return false
	}
	return true
}

// Single загружает один файл из поля image
func (h *UploadHandler) Single(w http.ResponseWriter, r *http.Request) {
	if !h.parse(w, r, h.Config.MediaMaxBytes()) {
		return
	}
	fhs := r.MultipartForm.File["image"]
	if len(fhs) == 0 {
		response.Fail(w, http.StatusBadRequest, "No image file provided")
		return
	}
	f, err := readFile(fhs[0])
	if err != nil {
		h.fail(w, err, "Error uploading image")
		return
	}
	img, err := h.UploadService.Single(r.Context(), &f)
	if err != nil {
		h.fail(w, err, "Error uploading image")
		return
	}
	response.OK(w, http.StatusOK, "Image uploaded successfully", toUploaded(img))
}

// Multiple загружает до service.MaxUploadFiles файлов из поля images
func (h *UploadHandler) Multiple(w http.ResponseWriter, r *http.Request) {
	if !h.parse(w, r, h.Config.MediaMaxBytes()*service.MaxUploadFiles) {
		return
	}
	fhs := slices.Concat(r.MultipartForm.File["images"], r.MultipartForm.File["images[]"])
	files := make([]media.File, 0, len(fhs))
	for _, fh := range fhs {
		f, err := readFile(fh)
		if err != nil {
			h.fail(w, err, "Error uploading images")
			return
		}
		files = append(files, f)
	}
	imgs, err := h.UploadService.Multiple(r.Context(), files)
	if err != nil {
		h.fail(w, err, "Error uploading images")
		return
	}
	out := make([]UploadedImage, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, toUploaded(img))
	}
	response.OK(w, http.StatusOK, fmt.Sprintf("%d images uploaded successfully", len(out)), out)
}

// Delete удаляет изображение по URL; ошибка media store возвращается клиенту
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteImageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.UploadService.DeleteByURL(r.Context(), req.ImageURL); err != nil {
		h.fail(w, err, "Error deleting image")
		return
	}
	response.OK(w, http.StatusOK, "Image deleted successfully", map[string]string{"imageUrl": req.ImageURL})
}
