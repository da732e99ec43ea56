package handlers

import (
	"errors"
	"net/http"

	"Gallerist/internal/config"
	"Gallerist/internal/model"
	"Gallerist/internal/response"
	"Gallerist/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GalleryHandler struct {
	GalleryService *service.GalleryService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

func NewGalleryHandler(galleryService *service.GalleryService, logger *zap.SugaredLogger, cfg *config.Config) *GalleryHandler {
	return &GalleryHandler{GalleryService: galleryService, Logger: logger, Config: cfg}
}

// galleryRequest — JSON форма создания/обновления. Отсутствующие поля остаются nil.
type galleryRequest struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	ImageHandle *string `json:"imageHandle"`
	Description *string `json:"description"`
	Medium      *string `json:"medium"`
	Size        *string `json:"size"`
}

// GalleryItemDTO — элемент галереи с подставленной категорией {id, name}.
type GalleryItemDTO struct {
	model.GalleryItem
	Category model.CategoryRef `json:"category"`
}

func toDTO(it *model.GalleryItem) GalleryItemDTO {
	return GalleryItemDTO{GalleryItem: *it, Category: it.CategoryRef()}
}

func (h *GalleryHandler) fail(w http.ResponseWriter, err error, fallback string) {
	writeError(w, h.Logger, !h.Config.IsProduction(), err, fallback)
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.GalleryService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, err, "Error fetching gallery items")
		return
	}
	out := make([]GalleryItemDTO, 0, len(items))
	for i := range items {
		out = append(out, toDTO(&items[i]))
	}
	response.List(w, out, len(out))
}

func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.GalleryService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Error fetching gallery item")
		return
	}
	response.OK(w, http.StatusOK, "", toDTO(it))
}

func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	it, err := h.GalleryService.Create(r.Context(), in)
	if err != nil {
		h.fail(w, err, "Error creating gallery item")
		return
	}
	response.OK(w, http.StatusCreated, "", toDTO(it))
}

func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	it, err := h.GalleryService.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, err, "Error updating gallery item")
		return
	}
	response.OK(w, http.StatusOK, "", toDTO(it))
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.GalleryService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err, "Error deleting gallery item")
		return
	}
	response.OK(w, http.StatusOK, "Gallery item deleted successfully", nil)
}

// readInput принимает JSON с готовым URL изображения или multipart с файлом в поле image.
func (h *GalleryHandler) readInput(w http.ResponseWriter, r *http.Request) (service.ItemInput, bool) {
	if !isMultipart(r) {
		var req galleryRequest
		if err := decodeJSON(r, &req); err != nil {
			h.Logger.Warnw("gallery: invalid request body", "error", err)
			response.Fail(w, http.StatusBadRequest, "Invalid request body")
			return service.ItemInput{}, false
		}
		return service.ItemInput{
			Title:       req.Title,
			CategoryID:  req.Category,
			Image:       req.Image,
			ImageHandle: req.ImageHandle,
			Description: req.Description,
			Medium:      req.Medium,
			Size:        req.Size,
		}, true
	}

	if err := parseMultipart(w, r, h.Config.MediaMaxBytes()); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			response.Fail(w, http.StatusRequestEntityTooLarge, "Request body too large")
		} else {
			h.Logger.Warnw("gallery: invalid multipart form", "error", err)
			response.Fail(w, http.StatusBadRequest, "Invalid multipart form")
		}
		return service.ItemInput{}, false
	}
	form := r.MultipartForm
	in := service.ItemInput{
		Title:       formValue(form, "title"),
		CategoryID:  formValue(form, "category"),
		Image:       formValue(form, "image"),
		ImageHandle: formValue(form, "imageHandle"),
		Description: formValue(form, "description"),
		Medium:      formValue(form, "medium"),
		Size:        formValue(form, "size"),
	}
	if fhs := form.File["image"]; len(fhs) > 0 {
		f, err := readFile(fhs[0])
		if err != nil {
			h.fail(w, err, "Error reading image")
			return service.ItemInput{}, false
		}
		in.File = &f
	}
	return in, true
}
