package handlers

import (
	"net/http"

	"Gallerist/internal/config"
	"Gallerist/internal/response"
	"Gallerist/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	CategoryService *service.CategoryService
	Logger          *zap.SugaredLogger
	Config          *config.Config
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.SugaredLogger, cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{CategoryService: categoryService, Logger: logger, Config: cfg}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) fail(w http.ResponseWriter, err error, fallback string) {
	writeError(w, h.Logger, !h.Config.IsProduction(), err, fallback)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.CategoryService.List(r.Context())
	if err != nil {
		h.fail(w, err, "Error fetching categories")
		return
	}
	response.List(w, cats, len(cats))
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.CategoryService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Error fetching category")
		return
	}
	response.OK(w, http.StatusOK, "", c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := h.CategoryService.Create(r.Context(), req.Name)
	if err != nil {
		h.fail(w, err, "Error creating category")
		return
	}
	response.OK(w, http.StatusCreated, "", c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := h.CategoryService.Update(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.fail(w, err, "Error updating category")
		return
	}
	response.OK(w, http.StatusOK, "", c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CategoryService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err, "Error deleting category")
		return
	}
	response.OK(w, http.StatusOK, "Category deleted successfully", nil)
}
