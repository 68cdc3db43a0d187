package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stock-service/internal/api/dto"
	"github.com/spec-kit/stock-service/internal/domain"
	"github.com/spec-kit/stock-service/internal/service"
	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

// CategoryHandler exposes record-store access for categories.
type CategoryHandler struct {
	catalog *service.CatalogService
}

// NewCategoryHandler constructs handler.
func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// List handles GET /api/category.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, toCategoryResponse(category))
	}
	return c.JSON(out)
}

// Get handles GET /api/category/:id.
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.catalog.GetCategory(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(toCategoryResponse(*category))
}

// Create handles POST /api/category.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CategoryName == "" {
		return apperrors.NewValidationError("categoryName required", nil)
	}

	category := domain.Category{CategoryName: req.CategoryName, Status: req.Status}
	if err := h.catalog.CreateCategory(c.Context(), &category); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(category))
}

// Update handles PUT /api/category/:id.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category := domain.Category{ID: id, CategoryName: req.CategoryName, Status: req.Status}
	if err := h.catalog.UpdateCategory(c.Context(), &category); err != nil {
		return err
	}
	return c.JSON(toCategoryResponse(category))
}

// Delete handles DELETE /api/category/:id.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toCategoryResponse(category domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:           category.ID,
		CategoryName: category.CategoryName,
		Status:       category.Status,
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}
