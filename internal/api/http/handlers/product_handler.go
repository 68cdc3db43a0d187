package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stock-service/internal/api/dto"
	"github.com/spec-kit/stock-service/internal/domain"
	"github.com/spec-kit/stock-service/internal/service"
	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

// ProductHandler exposes record-store access for products.
type ProductHandler struct {
	catalog *service.CatalogService
}

// NewProductHandler constructs handler.
func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /api/product.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}
	return c.JSON(out)
}

// Get handles GET /api/product/:id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.GetProduct(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(toProductResponse(*product))
}

// Create handles POST /api/product.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product := domain.Product{
		ProductName: req.ProductName,
		UnitPrice:   req.UnitPrice,
		UnitInStock: req.UnitInStock,
		CategoryID:  req.CategoryID,
	}
	if err := h.catalog.CreateProduct(c.Context(), &product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// Update handles PUT /api/product/:id.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product := domain.Product{
		ID:          id,
		ProductName: req.ProductName,
		UnitPrice:   req.UnitPrice,
		UnitInStock: req.UnitInStock,
		CategoryID:  req.CategoryID,
	}
	if err := h.catalog.UpdateProduct(c.Context(), &product); err != nil {
		return err
	}
	return c.JSON(toProductResponse(product))
}

// Delete handles DELETE /api/product/:id.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteProduct(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseProductRequest(c *fiber.Ctx) (dto.ProductRequest, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ProductName == "" || req.CategoryID <= 0 {
		return req, apperrors.NewValidationError("productName and categoryId required", nil)
	}
	return req, nil
}

func toProductResponse(product domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           product.ID,
		ProductName:  product.ProductName,
		UnitPrice:    product.UnitPrice,
		UnitInStock:  product.UnitInStock,
		CategoryID:   product.CategoryID,
		CategoryName: product.CategoryName,
		CreatedDate:  product.CreatedDate,
		ModifiedDate: product.ModifiedDate,
	}
}
