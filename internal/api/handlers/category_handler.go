package handlers

import (
	"fin-ledger/internal/dto"
	"fin-ledger/internal/models"
	"fin-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	ledger *service.LedgerService
	logger *zap.Logger
}

func NewCategoryHandler(ledger *service.LedgerService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		ledger: ledger,
		logger: logger,
	}
}

// ListCategories godoc
// @Summary List categories
// @Description Global categories followed by the current user's own
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	categories, err := h.ledger.ListCategories(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "List categories")
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, toCategoryResponse(category))
	}
	return c.JSON(resp)
}

// CreateCategory godoc
// @Summary Create a personal category
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CategoryRequest true "Category"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.ledger.CreateCategory(c.Context(), userID, req.Name)
	if err != nil {
		return respondError(c, h.logger, err, "Create category")
	}

	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(category))
}

// DeleteCategory godoc
// @Summary Delete a personal category
// @Description Global categories and other users' categories cannot be deleted
// @Tags categories
// @Security Bearer
// @Param id path string true "Category ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	if err := h.ledger.DeleteCategory(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Delete category")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func toCategoryResponse(category *models.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:     category.ID.String(),
		Name:   category.Name,
		Global: category.IsGlobal(),
	}
}
