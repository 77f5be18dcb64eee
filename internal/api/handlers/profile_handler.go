package handlers

import (
	"fin-ledger/internal/dto"
	"fin-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewProfileHandler(userService *service.UserService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile godoc
// @Summary Get profile
// @Description Get the current user's profile, including average monthly income
// @Tags profile
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "Get profile")
	}

	return c.JSON(service.ToUserResponse(user))
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Set or clear the average monthly income used as suggestion context
// @Tags profile
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.UpdateProfileRequest true "Profile update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateAverageIncome(c.Context(), userID, decimalPtr(req.AverageIncome))
	if err != nil {
		return respondError(c, h.logger, err, "Update profile")
	}

	return c.JSON(service.ToUserResponse(user))
}
