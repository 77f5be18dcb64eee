package handlers

import (
	"time"

	"fin-ledger/internal/dto"
	"fin-ledger/internal/models"
	"fin-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SuggestionHandler struct {
	insights *service.InsightService
	logger   *zap.Logger
}

func NewSuggestionHandler(insights *service.InsightService, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		insights: insights,
		logger:   logger,
	}
}

// GenerateSuggestion godoc
// @Summary Generate a suggestion
// @Description Ask the provider about the current user's finances. Without a prompt the default monthly analysis runs.
// @Description Nothing is stored when the provider fails.
// @Tags suggestions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.SuggestionRequest false "Optional question"
// @Success 201 {object} dto.GenerateSuggestionResponse
// @Failure 502 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /suggestions [post]
func (h *SuggestionHandler) GenerateSuggestion(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req dto.SuggestionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	result, err := h.insights.Generate(c.Context(), userID, req.Prompt)
	if err != nil {
		return respondError(c, h.logger, err, "Generate suggestion")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.GenerateSuggestionResponse{
		Suggestion:      toSuggestionResponse(result.Suggestion),
		ContextDegraded: result.ContextDegraded,
		MissingContext:  result.Missing,
	})
}

// ListSuggestions godoc
// @Summary Suggestion history
// @Description Stored suggestions of the current user, newest first
// @Tags suggestions
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.SuggestionResponse
// @Router /suggestions [get]
func (h *SuggestionHandler) ListSuggestions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	suggestions, err := h.insights.History(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "List suggestions")
	}

	resp := make([]dto.SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, toSuggestionResponse(s))
	}
	return c.JSON(resp)
}

func toSuggestionResponse(s *models.Suggestion) dto.SuggestionResponse {
	return dto.SuggestionResponse{
		ID:        s.ID.String(),
		Prompt:    s.Prompt,
		Response:  s.Response,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
