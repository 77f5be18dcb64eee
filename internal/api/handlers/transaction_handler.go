package handlers

import (
	"time"

	"fin-ledger/internal/dto"
	"fin-ledger/internal/models"
	"fin-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	ledger *service.LedgerService
	logger *zap.Logger
}

func NewTransactionHandler(ledger *service.LedgerService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		logger: logger,
	}
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Description Record an income or expense. Amount is a non-negative magnitude.
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	in, err := transactionInput(c)
	if err != nil {
		return respondError(c, h.logger, err, "Create transaction")
	}

	tx, err := h.ledger.CreateTransaction(c.Context(), userID, in)
	if err != nil {
		return respondError(c, h.logger, err, "Create transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// ListTransactions godoc
// @Summary List transactions
// @Description List the current user's transactions, newest first
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.TransactionResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	transactions, err := h.ledger.ListTransactions(c.Context(), userID)
	if err != nil {
		return respondError(c, h.logger, err, "List transactions")
	}

	resp := make([]dto.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		resp = append(resp, toTransactionResponse(tx))
	}
	return c.JSON(resp)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	tx, err := h.ledger.GetTransaction(c.Context(), userID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Get transaction")
	}

	return c.JSON(toTransactionResponse(tx))
}

// UpdateTransaction godoc
// @Summary Replace a transaction
// @Description Replace every field of a transaction. Owner and creation time never change.
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	in, err := transactionInput(c)
	if err != nil {
		return respondError(c, h.logger, err, "Update transaction")
	}

	tx, err := h.ledger.UpdateTransaction(c.Context(), userID, id, in)
	if err != nil {
		return respondError(c, h.logger, err, "Update transaction")
	}

	return c.JSON(toTransactionResponse(tx))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}

	if err := h.ledger.DeleteTransaction(c.Context(), userID, id); err != nil {
		return respondError(c, h.logger, err, "Delete transaction")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// transactionInput parses the body. Missing fields are left zero so the ledger reports them.
func transactionInput(c *fiber.Ctx) (service.TransactionInput, error) {
	var req dto.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TransactionInput{}, requestValidation("invalid request body")
	}

	in := service.TransactionInput{
		Amount:      decimalPtr(req.Amount),
		Kind:        models.TransactionKind(req.Kind),
		Description: req.Description,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return service.TransactionInput{}, requestValidation("date must be YYYY-MM-DD or RFC 3339")
		}
		in.Date = date
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return service.TransactionInput{}, requestValidation("invalid category id")
		}
		in.CategoryID = categoryID
	}
	return in, nil
}

func toTransactionResponse(tx *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID.String(),
		Amount:      tx.Amount.InexactFloat64(),
		Kind:        string(tx.Kind),
		Date:        tx.Date.UTC().Format(time.RFC3339),
		Description: tx.Description,
		CategoryID:  tx.CategoryID.String(),
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   tx.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
