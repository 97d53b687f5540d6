package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sleepquest/diary-api/internal/dto"
	"github.com/sleepquest/diary-api/internal/middleware"
	"github.com/sleepquest/diary-api/internal/service"
	"github.com/sleepquest/diary-api/internal/utils"
)

// GameHandler manages the embedded-game integration endpoints.
type GameHandler struct {
	service   service.GameService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewGameHandler builds a game handler instance.
func NewGameHandler(service service.GameService, validate *validator.Validate, logger zerolog.Logger) *GameHandler {
	return &GameHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "game_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GameHandler) Register(router fiber.Router) {
	router.Get("/state", h.state)
	router.Put("/coins", h.updateCoins)
	router.Post("/inventory", h.addItem)
}

func (h *GameHandler) state(c *fiber.Ctx) error {
	state, err := h.service.State(c.Context(), middleware.Subject(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "game state retrieved", state)
}

func (h *GameHandler) updateCoins(c *fiber.Ctx) error {
	var payload dto.CoinUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	state, err := h.service.UpdateCoins(c.Context(), middleware.Subject(c), *payload.Coins)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "coins updated", state)
}

func (h *GameHandler) addItem(c *fiber.Ctx) error {
	var payload dto.InventoryAddRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	state, err := h.service.AddInventoryItem(c.Context(), middleware.Subject(c), payload.Item)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "inventory updated", state)
}

func (h *GameHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrParticipantNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "participant not found")
	case errors.Is(err, service.ErrInvalidItem):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid inventory item")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
