package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/sleepquest/diary-api/internal/dto"
	"github.com/sleepquest/diary-api/internal/middleware"
	"github.com/sleepquest/diary-api/internal/observability"
	"github.com/sleepquest/diary-api/internal/service"
	"github.com/sleepquest/diary-api/internal/utils"
)

// DiaryHandler manages the participant-facing diary endpoints.
type DiaryHandler struct {
	service   service.DiaryService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDiaryHandler builds a diary handler instance.
func NewDiaryHandler(service service.DiaryService, validate *validator.Validate, logger zerolog.Logger) *DiaryHandler {
	return &DiaryHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "diary_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *DiaryHandler) Register(router fiber.Router) {
	router.Get("/status", h.status)
	router.Get("/questions", h.questions)
	router.Get("/submissions", h.history)
	router.Post("/submissions", h.submit)
}

func (h *DiaryHandler) status(c *fiber.Ctx) error {
	status, err := h.service.Status(c.Context(), middleware.Subject(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "diary status retrieved", status)
}

func (h *DiaryHandler) questions(c *fiber.Ctx) error {
	questions, err := h.service.Questions(c.Context(), middleware.Subject(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", dto.NewQuestionResponseSlice(questions))
}

func (h *DiaryHandler) history(c *fiber.Ctx) error {
	submissions, err := h.service.History(c.Context(), middleware.Subject(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", dto.NewSubmissionResponseSlice(submissions))
}

func (h *DiaryHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	result, err := h.service.Submit(c.Context(), middleware.Subject(c), payload.Answers)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.SubmissionsAccepted().Inc()

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "diary entry saved", result)
}

func (h *DiaryHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrParticipantNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "participant not found")
	case errors.Is(err, service.ErrAlreadySubmittedToday):
		observability.SubmissionsRejected().WithLabelValues("already_submitted").Inc()
		return utils.SendError(c, fiber.StatusConflict, "diary already submitted today")
	case errors.Is(err, service.ErrDuplicateSubmissionDay):
		observability.SubmissionsRejected().WithLabelValues("duplicate_day").Inc()
		return utils.SendError(c, fiber.StatusConflict, "diary already submitted today")
	case errors.Is(err, service.ErrMissingAnswers):
		observability.SubmissionsRejected().WithLabelValues("missing_answers").Inc()
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		return utils.SendError(c, fiber.StatusNotFound, "no questions available")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
