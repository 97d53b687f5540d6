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

// TeacherHandler manages the teacher-facing endpoints.
type TeacherHandler struct {
	service service.TeacherService
	logger  zerolog.Logger
}

// NewTeacherHandler builds a teacher handler instance.
func NewTeacherHandler(service service.TeacherService, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		service: service,
		logger:  logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("/questions", h.listQuestions)
	router.Post("/questions", h.createQuestion)
	router.Get("/dashboard", h.dashboard)
	router.Get("/codes", h.codes)
	router.Get("/classes", h.classes)
}

func (h *TeacherHandler) createQuestion(c *fiber.Ctx) error {
	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.CreateQuestion(c.Context(), middleware.Subject(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "question submitted for review", question)
}

func (h *TeacherHandler) listQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestions(c.Context(), middleware.Subject(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *TeacherHandler) dashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.Dashboard(c.Context(), middleware.Subject(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *TeacherHandler) codes(c *fiber.Ctx) error {
	codes, err := h.service.Codes(c.Context(), middleware.Subject(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "codes retrieved", codes)
}

func (h *TeacherHandler) classes(c *fiber.Ctx) error {
	classes, err := h.service.Classes(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *TeacherHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuestionLimitReached):
		return utils.SendError(c, fiber.StatusConflict, "question limit reached")
	case errors.Is(err, service.ErrTooFewOptions):
		return utils.SendError(c, fiber.StatusBadRequest, "single-choice questions need at least two options")
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrTeacherNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
