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

// AdminHandler manages the admin-facing endpoints.
type AdminHandler struct {
	service service.AdminService
	export  service.ExportService
	logger  zerolog.Logger
}

// NewAdminHandler builds an admin handler instance.
func NewAdminHandler(service service.AdminService, export service.ExportService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		export:  export,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/questions/pending", h.pendingQuestions)
	router.Post("/questions/:id/review", h.reviewQuestion)
	router.Get("/teachers", h.listTeachers)
	router.Post("/teachers", h.createTeacher)
	router.Delete("/teachers/:id", h.deleteTeacher)
	router.Post("/classes", h.createClass)
	router.Delete("/classes/:id", h.deleteClass)
	router.Get("/export", h.exportCSV)
}

func (h *AdminHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "overview retrieved", overview)
}

func (h *AdminHandler) pendingQuestions(c *fiber.Ctx) error {
	pending, err := h.service.PendingQuestions(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "pending questions retrieved", pending)
}

func (h *AdminHandler) reviewQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuestionReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Approved == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "approved is required")
	}

	question, err := h.service.ReviewQuestion(c.Context(), middleware.Subject(c), id, *payload.Approved)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question reviewed", question)
}

func (h *AdminHandler) createTeacher(c *fiber.Ctx) error {
	var payload dto.TeacherCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.service.CreateTeacher(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "teacher created", teacher)
}

func (h *AdminHandler) listTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.ListTeachers(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *AdminHandler) deleteTeacher(c *fiber.Ctx) error {
	if err := h.service.DeleteTeacher(c.Context(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "teacher deleted", nil)
}

func (h *AdminHandler) createClass(c *fiber.Ctx) error {
	var payload dto.ClassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	class, err := h.service.CreateClass(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class created", class)
}

func (h *AdminHandler) deleteClass(c *fiber.Ctx) error {
	if err := h.service.DeleteClass(c.Context(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "class deleted", nil)
}

func (h *AdminHandler) exportCSV(c *fiber.Ctx) error {
	data, err := h.export.ExportCSV(c.Context(), c.Query("class_id"))
	if err != nil {
		return h.handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="sleepquest_export.csv"`)
	return c.Send(data)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrQuestionAlreadyReviewed):
		return utils.SendError(c, fiber.StatusConflict, "question already reviewed")
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, service.ErrInvalidClassName):
		return utils.SendError(c, fiber.StatusBadRequest, "class name must match class_<number>")
	case errors.Is(err, service.ErrTeacherNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "teacher not found")
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
