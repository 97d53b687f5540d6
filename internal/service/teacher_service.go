package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/dto"
	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
	"github.com/sleepquest/diary-api/internal/utils"
)

// Each teacher may have at most this many questions in flight.
const maxQuestionsPerTeacher = 5

// Days of history shown on the class dashboard, today included.
const dashboardDays = 7

// Minimum choices a single-choice question needs to make sense.
const minRadioOptions = 2

// Sentinel errors for teacher operations.
var (
	ErrQuestionLimitReached = errors.New("question limit reached")
	ErrClassNotFound        = errors.New("class not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrTooFewOptions        = errors.New("single-choice questions need at least two options")
)

// TeacherService covers the teacher-facing workflows: proposing questions and
// watching class submission activity.
type TeacherService interface {
	CreateQuestion(ctx context.Context, teacherID string, req dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	ListQuestions(ctx context.Context, teacherID string) ([]dto.QuestionResponse, error)
	Dashboard(ctx context.Context, teacherID string) (dto.ClassDashboardResponse, error)
	Codes(ctx context.Context, teacherID string) (dto.ClassCodesResponse, error)
	Classes(ctx context.Context) ([]dto.ClassSummary, error)
}

type teacherService struct {
	questions    repository.QuestionRepository
	classes      repository.ClassRepository
	staff        repository.StaffRepository
	participants repository.ParticipantRepository
	submissions  repository.SubmissionRepository
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	loc          *time.Location
	logger       zerolog.Logger
	now          func() time.Time
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(questions repository.QuestionRepository, classes repository.ClassRepository, staff repository.StaffRepository, participants repository.ParticipantRepository, submissions repository.SubmissionRepository, validate *validator.Validate, loc *time.Location, logger zerolog.Logger) TeacherService {
	return &teacherService{
		questions:    questions,
		classes:      classes,
		staff:        staff,
		participants: participants,
		submissions:  submissions,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		loc:          loc,
		logger:       logger.With().Str("component", "teacher_service").Logger(),
		now:          time.Now,
	}
}

func (s *teacherService) CreateQuestion(ctx context.Context, teacherID string, req dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.QuestionResponse{}, err
	}

	count, err := s.questions.CountByCreator(ctx, teacherID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}
	if count >= maxQuestionsPerTeacher {
		return dto.QuestionResponse{}, ErrQuestionLimitReached
	}

	if req.Type == models.QuestionTypeRadio && len(req.Options) < minRadioOptions {
		return dto.QuestionResponse{}, ErrTooFewOptions
	}

	if err := s.checkClassIDs(ctx, req.ClassIDs); err != nil {
		return dto.QuestionResponse{}, err
	}

	options := make([]string, 0, len(req.Options))
	for _, option := range req.Options {
		options = append(options, s.sanitizer.Sanitize(option))
	}

	question := models.Question{
		Text:            s.sanitizer.Sanitize(req.Text),
		Emoji:           req.Emoji,
		Type:            req.Type,
		Options:         datatypes.NewJSONSlice(options),
		OptionsEmoji:    datatypes.NewJSONSlice(req.OptionsEmoji),
		Unit:            s.sanitizer.Sanitize(req.Unit),
		Status:          models.QuestionStatusPending,
		ClassIDs:        datatypes.NewJSONSlice(req.ClassIDs),
		TargetDay:       req.TargetDay,
		ConditionalOn:   req.ConditionalOn,
		ConditionValues: datatypes.NewJSONSlice(req.ConditionValues),
		CreatedBy:       teacherID,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Uint("question_id", question.ID).Str("teacher_id", teacherID).Msg("question proposed")

	return dto.NewQuestionResponse(question), nil
}

func (s *teacherService) ListQuestions(ctx context.Context, teacherID string) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.ListByCreator(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *teacherService) Dashboard(ctx context.Context, teacherID string) (dto.ClassDashboardResponse, error) {
	teacher, err := s.staff.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassDashboardResponse{}, ErrTeacherNotFound
		}
		return dto.ClassDashboardResponse{}, err
	}

	if teacher.ClassID == "" {
		return dto.ClassDashboardResponse{}, ErrClassNotFound
	}

	class, err := s.classes.GetByID(ctx, teacher.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassDashboardResponse{}, ErrClassNotFound
		}
		return dto.ClassDashboardResponse{}, err
	}

	participants, err := s.participants.ListByClass(ctx, class.ID)
	if err != nil {
		return dto.ClassDashboardResponse{}, err
	}
	total := len(participants)

	series := make([]dto.DailySubmissionCount, 0, dashboardDays)
	for i := dashboardDays - 1; i >= 0; i-- {
		date := utils.FormatDay(s.now().AddDate(0, 0, -i), s.loc)

		submitted, err := s.submissions.CountByClassAndDate(ctx, class.ID, date)
		if err != nil {
			return dto.ClassDashboardResponse{}, err
		}

		series = append(series, dto.DailySubmissionCount{
			Date:      date,
			Submitted: int(submitted),
			Total:     total,
		})
	}

	return dto.ClassDashboardResponse{
		ClassID:       class.ID,
		ClassName:     class.Name,
		TotalStudents: total,
		Submissions:   series,
	}, nil
}

// Codes lists the teacher's class codes again, split into used and unused by
// whether the holder has ever submitted an entry.
func (s *teacherService) Codes(ctx context.Context, teacherID string) (dto.ClassCodesResponse, error) {
	teacher, err := s.staff.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassCodesResponse{}, ErrTeacherNotFound
		}
		return dto.ClassCodesResponse{}, err
	}

	if teacher.ClassID == "" {
		return dto.ClassCodesResponse{}, ErrClassNotFound
	}

	participants, err := s.participants.ListByClass(ctx, teacher.ClassID)
	if err != nil {
		return dto.ClassCodesResponse{}, err
	}

	codes := make([]dto.StudentCodeStatus, 0, len(participants))
	for _, p := range participants {
		codes = append(codes, dto.StudentCodeStatus{
			Code: p.Code,
			Used: p.LastSubmissionDate != nil,
		})
	}

	return dto.ClassCodesResponse{ClassID: teacher.ClassID, Codes: codes}, nil
}

func (s *teacherService) Classes(ctx context.Context) ([]dto.ClassSummary, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ClassSummary, 0, len(classes))
	for _, class := range classes {
		summaries = append(summaries, dto.ClassSummary{ID: class.ID, Name: class.Name})
	}

	return summaries, nil
}

func (s *teacherService) checkClassIDs(ctx context.Context, classIDs []string) error {
	for _, id := range classIDs {
		if id == models.AllClassesMarker {
			continue
		}

		if _, err := s.classes.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrClassNotFound, id)
			}
			return err
		}
	}

	return nil
}
