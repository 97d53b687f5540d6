package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/dto"
	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
)

// Sentinel errors for admin operations.
var (
	ErrQuestionNotFound        = errors.New("question not found")
	ErrQuestionAlreadyReviewed = errors.New("question already reviewed")
	ErrEmailTaken              = errors.New("email already registered")
	ErrInvalidClassName        = errors.New("class name must match class_<number>")
)

var classNamePattern = regexp.MustCompile(`^class_\d+$`)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AdminService covers the administrative workflows: reviewing questions,
// provisioning teachers and classes, and the cross-class overview.
type AdminService interface {
	Overview(ctx context.Context) ([]dto.ClassOverview, error)
	PendingQuestions(ctx context.Context) ([]dto.QuestionResponse, error)
	ReviewQuestion(ctx context.Context, adminID string, questionID uint, approved bool) (dto.QuestionResponse, error)
	CreateTeacher(ctx context.Context, req dto.TeacherCreateRequest) (dto.TeacherResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	DeleteTeacher(ctx context.Context, teacherID string) error
	CreateClass(ctx context.Context, req dto.ClassCreateRequest) (dto.ClassCreateResponse, error)
	DeleteClass(ctx context.Context, classID string) error
}

type adminService struct {
	db           *gorm.DB
	questions    repository.QuestionRepository
	classes      repository.ClassRepository
	staff        repository.StaffRepository
	participants repository.ParticipantRepository
	validator    *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(db *gorm.DB, questions repository.QuestionRepository, classes repository.ClassRepository, staff repository.StaffRepository, participants repository.ParticipantRepository, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		db:           db,
		questions:    questions,
		classes:      classes,
		staff:        staff,
		participants: participants,
		validator:    validate,
		logger:       logger.With().Str("component", "admin_service").Logger(),
		now:          time.Now,
	}
}

func (s *adminService) Overview(ctx context.Context) ([]dto.ClassOverview, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.questions.ListByStatus(ctx, models.QuestionStatusPending)
	if err != nil {
		return nil, err
	}

	overview := make([]dto.ClassOverview, 0, len(classes))
	for _, class := range classes {
		participants, err := s.participants.ListByClass(ctx, class.ID)
		if err != nil {
			return nil, err
		}

		active := 0
		for _, p := range participants {
			if p.LastSubmissionDate != nil {
				active++
			}
		}

		// Questions targeting "all" appear under every class.
		classPending := make([]dto.QuestionResponse, 0)
		for _, question := range pending {
			if question.TargetsClass(class.ID) {
				classPending = append(classPending, dto.NewQuestionResponse(question))
			}
		}

		overview = append(overview, dto.ClassOverview{
			ID:               class.ID,
			Name:             class.Name,
			TotalStudents:    len(participants),
			ActiveStudents:   active,
			PendingQuestions: len(classPending),
			Pending:          classPending,
		})
	}

	return overview, nil
}

func (s *adminService) PendingQuestions(ctx context.Context) ([]dto.QuestionResponse, error) {
	pending, err := s.questions.ListByStatus(ctx, models.QuestionStatusPending)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(pending), nil
}

func (s *adminService) ReviewQuestion(ctx context.Context, adminID string, questionID uint, approved bool) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	// Pending -> approved/rejected happens exactly once.
	if question.IsReviewed() {
		return dto.QuestionResponse{}, ErrQuestionAlreadyReviewed
	}

	if approved {
		question.Status = models.QuestionStatusApproved
	} else {
		question.Status = models.QuestionStatusRejected
	}
	reviewedAt := s.now()
	question.ReviewedAt = &reviewedAt
	question.ReviewedBy = adminID

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().
		Uint("question_id", question.ID).
		Str("status", question.Status).
		Str("admin_id", adminID).
		Msg("question reviewed")

	return dto.NewQuestionResponse(question), nil
}

func (s *adminService) CreateTeacher(ctx context.Context, req dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TeacherResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher := models.Staff{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         models.RoleTeacher,
		ClassID:      req.ClassID,
	}

	if err := s.staff.Create(ctx, &teacher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.TeacherResponse{}, ErrEmailTaken
		}
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Str("teacher_id", teacher.ID).Msg("teacher account created")

	return dto.TeacherResponse{
		ID:          teacher.ID,
		Email:       teacher.Email,
		DisplayName: teacher.DisplayName,
		ClassID:     teacher.ClassID,
	}, nil
}

func (s *adminService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.staff.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		out = append(out, dto.TeacherResponse{
			ID:          teacher.ID,
			Email:       teacher.Email,
			DisplayName: teacher.DisplayName,
			ClassID:     teacher.ClassID,
		})
	}

	return out, nil
}

func (s *adminService) DeleteTeacher(ctx context.Context, teacherID string) error {
	teacher, err := s.staff.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}
	if teacher.Role != models.RoleTeacher {
		return ErrTeacherNotFound
	}

	// Classes keep existing without a teacher; the assignment is cleared
	// so a replacement can be pointed at them later.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewClassRepository(tx).ClearTeacher(ctx, teacher.ID); err != nil {
			return err
		}

		return repository.NewStaffRepository(tx).Delete(ctx, teacher.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("teacher_id", teacher.ID).Msg("teacher account deleted")

	return nil
}

func (s *adminService) CreateClass(ctx context.Context, req dto.ClassCreateRequest) (dto.ClassCreateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ClassCreateResponse{}, err
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if !classNamePattern.MatchString(name) {
		return dto.ClassCreateResponse{}, ErrInvalidClassName
	}

	teacher, err := s.staff.GetByID(ctx, req.TeacherID)
	if err != nil || teacher.Role != models.RoleTeacher {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassCreateResponse{}, err
		}
		return dto.ClassCreateResponse{}, ErrTeacherNotFound
	}

	existing, err := s.participants.ListCodes(ctx)
	if err != nil {
		return dto.ClassCreateResponse{}, err
	}

	codes, err := generateStudentCodes(req.StudentCount, existing)
	if err != nil {
		return dto.ClassCreateResponse{}, err
	}

	class := models.Class{ID: name, Name: name, TeacherID: teacher.ID}

	participants := make([]models.Participant, 0, len(codes))
	for _, code := range codes {
		participants = append(participants, models.Participant{
			Code:    code,
			ClassID: class.ID,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewClassRepository(tx).Create(ctx, &class); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("class %s already exists", class.ID)
			}
			return err
		}

		if err := repository.NewParticipantRepository(tx).CreateBatch(ctx, participants); err != nil {
			return err
		}

		if teacher.ClassID == "" {
			teacher.ClassID = class.ID
			return repository.NewStaffRepository(tx).Update(ctx, &teacher)
		}

		return nil
	})
	if err != nil {
		return dto.ClassCreateResponse{}, err
	}

	s.logger.Info().
		Str("class_id", class.ID).
		Int("students", len(codes)).
		Msg("class created with student codes")

	return dto.ClassCreateResponse{ClassID: class.ID, Name: class.Name, Codes: codes}, nil
}

func (s *adminService) DeleteClass(ctx context.Context, classID string) error {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}

	// Submissions, participants and the class go together; a half-deleted
	// class is worse than a failed delete.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSubmissionRepository(tx).DeleteByClass(ctx, classID); err != nil {
			return err
		}

		if err := repository.NewParticipantRepository(tx).DeleteByClass(ctx, classID); err != nil {
			return err
		}

		return repository.NewClassRepository(tx).Delete(ctx, classID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("class_id", classID).Msg("class deleted")

	return nil
}

// generateStudentCodes draws unique 6-character codes from the uppercase
// alphanumeric alphabet, avoiding collisions with every code already issued.
func generateStudentCodes(count int, existing []string) ([]string, error) {
	taken := make(map[string]struct{}, len(existing)+count)
	for _, code := range existing {
		taken[code] = struct{}{}
	}

	codes := make([]string, 0, count)
	for len(codes) < count {
		code, err := randomCode()
		if err != nil {
			return nil, err
		}

		if _, ok := taken[code]; ok {
			continue
		}

		taken[code] = struct{}{}
		codes = append(codes, code)
	}

	return codes, nil
}

func randomCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
