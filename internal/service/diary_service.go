package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/dto"
	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
	"github.com/sleepquest/diary-api/internal/utils"
)

// Coins awarded for each accepted diary entry.
const submissionCoinReward = 10

// Subject accepted-submission events are published on.
const submissionEventSubject = "sleepquest.submissions.accepted"

// Sentinel errors for the submission path. Nothing here is swallowed: every
// failure reaches the caller with one of these or a wrapped store error.
var (
	ErrParticipantNotFound    = errors.New("participant not found")
	ErrAlreadySubmittedToday  = errors.New("already submitted today")
	ErrMissingAnswers         = errors.New("missing answers for eligible questions")
	ErrDuplicateSubmissionDay = errors.New("submission already exists for this day")
)

// SubmissionEvent is published after a diary entry is accepted.
type SubmissionEvent struct {
	Code          string    `json:"code"`
	ClassID       string    `json:"class_id"`
	Date          string    `json:"date"`
	Streak        int       `json:"streak"`
	CompletedDays int       `json:"completed_days"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// DiaryService is the daily-submission eligibility and streak engine.
//
// A participant may write at most one entry per calendar day. Streaks count
// consecutive calendar days with an entry: a one-day gap increments, anything
// larger resets to 1. Days are anchored to the configured time zone, so an
// entry at 23:59 followed by one at 00:01 counts as consecutive.
type DiaryService interface {
	Status(ctx context.Context, code string) (dto.DiaryStatusResponse, error)
	Questions(ctx context.Context, code string) ([]models.Question, error)
	Submit(ctx context.Context, code string, answers map[string]interface{}) (dto.SubmitResponse, error)
	History(ctx context.Context, code string) ([]models.Submission, error)
}

type diaryService struct {
	db           *gorm.DB
	participants repository.ParticipantRepository
	submissions  repository.SubmissionRepository
	questions    QuestionService
	game         GameStateInvalidator
	events       *nats.Conn
	loc          *time.Location
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewDiaryService constructs the diary engine. The events connection may be
// nil; event publishing is best-effort and never fails a submission.
func NewDiaryService(db *gorm.DB, participants repository.ParticipantRepository, questions QuestionService, game GameStateInvalidator, events *nats.Conn, loc *time.Location, logger zerolog.Logger) DiaryService {
	return &diaryService{
		db:           db,
		participants: participants,
		submissions:  repository.NewSubmissionRepository(db),
		questions:    questions,
		game:         game,
		events:       events,
		loc:          loc,
		logger:       logger.With().Str("component", "diary_service").Logger(),
		tracer:       otel.Tracer("github.com/sleepquest/diary-api/internal/service/diary"),
		now:          time.Now,
	}
}

// CanSubmitToday reports whether the participant may write an entry for the
// given calendar day. A participant who never submitted is always eligible.
func CanSubmitToday(p models.Participant, today string) bool {
	return p.LastSubmissionDate == nil || *p.LastSubmissionDate != today
}

// NextStreak computes the streak after an accepted submission on today. The
// zero-day case is unreachable behind CanSubmitToday; it is treated as an
// error rather than guessed around.
func NextStreak(p models.Participant, today string) (int, error) {
	if p.LastSubmissionDate == nil {
		return 1, nil
	}

	diff, err := utils.DaysBetween(*p.LastSubmissionDate, today)
	if err != nil {
		return 0, fmt.Errorf("malformed last submission date %q: %w", *p.LastSubmissionDate, err)
	}

	switch {
	case diff == 1:
		return p.Streak + 1, nil
	case diff > 1:
		return 1, nil
	default:
		return 0, ErrAlreadySubmittedToday
	}
}

func (s *diaryService) Status(ctx context.Context, code string) (dto.DiaryStatusResponse, error) {
	participant, err := s.getParticipant(ctx, code)
	if err != nil {
		return dto.DiaryStatusResponse{}, err
	}

	return dto.DiaryStatusResponse{
		Streak:             participant.Streak,
		CompletedDays:      participant.CompletedDays,
		Coins:              participant.Coins,
		CanSubmitToday:     CanSubmitToday(participant, s.today()),
		LastSubmissionDate: participant.LastSubmissionDate,
	}, nil
}

func (s *diaryService) Questions(ctx context.Context, code string) ([]models.Question, error) {
	participant, err := s.getParticipant(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.questions.EligibleForParticipant(ctx, participant)
}

func (s *diaryService) Submit(ctx context.Context, code string, answers map[string]interface{}) (dto.SubmitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "diary.submit", trace.WithAttributes(attribute.String("participant.code", code)))
	defer span.End()

	participant, err := s.getParticipant(ctx, code)
	if err != nil {
		return dto.SubmitResponse{}, err
	}

	today := s.today()
	if !CanSubmitToday(participant, today) {
		return dto.SubmitResponse{}, ErrAlreadySubmittedToday
	}

	eligible, err := s.questions.EligibleForParticipant(ctx, participant)
	if err != nil {
		return dto.SubmitResponse{}, err
	}

	if missing := missingAnswers(s.questions, eligible, answers); len(missing) > 0 {
		return dto.SubmitResponse{}, fmt.Errorf("%w: %v", ErrMissingAnswers, missing)
	}

	newStreak, err := NextStreak(participant, today)
	if err != nil {
		return dto.SubmitResponse{}, err
	}

	newCompleted := participant.CompletedDays + 1
	newCoins := participant.Coins + submissionCoinReward
	submittedAt := s.now().In(s.loc)

	submission := models.Submission{
		ParticipantCode: participant.Code,
		Date:            today,
		Answers:         datatypes.JSONMap(answers),
		SubmittedAt:     submittedAt,
	}

	// The entry and the counter update commit together or not at all. The
	// unique (participant, date) index backs this up against races: a second
	// writer fails the insert and therefore never touches the counters.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSubmissionRepository(tx).Create(ctx, &submission); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSubmissionDay
			}
			return err
		}

		return repository.NewParticipantRepository(tx).Update(ctx, participant.Code, repository.ParticipantUpdate{
			LastSubmissionDate: &today,
			Streak:             &newStreak,
			CompletedDays:      &newCompleted,
			Coins:              &newCoins,
		})
	})
	if err != nil {
		span.RecordError(err)
		return dto.SubmitResponse{}, err
	}

	if s.game != nil {
		s.game.InvalidateState(ctx, participant.Code)
	}

	s.publishEvent(SubmissionEvent{
		Code:          participant.Code,
		ClassID:       participant.ClassID,
		Date:          today,
		Streak:        newStreak,
		CompletedDays: newCompleted,
		SubmittedAt:   submittedAt,
	})

	s.logger.Info().
		Str("code", participant.Code).
		Str("date", today).
		Int("streak", newStreak).
		Int("completed_days", newCompleted).
		Msg("diary entry accepted")

	return dto.SubmitResponse{
		Date:          today,
		Streak:        newStreak,
		CompletedDays: newCompleted,
		Coins:         newCoins,
	}, nil
}

func (s *diaryService) History(ctx context.Context, code string) ([]models.Submission, error) {
	if _, err := s.getParticipant(ctx, code); err != nil {
		return nil, err
	}

	return s.submissions.ListByParticipant(ctx, code)
}

func (s *diaryService) getParticipant(ctx context.Context, code string) (models.Participant, error) {
	participant, err := s.participants.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Participant{}, ErrParticipantNotFound
		}
		return models.Participant{}, err
	}

	return participant, nil
}

func (s *diaryService) today() string {
	return utils.FormatDay(s.now(), s.loc)
}

func (s *diaryService) publishEvent(event SubmissionEvent) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := s.events.Publish(submissionEventSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish submission event")
	}
}

func missingAnswers(questions QuestionService, eligible []models.Question, answers map[string]interface{}) []string {
	var missing []string
	for _, key := range questions.RequiredAnswerIDs(eligible, answers) {
		value, ok := answers[key]
		if !ok || value == nil || value == "" {
			missing = append(missing, key)
		}
	}

	return missing
}
