package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
)

func setupDiaryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:diary_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Participant{}, &models.Submission{}, &models.Question{}))
	return db
}

func newDiaryServiceAt(t *testing.T, db *gorm.DB, instant time.Time) *diaryService {
	t.Helper()
	participantRepo := repository.NewParticipantRepository(db)
	questionService := NewQuestionService(repository.NewQuestionRepository(db), zerolog.Nop())

	svc := NewDiaryService(db, participantRepo, questionService, nil, nil, time.UTC, zerolog.Nop()).(*diaryService)
	svc.now = func() time.Time { return instant }
	return svc
}

func seedApprovedQuestion(t *testing.T, db *gorm.DB, question models.Question) models.Question {
	t.Helper()
	question.Status = models.QuestionStatusApproved
	if len(question.ClassIDs) == 0 {
		question.ClassIDs = datatypes.NewJSONSlice([]string{models.AllClassesMarker})
	}
	require.NoError(t, db.Create(&question).Error)
	return question
}

func TestSubmitFirstEntryStartsStreak(t *testing.T) {
	db := setupDiaryTestDB(t)
	question := seedApprovedQuestion(t, db, models.Question{Text: "How did you sleep?", Type: models.QuestionTypeRadio})
	require.NoError(t, db.Create(&models.Participant{Code: "ABC123"}).Error)

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC))

	answers := map[string]interface{}{QuestionAnswerKey(question): "great"}
	result, err := svc.Submit(context.Background(), "ABC123", answers)
	require.NoError(t, err)
	require.Equal(t, "2024-03-11", result.Date)
	require.Equal(t, 1, result.Streak)
	require.Equal(t, 1, result.CompletedDays)
	require.Equal(t, 10, result.Coins)

	var stored models.Participant
	require.NoError(t, db.First(&stored, "code = ?", "ABC123").Error)
	require.NotNil(t, stored.LastSubmissionDate)
	require.Equal(t, "2024-03-11", *stored.LastSubmissionDate)
	require.Equal(t, 1, stored.Streak)
	require.Equal(t, 10, stored.Coins)

	_, err = svc.Submit(context.Background(), "ABC123", answers)
	require.ErrorIs(t, err, ErrAlreadySubmittedToday)
}

func TestSubmitConsecutiveDayExtendsStreak(t *testing.T) {
	db := setupDiaryTestDB(t)
	question := seedApprovedQuestion(t, db, models.Question{Text: "Hours slept", Type: models.QuestionTypeNumber})

	last := "2024-03-10"
	participant := models.Participant{
		Code:               "ABC123",
		LastSubmissionDate: &last,
		Streak:             4,
		CompletedDays:      9,
		Coins:              90,
	}
	require.NoError(t, db.Create(&participant).Error)

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 8, 30, 0, 0, time.UTC))

	result, err := svc.Submit(context.Background(), "ABC123", map[string]interface{}{QuestionAnswerKey(question): 8})
	require.NoError(t, err)
	require.Equal(t, 5, result.Streak)
	require.Equal(t, 10, result.CompletedDays)
	require.Equal(t, 100, result.Coins)
}

func TestSubmitAfterGapResetsStreak(t *testing.T) {
	db := setupDiaryTestDB(t)
	question := seedApprovedQuestion(t, db, models.Question{Text: "Hours slept", Type: models.QuestionTypeNumber})

	last := "2024-03-10"
	participant := models.Participant{
		Code:               "ABC123",
		LastSubmissionDate: &last,
		Streak:             4,
		CompletedDays:      9,
		Coins:              90,
	}
	require.NoError(t, db.Create(&participant).Error)

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC))

	result, err := svc.Submit(context.Background(), "ABC123", map[string]interface{}{QuestionAnswerKey(question): 7})
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak, "a gap larger than one day resets the streak")
	require.Equal(t, 10, result.CompletedDays, "completed days never reset")
	require.Equal(t, 100, result.Coins)
}

func TestSubmitRejectsMissingAnswers(t *testing.T) {
	db := setupDiaryTestDB(t)
	q1 := seedApprovedQuestion(t, db, models.Question{Text: "How did you sleep?", Type: models.QuestionTypeRadio})
	q2 := seedApprovedQuestion(t, db, models.Question{Text: "Hours slept", Type: models.QuestionTypeNumber})
	require.NoError(t, db.Create(&models.Participant{Code: "XYZ999"}).Error)

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC))

	_, err := svc.Submit(context.Background(), "XYZ999", map[string]interface{}{QuestionAnswerKey(q1): "fine"})
	require.ErrorIs(t, err, ErrMissingAnswers)
	require.Contains(t, err.Error(), QuestionAnswerKey(q2))

	// A rejected submission must not touch the stored counters.
	var stored models.Participant
	require.NoError(t, db.First(&stored, "code = ?", "XYZ999").Error)
	require.Nil(t, stored.LastSubmissionDate)
	require.Equal(t, 0, stored.Streak)
	require.Equal(t, 0, stored.Coins)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSubmitHiddenConditionalQuestionIsNotRequired(t *testing.T) {
	db := setupDiaryTestDB(t)
	trigger := seedApprovedQuestion(t, db, models.Question{Text: "Did you wake up at night?", Type: models.QuestionTypeYesNo})
	followUp := seedApprovedQuestion(t, db, models.Question{
		Text:            "How many times?",
		Type:            models.QuestionTypeNumber,
		ConditionalOn:   QuestionAnswerKey(trigger),
		ConditionValues: datatypes.NewJSONSlice([]string{"true"}),
	})
	require.NoError(t, db.Create(&models.Participant{Code: "DEF456"}).Error)

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC))

	// Condition not met: the follow-up is hidden and must not be required.
	result, err := svc.Submit(context.Background(), "DEF456", map[string]interface{}{QuestionAnswerKey(trigger): false})
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)

	// Condition met on the next day: the follow-up becomes required.
	svc.now = func() time.Time { return time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC) }
	_, err = svc.Submit(context.Background(), "DEF456", map[string]interface{}{QuestionAnswerKey(trigger): true})
	require.ErrorIs(t, err, ErrMissingAnswers)
	require.Contains(t, err.Error(), QuestionAnswerKey(followUp))
}

func TestSubmitUnknownParticipant(t *testing.T) {
	db := setupDiaryTestDB(t)
	seedApprovedQuestion(t, db, models.Question{Text: "Sleep?", Type: models.QuestionTypeYesNo})

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC))

	_, err := svc.Submit(context.Background(), "NOPE00", map[string]interface{}{"1": true})
	require.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestSubmitDuplicateDayRowIsRejectedAtomically(t *testing.T) {
	db := setupDiaryTestDB(t)
	question := seedApprovedQuestion(t, db, models.Question{Text: "Sleep?", Type: models.QuestionTypeYesNo})
	require.NoError(t, db.Create(&models.Participant{Code: "GHI789"}).Error)

	// Simulate a racing writer that inserted today's row but whose counter
	// update has not been observed yet.
	require.NoError(t, db.Create(&models.Submission{
		ParticipantCode: "GHI789",
		Date:            "2024-03-11",
		Answers:         datatypes.JSONMap{},
		SubmittedAt:     time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC),
	}).Error)

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC))

	_, err := svc.Submit(context.Background(), "GHI789", map[string]interface{}{QuestionAnswerKey(question): true})
	require.ErrorIs(t, err, ErrDuplicateSubmissionDay)

	var stored models.Participant
	require.NoError(t, db.First(&stored, "code = ?", "GHI789").Error)
	require.Equal(t, 0, stored.Streak, "losing the insert race must not touch the counters")
	require.Equal(t, 0, stored.Coins)
}

func TestStatusReportsEligibility(t *testing.T) {
	db := setupDiaryTestDB(t)

	last := "2024-03-11"
	require.NoError(t, db.Create(&models.Participant{
		Code:               "JKL012",
		LastSubmissionDate: &last,
		Streak:             3,
		CompletedDays:      5,
		Coins:              50,
	}).Error)

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC))

	status, err := svc.Status(context.Background(), "JKL012")
	require.NoError(t, err)
	require.Equal(t, 3, status.Streak)
	require.Equal(t, 5, status.CompletedDays)
	require.Equal(t, 50, status.Coins)
	require.False(t, status.CanSubmitToday)

	svc.now = func() time.Time { return time.Date(2024, 3, 12, 0, 1, 0, 0, time.UTC) }
	status, err = svc.Status(context.Background(), "JKL012")
	require.NoError(t, err)
	require.True(t, status.CanSubmitToday, "a new calendar day reopens submission")
}

func TestHistoryListsOwnEntries(t *testing.T) {
	db := setupDiaryTestDB(t)
	require.NoError(t, db.Create(&models.Participant{Code: "MNO345"}).Error)
	require.NoError(t, db.Create(&models.Participant{Code: "PQR678"}).Error)

	entries := []models.Submission{
		{ParticipantCode: "MNO345", Date: "2024-03-10", Answers: datatypes.JSONMap{"1": "ok"}, SubmittedAt: time.Now()},
		{ParticipantCode: "MNO345", Date: "2024-03-11", Answers: datatypes.JSONMap{"1": "great"}, SubmittedAt: time.Now()},
		{ParticipantCode: "PQR678", Date: "2024-03-11", Answers: datatypes.JSONMap{"1": "meh"}, SubmittedAt: time.Now()},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}

	svc := newDiaryServiceAt(t, db, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC))

	history, err := svc.History(context.Background(), "MNO345")
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, entry := range history {
		require.Equal(t, "MNO345", entry.ParticipantCode)
	}
}

func TestNextStreakTransitions(t *testing.T) {
	last := "2024-03-10"
	withLast := models.Participant{LastSubmissionDate: &last, Streak: 4}

	streak, err := NextStreak(models.Participant{}, "2024-03-11")
	require.NoError(t, err)
	require.Equal(t, 1, streak, "first ever submission starts at 1")

	streak, err = NextStreak(withLast, "2024-03-11")
	require.NoError(t, err)
	require.Equal(t, 5, streak)

	streak, err = NextStreak(withLast, "2024-03-13")
	require.NoError(t, err)
	require.Equal(t, 1, streak)

	_, err = NextStreak(withLast, "2024-03-10")
	require.ErrorIs(t, err, ErrAlreadySubmittedToday)
}
