package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
)

func TestEligibleForParticipantFiltersByClass(t *testing.T) {
	db := setupDiaryTestDB(t)
	repo := repository.NewQuestionRepository(db)

	q1 := models.Question{Text: "q1", Type: models.QuestionTypeText, Status: models.QuestionStatusApproved, ClassIDs: datatypes.NewJSONSlice([]string{models.AllClassesMarker})}
	q2 := models.Question{Text: "q2", Type: models.QuestionTypeText, Status: models.QuestionStatusPending, ClassIDs: datatypes.NewJSONSlice([]string{models.AllClassesMarker})}
	q3 := models.Question{Text: "q3", Type: models.QuestionTypeText, Status: models.QuestionStatusApproved, ClassIDs: datatypes.NewJSONSlice([]string{"class_2"})}
	for _, q := range []*models.Question{&q1, &q2, &q3} {
		require.NoError(t, db.Create(q).Error)
	}

	svc := NewQuestionService(repo, zerolog.Nop())

	eligible, err := svc.EligibleForParticipant(context.Background(), models.Participant{Code: "AAA111", ClassID: "class_1"})
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	require.Equal(t, "q1", eligible[0].Text, "pending and other-class questions are filtered out")

	eligible, err = svc.EligibleForParticipant(context.Background(), models.Participant{Code: "BBB222", ClassID: "class_2"})
	require.NoError(t, err)
	require.Len(t, eligible, 2)
}

func TestEligibleForParticipantEmptySetIsAnError(t *testing.T) {
	db := setupDiaryTestDB(t)
	svc := NewQuestionService(repository.NewQuestionRepository(db), zerolog.Nop())

	_, err := svc.EligibleForParticipant(context.Background(), models.Participant{Code: "AAA111", ClassID: "class_1"})
	require.ErrorIs(t, err, ErrNoQuestionsAvailable)
}

func TestEligibleForParticipantDefaultsClass(t *testing.T) {
	db := setupDiaryTestDB(t)
	repo := repository.NewQuestionRepository(db)

	q := models.Question{Text: "q", Type: models.QuestionTypeText, Status: models.QuestionStatusApproved, ClassIDs: datatypes.NewJSONSlice([]string{models.DefaultClassID})}
	require.NoError(t, db.Create(&q).Error)

	svc := NewQuestionService(repo, zerolog.Nop())

	eligible, err := svc.EligibleForParticipant(context.Background(), models.Participant{Code: "CCC333"})
	require.NoError(t, err)
	require.Len(t, eligible, 1)
}

func TestVisibleWithAnswersConditionalDisplay(t *testing.T) {
	db := setupDiaryTestDB(t)
	svc := NewQuestionService(repository.NewQuestionRepository(db), zerolog.Nop())

	always := models.Question{ID: 1, Text: "Did you nap?", Type: models.QuestionTypeYesNo}
	conditional := models.Question{
		ID:              2,
		Text:            "For how long?",
		Type:            models.QuestionTypeNumber,
		ConditionalOn:   "1",
		ConditionValues: datatypes.NewJSONSlice([]string{"true"}),
	}
	questions := []models.Question{always, conditional}

	visible := svc.VisibleWithAnswers(questions, map[string]interface{}{})
	require.Len(t, visible, 1, "unanswered condition hides the follow-up")

	visible = svc.VisibleWithAnswers(questions, map[string]interface{}{"1": false})
	require.Len(t, visible, 1)

	visible = svc.VisibleWithAnswers(questions, map[string]interface{}{"1": true})
	require.Len(t, visible, 2)
}

func TestVisibleWithAnswersMatchesJSONDecodedValues(t *testing.T) {
	db := setupDiaryTestDB(t)
	svc := NewQuestionService(repository.NewQuestionRepository(db), zerolog.Nop())

	conditional := models.Question{
		ID:              2,
		ConditionalOn:   "1",
		ConditionValues: datatypes.NewJSONSlice([]string{"3"}),
	}

	// Numbers arrive as float64 after JSON decoding.
	visible := svc.VisibleWithAnswers([]models.Question{conditional}, map[string]interface{}{"1": float64(3)})
	require.Len(t, visible, 1)

	visible = svc.VisibleWithAnswers([]models.Question{conditional}, map[string]interface{}{"1": float64(2)})
	require.Empty(t, visible)
}

func TestRequiredAnswerIDsSkipsHiddenQuestions(t *testing.T) {
	db := setupDiaryTestDB(t)
	svc := NewQuestionService(repository.NewQuestionRepository(db), zerolog.Nop())

	questions := []models.Question{
		{ID: 1, Type: models.QuestionTypeYesNo},
		{ID: 2, Type: models.QuestionTypeNumber, ConditionalOn: "1", ConditionValues: datatypes.NewJSONSlice([]string{"true"})},
	}

	require.Equal(t, []string{"1"}, svc.RequiredAnswerIDs(questions, map[string]interface{}{"1": false}))
	require.Equal(t, []string{"1", "2"}, svc.RequiredAnswerIDs(questions, map[string]interface{}{"1": true}))
}
