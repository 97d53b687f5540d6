package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
)

// ErrNoQuestionsAvailable indicates the questionnaire has no eligible
// questions for the participant; the flow must block instead of completing.
var ErrNoQuestionsAvailable = errors.New("no questions available")

// QuestionService resolves which questions a participant sees today.
//
// Eligibility is class-scoped: a question is visible iff it is approved and
// its target list names the participant's class or the "all" marker. The
// target-day attribute is stored but does not participate in filtering.
type QuestionService interface {
	EligibleForParticipant(ctx context.Context, participant models.Participant) ([]models.Question, error)
	VisibleWithAnswers(questions []models.Question, answers map[string]interface{}) []models.Question
	RequiredAnswerIDs(questions []models.Question, answers map[string]interface{}) []string
}

type questionService struct {
	questions repository.QuestionRepository
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questions repository.QuestionRepository, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) EligibleForParticipant(ctx context.Context, participant models.Participant) ([]models.Question, error) {
	approved, err := s.questions.ListByStatus(ctx, models.QuestionStatusApproved)
	if err != nil {
		return nil, err
	}

	classID := participant.ClassID
	if classID == "" {
		classID = models.DefaultClassID
	}

	eligible := make([]models.Question, 0, len(approved))
	for _, question := range approved {
		if question.TargetsClass(classID) {
			eligible = append(eligible, question)
		}
	}

	if len(eligible) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	return eligible, nil
}

// VisibleWithAnswers applies the conditional-display rule: a question with a
// conditional_on reference is shown only when the answer already given to the
// referenced question is one of its accepted values. References are single-hop
// by construction, so one pass in input order suffices.
func (s *questionService) VisibleWithAnswers(questions []models.Question, answers map[string]interface{}) []models.Question {
	visible := make([]models.Question, 0, len(questions))
	for _, question := range questions {
		if conditionMet(question, answers) {
			visible = append(visible, question)
		}
	}

	return visible
}

// RequiredAnswerIDs lists the question IDs that must be answered given the
// current answer set. Questions hidden by an unmet condition are not required.
func (s *questionService) RequiredAnswerIDs(questions []models.Question, answers map[string]interface{}) []string {
	required := make([]string, 0, len(questions))
	for _, question := range s.VisibleWithAnswers(questions, answers) {
		required = append(required, QuestionAnswerKey(question))
	}

	return required
}

// QuestionAnswerKey is the key under which a question's answer is stored in a
// submission's answers map.
func QuestionAnswerKey(question models.Question) string {
	return strconv.FormatUint(uint64(question.ID), 10)
}

func conditionMet(question models.Question, answers map[string]interface{}) bool {
	if question.ConditionalOn == "" {
		return true
	}

	answer, ok := answers[question.ConditionalOn]
	if !ok {
		return false
	}

	given := answerString(answer)
	for _, accepted := range question.ConditionValues {
		if accepted == given {
			return true
		}
	}

	return false
}

func answerString(answer interface{}) string {
	switch v := answer.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
