package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
)

// ExportService renders anonymous diary data as CSV: one row per submission,
// one column per approved question, in question insertion order.
type ExportService interface {
	ExportCSV(ctx context.Context, classID string) ([]byte, error)
}

type exportService struct {
	questions   repository.QuestionRepository
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(questions repository.QuestionRepository, submissions repository.SubmissionRepository, logger zerolog.Logger) ExportService {
	return &exportService{
		questions:   questions,
		submissions: submissions,
		logger:      logger.With().Str("component", "export_service").Logger(),
	}
}

// ExportCSV writes all submissions (or one class's, when classID is set) as
// CSV. Answers to since-rejected or pending questions are not exported.
func (s *exportService) ExportCSV(ctx context.Context, classID string) ([]byte, error) {
	approved, err := s.questions.ListByStatus(ctx, models.QuestionStatusApproved)
	if err != nil {
		return nil, err
	}

	var submissions []models.Submission
	if classID == "" {
		submissions, err = s.submissions.ListAll(ctx)
	} else {
		submissions, err = s.submissions.ListByClass(ctx, classID)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"code", "date", "submitted_at"}
	for _, question := range approved {
		header = append(header, question.Text)
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, submission := range submissions {
		row := []string{
			submission.ParticipantCode,
			submission.Date,
			submission.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
		}

		for _, question := range approved {
			value := ""
			if answer, ok := submission.Answers[QuestionAnswerKey(question)]; ok && answer != nil {
				value = fmt.Sprintf("%v", answer)
			}
			row = append(row, value)
		}

		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("class_id", classID).
		Int("rows", len(submissions)).
		Msg("csv export generated")

	return buf.Bytes(), nil
}
