package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/models"
)

func TestSubmissionCreateRejectsSameDayDuplicate(t *testing.T) {
	db := setupRepoTestDB(t, &models.Participant{}, &models.Submission{})
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	first := models.Submission{ParticipantCode: "ABC123", Date: "2024-03-11", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &first))

	// Same participant, different day: fine.
	nextDay := models.Submission{ParticipantCode: "ABC123", Date: "2024-03-12", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &nextDay))

	// Different participant, same day: fine.
	other := models.Submission{ParticipantCode: "DEF456", Date: "2024-03-11", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &other))

	duplicate := models.Submission{ParticipantCode: "ABC123", Date: "2024-03-11", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()}
	require.ErrorIs(t, repo.Create(ctx, &duplicate), gorm.ErrDuplicatedKey)
}

func TestSubmissionListByClassJoinsParticipants(t *testing.T) {
	db := setupRepoTestDB(t, &models.Participant{}, &models.Submission{})
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Participant{Code: "AAA111", ClassID: "class_1"}).Error)
	require.NoError(t, db.Create(&models.Participant{Code: "BBB222", ClassID: "class_2"}).Error)

	entries := []models.Submission{
		{ParticipantCode: "AAA111", Date: "2024-03-10", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()},
		{ParticipantCode: "AAA111", Date: "2024-03-11", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()},
		{ParticipantCode: "BBB222", Date: "2024-03-11", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	byClass, err := repo.ListByClass(ctx, "class_1")
	require.NoError(t, err)
	require.Len(t, byClass, 2)
	for _, s := range byClass {
		require.Equal(t, "AAA111", s.ParticipantCode)
	}

	count, err := repo.CountByClassAndDate(ctx, "class_1", "2024-03-11")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, err = repo.CountByClassAndDate(ctx, "class_1", "2024-03-09")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestSubmissionDeleteByClass(t *testing.T) {
	db := setupRepoTestDB(t, &models.Participant{}, &models.Submission{})
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Participant{Code: "AAA111", ClassID: "class_1"}).Error)
	require.NoError(t, db.Create(&models.Participant{Code: "BBB222", ClassID: "class_2"}).Error)

	entries := []models.Submission{
		{ParticipantCode: "AAA111", Date: "2024-03-11", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()},
		{ParticipantCode: "BBB222", Date: "2024-03-11", Answers: datatypes.JSONMap{}, SubmittedAt: time.Now()},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	require.NoError(t, repo.DeleteByClass(ctx, "class_1"))

	remaining, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "BBB222", remaining[0].ParticipantCode)
}

func TestSubmissionAnswersRoundTrip(t *testing.T) {
	db := setupRepoTestDB(t, &models.Participant{}, &models.Submission{})
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	entry := models.Submission{
		ParticipantCode: "AAA111",
		Date:            "2024-03-11",
		Answers:         datatypes.JSONMap{"1": "great", "2": float64(8), "3": true},
		SubmittedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(ctx, &entry))

	stored, err := repo.ListByParticipant(ctx, "AAA111")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "great", stored[0].Answers["1"])
	require.Equal(t, float64(8), stored[0].Answers["2"])
	require.Equal(t, true, stored[0].Answers["3"])
}
