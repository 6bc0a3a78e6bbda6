package repository

import (
	"context"
	"testing"
	"time"

	"civicwatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedIssue(t *testing.T, repo *InMemoryIssueRepository, status models.IssueStatus, age time.Duration) primitive.ObjectID {
	t.Helper()
	issue := &models.Issue{
		Title:       "Pothole",
		Description: "Large pothole on Main St",
		Category:    models.Road,
		Lat:         12.34,
		Lng:         56.78,
		Status:      status,
		CreatedAt:   time.Now().Add(-age),
	}
	id, err := repo.Create(context.Background(), issue)
	require.NoError(t, err)
	return id
}

func TestIncrementSpam(t *testing.T) {
	repo := NewInMemoryIssueRepository()
	id := seedIssue(t, repo, models.Reported, 0)

	for want := int64(1); want <= 3; want++ {
		count, err := repo.IncrementSpam(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	_, err := repo.IncrementSpam(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublicExcludesSpammed(t *testing.T) {
	repo := NewInMemoryIssueRepository()
	visible := seedIssue(t, repo, models.Reported, 0)
	hidden := seedIssue(t, repo, models.Reported, 0)
	for i := 0; i < models.PublicSpamThreshold; i++ {
		_, err := repo.IncrementSpam(context.Background(), hidden)
		require.NoError(t, err)
	}

	public, err := repo.ListPublic(context.Background(), models.PublicSpamThreshold)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, visible, public[0].ID)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEscalateBefore(t *testing.T) {
	repo := NewInMemoryIssueRepository()
	now := time.Now()

	stale := seedIssue(t, repo, models.Reported, 8*24*time.Hour)
	resolved := seedIssue(t, repo, models.Resolved, 8*24*time.Hour)
	fresh := seedIssue(t, repo, models.Reported, time.Hour)

	cutoff := now.Add(-models.EscalationAge)
	count, err := repo.EscalateBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(context.Background(), stale)
	require.NoError(t, err)
	assert.True(t, got.Escalated)

	got, err = repo.GetByID(context.Background(), resolved)
	require.NoError(t, err)
	assert.False(t, got.Escalated)

	got, err = repo.GetByID(context.Background(), fresh)
	require.NoError(t, err)
	assert.False(t, got.Escalated)

	// second sweep with the same cutoff is a no-op
	count, err = repo.EscalateBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEscalateBeforeIncludesCutoffBoundary(t *testing.T) {
	repo := NewInMemoryIssueRepository()
	cutoff := time.Now().Add(-models.EscalationAge)

	issue := &models.Issue{Title: "t", Description: "d", Category: models.Road, CreatedAt: cutoff, Status: models.Reported}
	_, err := repo.Create(context.Background(), issue)
	require.NoError(t, err)

	count, err := repo.EscalateBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo := NewInMemoryIssueRepository()
	err := repo.UpdateStatus(context.Background(), primitive.NewObjectID(), models.Resolved)
	assert.ErrorIs(t, err, ErrNotFound)
}
