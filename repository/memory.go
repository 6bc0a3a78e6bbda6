package repository

import (
	"context"
	"sync"
	"time"

	"civicwatch/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryIssueRepository keeps issues in process memory. It backs the test
// suite and local runs without a MongoDB instance.
type InMemoryIssueRepository struct {
	mu     sync.Mutex
	issues []*models.Issue
}

func NewInMemoryIssueRepository() *InMemoryIssueRepository {
	return &InMemoryIssueRepository{}
}

func (r *InMemoryIssueRepository) Create(_ context.Context, issue *models.Issue) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now()
	}
	stored := *issue
	r.issues = append(r.issues, &stored)
	return issue.ID, nil
}

func (r *InMemoryIssueRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue := r.find(id)
	if issue == nil {
		return nil, ErrNotFound
	}
	copied := *issue
	return &copied, nil
}

func (r *InMemoryIssueRepository) ListAll(_ context.Context) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(*models.Issue) bool { return true }), nil
}

func (r *InMemoryIssueRepository) ListPublic(_ context.Context, spamThreshold int64) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(i *models.Issue) bool { return i.SpamCount < spamThreshold }), nil
}

func (r *InMemoryIssueRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.IssueStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue := r.find(id)
	if issue == nil {
		return ErrNotFound
	}
	issue.Status = status
	return nil
}

func (r *InMemoryIssueRepository) IncrementSpam(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue := r.find(id)
	if issue == nil {
		return 0, ErrNotFound
	}
	issue.SpamCount++
	return issue.SpamCount, nil
}

func (r *InMemoryIssueRepository) EscalateBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, issue := range r.issues {
		if issue.Escalated || issue.Status == models.Resolved {
			continue
		}
		if issue.CreatedAt.After(cutoff) {
			continue
		}
		issue.Escalated = true
		count++
	}
	return count, nil
}

// find returns the stored record itself; callers hold the lock.
func (r *InMemoryIssueRepository) find(id primitive.ObjectID) *models.Issue {
	for _, issue := range r.issues {
		if issue.ID == id {
			return issue
		}
	}
	return nil
}

// collect copies matching issues newest-first, mirroring the Mongo sort.
func (r *InMemoryIssueRepository) collect(match func(*models.Issue) bool) []models.Issue {
	out := make([]models.Issue, 0, len(r.issues))
	for idx := len(r.issues) - 1; idx >= 0; idx-- {
		if match(r.issues[idx]) {
			out = append(out, *r.issues[idx])
		}
	}
	return out
}
