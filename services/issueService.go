package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"civicwatch/models"
	"civicwatch/observability"
	"civicwatch/repository"
	"civicwatch/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrInvalidLocation means lat or lng did not parse as a real number.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrInvalidCategory means the submitted category is not in the accepted set.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidStatus means the requested status names no known state.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrBadTransition means the requested status change is not allowed from
	// the issue's current state.
	ErrBadTransition = errors.New("status transition not allowed")
	// ErrNotFound mirrors the repository sentinel for handler convenience.
	ErrNotFound = repository.ErrNotFound
)

// SubmitReportInput carries the raw form submission. Lat and Lng stay strings
// here; parsing them is part of the service's validation contract.
type SubmitReportInput struct {
	Title       string
	Description string
	Category    string
	Lat         string
	Lng         string
	Images      []*multipart.FileHeader
}

// IssueService validates submissions and coordinates the media store and the
// issue repository.
type IssueService struct {
	repo   repository.IssueRepository
	media  *storage.MediaStore
	logger *zap.Logger
}

func NewIssueService(repo repository.IssueRepository, media *storage.MediaStore, logger *zap.Logger) *IssueService {
	return &IssueService{repo: repo, media: media, logger: logger}
}

// SubmitReport validates the form, saves uploaded images, and persists the
// issue. Images are written before the insert; a failed image save aborts the
// submission so no record ever references a missing file.
func (s *IssueService) SubmitReport(ctx context.Context, input SubmitReportInput) (primitive.ObjectID, error) {
	lat, err := strconv.ParseFloat(input.Lat, 64)
	if err != nil {
		observability.ReportsRejected.WithLabelValues("location").Inc()
		return primitive.NilObjectID, ErrInvalidLocation
	}
	lng, err := strconv.ParseFloat(input.Lng, 64)
	if err != nil {
		observability.ReportsRejected.WithLabelValues("location").Inc()
		return primitive.NilObjectID, ErrInvalidLocation
	}

	if !models.ValidCategory(input.Category) {
		observability.ReportsRejected.WithLabelValues("category").Inc()
		return primitive.NilObjectID, ErrInvalidCategory
	}

	keys := make([]string, 0, len(input.Images))
	for _, file := range input.Images {
		if file == nil || file.Filename == "" {
			continue
		}
		key, err := s.media.Save(file)
		if err != nil {
			observability.ReportsRejected.WithLabelValues("media").Inc()
			return primitive.NilObjectID, fmt.Errorf("save image: %w", err)
		}
		keys = append(keys, key)
	}

	issue := models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		Lat:         lat,
		Lng:         lng,
		Images:      models.JoinImages(keys),
		Status:      models.Reported,
		SpamCount:   0,
		Escalated:   false,
		CreatedAt:   time.Now(),
	}

	id, err := s.repo.Create(ctx, &issue)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("create issue: %w", err)
	}

	observability.IssuesCreated.WithLabelValues(input.Category).Inc()
	s.logger.Info("issue created",
		zap.String("id", id.Hex()),
		zap.String("category", input.Category),
		zap.Int("images", len(keys)),
	)
	return id, nil
}

// ListPublicIssues returns issues still below the spam threshold, newest first.
func (s *IssueService) ListPublicIssues(ctx context.Context) ([]models.Issue, error) {
	return s.repo.ListPublic(ctx, models.PublicSpamThreshold)
}

// ListAllIssues returns every issue regardless of spam count.
func (s *IssueService) ListAllIssues(ctx context.Context) ([]models.Issue, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus moves an issue to a new status, enforcing the transition table.
func (s *IssueService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}
	next := models.IssueStatus(status)

	issue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !models.CanTransition(issue.Status, next) {
		return ErrBadTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return err
	}
	s.logger.Info("issue status updated",
		zap.String("id", id.Hex()),
		zap.String("from", string(issue.Status)),
		zap.String("to", status),
	)
	return nil
}

// FlagSpam atomically increments the spam counter and returns the new count.
// Once the count reaches the public threshold the issue drops off the map but
// stays visible to admins.
func (s *IssueService) FlagSpam(ctx context.Context, id primitive.ObjectID) (int64, error) {
	count, err := s.repo.IncrementSpam(ctx, id)
	if err != nil {
		return 0, err
	}
	observability.SpamFlags.Inc()
	s.logger.Info("spam flagged", zap.String("id", id.Hex()), zap.Int64("count", count))
	return count, nil
}

// RunEscalationSweep latches escalated=true on every unresolved issue older
// than the escalation age. Idempotent per record: escalated issues are
// excluded by the filter, so a second sweep with the same now affects nothing.
func (s *IssueService) RunEscalationSweep(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-models.EscalationAge)
	count, err := s.repo.EscalateBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		observability.IssuesEscalated.Add(float64(count))
	}
	s.logger.Info("escalation sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int64("escalated", count),
	)
	return count, nil
}
