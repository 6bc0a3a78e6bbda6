package repository

import (
	"context"
	"errors"
	"time"

	"civicwatch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no issue with the given id exists.
var ErrNotFound = errors.New("issue not found")

// IssueRepository is the persistence contract for issues. Handlers receive an
// implementation instead of reaching for a shared database handle, so tests can
// swap in the in-memory version.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	ListAll(ctx context.Context) ([]models.Issue, error)
	ListPublic(ctx context.Context, spamThreshold int64) ([]models.Issue, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus) error
	IncrementSpam(ctx context.Context, id primitive.ObjectID) (int64, error)
	EscalateBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// MongoIssueRepository stores issues in a MongoDB collection.
type MongoIssueRepository struct {
	coll *mongo.Collection
}

func NewMongoIssueRepository(coll *mongo.Collection) *MongoIssueRepository {
	return &MongoIssueRepository{coll: coll}
}

func (r *MongoIssueRepository) Create(ctx context.Context, issue *models.Issue) (primitive.ObjectID, error) {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, issue); err != nil {
		return primitive.NilObjectID, err
	}
	return issue.ID, nil
}

func (r *MongoIssueRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

func (r *MongoIssueRepository) ListAll(ctx context.Context) ([]models.Issue, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoIssueRepository) ListPublic(ctx context.Context, spamThreshold int64) ([]models.Issue, error) {
	return r.list(ctx, bson.M{"spamCount": bson.M{"$lt": spamThreshold}})
}

func (r *MongoIssueRepository) list(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *MongoIssueRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.IssueStatus) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementSpam bumps spamCount by one in a single server-side operation, so
// concurrent flags never lose increments. Returns the post-increment count.
func (r *MongoIssueRepository) IncrementSpam(ctx context.Context, id primitive.ObjectID) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue models.Issue
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"spamCount": 1}},
		opts,
	).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return issue.SpamCount, nil
}

// EscalateBefore latches escalated=true on every unresolved, not-yet-escalated
// issue created at or before cutoff. Returns how many records changed.
func (r *MongoIssueRepository) EscalateBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"createdAt": bson.M{"$lte": cutoff},
		"status":    bson.M{"$ne": models.Resolved},
		"escalated": false,
	}

	result, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"escalated": true}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
