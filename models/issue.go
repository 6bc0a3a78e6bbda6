package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Road        IssueCategory = "Road"
	Water       IssueCategory = "Water"
	Sanitation  IssueCategory = "Sanitation"
	Electricity IssueCategory = "Electricity"
	Other       IssueCategory = "Other"
)

// Categories lists every accepted report category.
func Categories() []IssueCategory {
	return []IssueCategory{Road, Water, Sanitation, Electricity, Other}
}

// ValidCategory reports whether s is one of the accepted categories.
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Road, Water, Sanitation, Electricity, Other:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Reported   IssueStatus = "Reported"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

// ValidStatus reports whether s names a known status.
func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case Reported, InProgress, Resolved:
		return true
	}
	return false
}

// statusTransitions maps each status to the statuses an admin may move it to.
// Resolved is terminal.
var statusTransitions = map[IssueStatus][]IssueStatus{
	Reported:   {InProgress, Resolved},
	InProgress: {Reported, Resolved},
	Resolved:   {},
}

// CanTransition reports whether an issue in status from may be moved to to.
func CanTransition(from, to IssueStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PublicSpamThreshold is the spam count at which an issue drops off the public map.
const PublicSpamThreshold = 3

// EscalationAge is how long an issue may stay unresolved before the sweep
// marks it escalated.
const EscalationAge = 7 * 24 * time.Hour

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    IssueCategory      `bson:"category" json:"category"`
	Lat         float64            `bson:"lat" json:"lat"`
	Lng         float64            `bson:"lng" json:"lng"`
	Images      string             `bson:"images" json:"-"`
	Status      IssueStatus        `bson:"status" json:"status"`
	SpamCount   int64              `bson:"spamCount" json:"spamCount"`
	Escalated   bool               `bson:"escalated" json:"escalated"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ImageList splits the comma-joined image field into storage keys.
func (i *Issue) ImageList() []string {
	if i.Images == "" {
		return []string{}
	}
	return strings.Split(i.Images, ",")
}

// JoinImages packs storage keys into the comma-joined form stored on the record.
func JoinImages(keys []string) string {
	return strings.Join(keys, ",")
}
