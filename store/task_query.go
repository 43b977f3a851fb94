package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabboard/models"
)

// TaskFilter carries the recognized optional task list filters. Zero-valued
// fields impose no constraint.
type TaskFilter struct {
	Status     models.TaskStatus
	Priority   models.TaskPriority
	TeamID     *primitive.ObjectID
	AssignedTo *primitive.ObjectID
	Search     string
}

// BuildTaskQuery translates the filter into a bson query. Set fields are
// exact-match clauses combined with AND; Search is a case-insensitive
// substring match against title or description, with regex metacharacters
// quoted so they match literally.
func BuildTaskQuery(filter TaskFilter) bson.M {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.TeamID != nil {
		query["teamId"] = *filter.TeamID
	}
	if filter.AssignedTo != nil {
		query["assignedTo"] = *filter.AssignedTo
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	return query
}

// StatusCount is one bucket of the status aggregation.
type StatusCount struct {
	Status models.TaskStatus `bson:"_id"`
	Count  int               `bson:"count"`
}

// FormatTaskStats flattens aggregation buckets into a status-to-count map.
// Statuses with zero tasks are absent, not present with value 0.
func FormatTaskStats(counts []StatusCount) map[models.TaskStatus]int {
	stats := make(map[models.TaskStatus]int, len(counts))
	for _, c := range counts {
		stats[c.Status] = c.Count
	}
	return stats
}
