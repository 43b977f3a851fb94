package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabboard/models"
)

func TestBuildTaskQueryEmptyFilter(t *testing.T) {
	query := BuildTaskQuery(TaskFilter{})

	assert.Empty(t, query, "unset filters impose no constraint")
}

func TestBuildTaskQuerySingleFilters(t *testing.T) {
	query := BuildTaskQuery(TaskFilter{Status: models.StatusDone})
	assert.Equal(t, bson.M{"status": models.StatusDone}, query)

	teamID := primitive.NewObjectID()
	query = BuildTaskQuery(TaskFilter{TeamID: &teamID})
	assert.Equal(t, bson.M{"teamId": teamID}, query)
}

func TestBuildTaskQueryCombinesWithAnd(t *testing.T) {
	teamID := primitive.NewObjectID()
	assignee := primitive.NewObjectID()

	query := BuildTaskQuery(TaskFilter{
		Status:     models.StatusInProgress,
		Priority:   models.PriorityHigh,
		TeamID:     &teamID,
		AssignedTo: &assignee,
	})

	// Top-level keys of a bson document are implicitly ANDed.
	assert.Len(t, query, 4)
	assert.Equal(t, models.StatusInProgress, query["status"])
	assert.Equal(t, models.PriorityHigh, query["priority"])
	assert.Equal(t, teamID, query["teamId"])
	assert.Equal(t, assignee, query["assignedTo"])
}

func TestBuildTaskQuerySearchMatchesTitleOrDescription(t *testing.T) {
	query := BuildTaskQuery(TaskFilter{Search: "foo"})

	or, ok := query["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	title := or[0].(bson.M)["title"].(primitive.Regex)
	description := or[1].(bson.M)["description"].(primitive.Regex)

	assert.Equal(t, "foo", title.Pattern)
	assert.Equal(t, "i", title.Options, "search is case-insensitive")
	assert.Equal(t, "foo", description.Pattern)
	assert.Equal(t, "i", description.Options)
}

func TestBuildTaskQuerySearchQuotesMetacharacters(t *testing.T) {
	query := BuildTaskQuery(TaskFilter{Search: "a.b*"})

	or := query["$or"].(bson.A)
	title := or[0].(bson.M)["title"].(primitive.Regex)

	assert.Equal(t, `a\.b\*`, title.Pattern)
}

func TestFormatTaskStatsOmitsZeroStatuses(t *testing.T) {
	stats := FormatTaskStats([]StatusCount{
		{Status: models.StatusTodo, Count: 2},
		{Status: models.StatusDone, Count: 1},
		{Status: models.StatusReview, Count: 1},
	})

	assert.Equal(t, map[models.TaskStatus]int{
		models.StatusTodo:   2,
		models.StatusDone:   1,
		models.StatusReview: 1,
	}, stats)

	_, present := stats[models.StatusInProgress]
	assert.False(t, present, "statuses without tasks are absent, not zero")
}

func TestFormatTaskStatsEmpty(t *testing.T) {
	assert.Empty(t, FormatTaskStats(nil))
}
