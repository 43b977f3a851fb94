package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collabboard/models"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	res, err := s.tasks.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	task.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) FindTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

// FindTasks returns the tasks matching the filter in the collection's
// natural order. No pagination.
func (s *Store) FindTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	cursor, err := s.tasks.Find(ctx, BuildTaskQuery(filter))
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTaskByID applies the patch fields and returns the updated document.
func (s *Store) UpdateTaskByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.Task, error) {
	patch["updatedAt"] = time.Now()

	var task models.Task
	err := s.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Store) DeleteTaskByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

// CountTasksByStatus groups tasks by status, optionally restricted to one
// team. Statuses with no tasks do not appear in the result.
func (s *Store) CountTasksByStatus(ctx context.Context, teamID *primitive.ObjectID) (map[models.TaskStatus]int, error) {
	match := bson.M{}
	if teamID != nil {
		match["teamId"] = *teamID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var counts []StatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return FormatTaskStats(counts), nil
}
