package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collabboard/models"
)

func (s *Store) CreateTeam(ctx context.Context, team *models.Team) error {
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	res, err := s.teams.InsertOne(ctx, team)
	if err != nil {
		return err
	}
	team.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) FindTeamByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	if err := s.teams.FindOne(ctx, bson.M{"_id": id}).Decode(&team); err != nil {
		return nil, err
	}
	return &team, nil
}

// FindTeamsByMember returns every team the user belongs to, in the
// collection's natural order.
func (s *Store) FindTeamsByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error) {
	cursor, err := s.teams.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, err
	}
	teams := []models.Team{}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// UpdateTeamByID applies the patch fields and returns the updated document.
func (s *Store) UpdateTeamByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.Team, error) {
	patch["updatedAt"] = time.Now()

	var team models.Team
	err := s.teams.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *Store) DeleteTeamByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.teams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

// PushTeamMember appends the user to the members array as a single-document
// update and returns the updated team. Concurrent pushes on the same team
// are last-write-wins at the document level.
func (s *Store) PushTeamMember(ctx context.Context, teamID, userID primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := s.teams.FindOneAndUpdate(ctx,
		bson.M{"_id": teamID},
		bson.M{
			"$push": bson.M{"members": userID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}
