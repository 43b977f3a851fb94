// Package authz holds the ownership rules for teams and tasks. The
// predicates are pure functions over already-loaded entities; callers
// resolve the entity first and handle not-found before checking them, so a
// failed check always maps to 403 rather than 404.
package authz

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collabboard/models"
)

// CanReadTeam reports whether the actor may read the team. Membership is
// the only criterion; createdBy gets no special treatment.
func CanReadTeam(actorID primitive.ObjectID, team *models.Team) bool {
	return team.HasMember(actorID)
}

// CanMutateTeam reports whether the actor may update or delete the team.
// Only the creator can, team members included in the refusal.
func CanMutateTeam(actorID primitive.ObjectID, team *models.Team) bool {
	return actorID == team.CreatedBy
}

// CanAddMember is the same rule as CanMutateTeam: adding members is
// owner-only, there is no delegated invite capability.
func CanAddMember(actorID primitive.ObjectID, team *models.Team) bool {
	return CanMutateTeam(actorID, team)
}

// Tasks intentionally have no predicates here: any authenticated actor may
// read, update or delete any task regardless of team membership.
