package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team represents an owned group of members. The creator is always part of
// the members list.
type Team struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// NormalizeMembers returns the members list with the creator appended when
// the supplied list omits it. Order of the supplied ids is preserved.
func NormalizeMembers(members []primitive.ObjectID, createdBy primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(members)+1)
	out = append(out, members...)
	for _, id := range out {
		if id == createdBy {
			return out
		}
	}
	return append(out, createdBy)
}

// HasMember reports whether the given user id is in the members list.
func (t *Team) HasMember(userID primitive.ObjectID) bool {
	for _, id := range t.Members {
		if id == userID {
			return true
		}
	}
	return false
}
