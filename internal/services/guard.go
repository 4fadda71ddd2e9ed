package services

import (
	"github.com/nkoncar/collecto-api/internal/models"
)

// Guard is the single authorization predicate for collection mutations.
// Likes and comments bypass it: they only need an authenticated actor.
type Guard struct{}

// CanMutate reports whether actor may mutate the collection: true for the
// collection's owner and for admins.
func (Guard) CanMutate(collection *models.Collection, actor models.Actor) bool {
	return collection.OwnerID == actor.ID || actor.IsAdmin()
}
