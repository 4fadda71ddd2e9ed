package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGuard_CanMutate(t *testing.T) {
	ownerID := uuid.New()
	collection := &models.Collection{ID: uuid.New(), OwnerID: ownerID}
	var guard Guard

	assert.True(t, guard.CanMutate(collection, models.Actor{ID: ownerID, Role: models.RoleUser}))
	assert.False(t, guard.CanMutate(collection, models.Actor{ID: uuid.New(), Role: models.RoleUser}))
	assert.True(t, guard.CanMutate(collection, models.Actor{ID: uuid.New(), Role: models.RoleAdmin}))
	assert.True(t, guard.CanMutate(collection, models.Actor{ID: ownerID, Role: models.RoleAdmin}))
}
