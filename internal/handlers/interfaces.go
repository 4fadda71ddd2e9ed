package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/nkoncar/collecto-api/internal/oauth"
	"github.com/nkoncar/collecto-api/internal/services"
)

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	ListAll(ctx context.Context) ([]models.Collection, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error)
	Create(ctx context.Context, ownerID uuid.UUID, upd models.CollectionUpdate) (*models.Collection, error)
	Update(ctx context.Context, id uuid.UUID, actor models.Actor, upd models.CollectionUpdate) (*models.Collection, error)
	Delete(ctx context.Context, id uuid.UUID, actor models.Actor) error
	AddItem(ctx context.Context, id uuid.UUID, actor models.Actor, item models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, id, itemID uuid.UUID, actor models.Actor, upd models.ItemUpdate) (*models.Item, error)
	RemoveItem(ctx context.Context, id, itemID uuid.UUID, actor models.Actor) error
	ToggleLike(ctx context.Context, id, itemID, userID uuid.UUID) ([]uuid.UUID, error)
	AddComment(ctx context.Context, id, itemID, userID uuid.UUID, text string) (*models.Comment, error)
}

// RankingServiceInterface defines the methods used by handlers from RankingService
type RankingServiceInterface interface {
	RecentItems(ctx context.Context, limit int) ([]services.RecentItem, error)
	TopCollections(ctx context.Context, limit int) ([]services.TopCollection, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}
