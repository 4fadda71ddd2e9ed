package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nkoncar/collecto-api/internal/database"
	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/nkoncar/collecto-api/internal/oauth"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("user%d@example.com", f.counter),
		Name:       fmt.Sprintf("Test User %d", f.counter),
		Provider:   "google",
		ProviderID: fmt.Sprintf("provider-%d", f.counter),
		Role:       models.RoleUser,
		IsActive:   true,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID, user.Role, user.IsActive).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// AsAdmin gives the user the admin role
func AsAdmin() UserOption {
	return func(u *models.User) {
		u.Role = models.RoleAdmin
	}
}

// Blocked marks the user as inactive
func Blocked() UserOption {
	return func(u *models.User) {
		u.IsActive = false
	}
}

// collectionDoc mirrors the JSONB document layout of the collections table.
type collectionDoc struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	ImageURL    *string           `json:"image_url,omitempty"`
	FieldDefs   []models.FieldDef `json:"custom_field_defs"`
	Items       []models.Item     `json:"items"`
}

// CreateCollection creates a test collection owned by the given user
func (f *Fixtures) CreateCollection(t *testing.T, owner *models.User, opts ...CollectionOption) *models.Collection {
	t.Helper()
	f.counter++

	col := &models.Collection{
		OwnerID:   owner.ID,
		Name:      fmt.Sprintf("Test Collection %d", f.counter),
		Category:  "misc",
		FieldDefs: []models.FieldDef{},
		Items:     []models.Item{},
	}

	for _, opt := range opts {
		opt(col)
	}

	doc := collectionDoc{
		Name:        col.Name,
		Description: col.Description,
		Category:    col.Category,
		ImageURL:    col.ImageURL,
		FieldDefs:   col.FieldDefs,
		Items:       col.Items,
	}
	raw, err := json.Marshal(&doc)
	if err != nil {
		t.Fatalf("failed to encode collection doc: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (owner_id, doc)
		VALUES ($1, $2)
		RETURNING id, version, created_at, updated_at
	`, col.OwnerID, raw).Scan(&col.ID, &col.Version, &col.CreatedAt, &col.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}

	return col
}

// CollectionOption configures a test collection
type CollectionOption func(*models.Collection)

// WithCollectionName sets the collection name
func WithCollectionName(name string) CollectionOption {
	return func(c *models.Collection) {
		c.Name = name
	}
}

// WithCategory sets the collection category
func WithCategory(category string) CollectionOption {
	return func(c *models.Collection) {
		c.Category = category
	}
}

// WithFieldDefs sets the collection's custom field definitions
func WithFieldDefs(defs ...models.FieldDef) CollectionOption {
	return func(c *models.Collection) {
		c.FieldDefs = defs
	}
}

// WithItems seeds the collection with pre-built items
func WithItems(items ...models.Item) CollectionOption {
	return func(c *models.Collection) {
		for i := range items {
			if items[i].ID == uuid.Nil {
				items[i].ID = uuid.New()
			}
			if items[i].CreatedAt.IsZero() {
				items[i].CreatedAt = time.Now().UTC()
			}
			if items[i].Likes == nil {
				items[i].Likes = []uuid.UUID{}
			}
			if items[i].Comments == nil {
				items[i].Comments = []models.Comment{}
			}
			if items[i].CustomFields == nil {
				items[i].CustomFields = models.FieldValues{}
			}
		}
		c.Items = items
	}
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  "google",
	}
}
