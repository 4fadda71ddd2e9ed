package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nkoncar/collecto-api/internal/database"
	"github.com/nkoncar/collecto-api/internal/models"
)

var (
	ErrNotFound     = errors.New("collection not found")
	ErrItemNotFound = errors.New("item not found")

	// ErrConcurrentUpdate is returned when a mutation keeps losing the
	// version race against other writers on the same aggregate.
	ErrConcurrentUpdate = errors.New("concurrent update: too many version conflicts")
)

const casAttempts = 5

// collectionDoc is the JSONB shape of the aggregate's doc column.
type collectionDoc struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	ImageURL    *string            `json:"image_url,omitempty"`
	FieldDefs   []models.FieldDef  `json:"custom_field_defs"`
	Items       []models.Item      `json:"items"`
}

func (d *collectionDoc) normalize() {
	if d.FieldDefs == nil {
		d.FieldDefs = []models.FieldDef{}
	}
	if d.Items == nil {
		d.Items = []models.Item{}
	}
	for i := range d.Items {
		if d.Items[i].Likes == nil {
			d.Items[i].Likes = []uuid.UUID{}
		}
		if d.Items[i].Comments == nil {
			d.Items[i].Comments = []models.Comment{}
		}
		if d.Items[i].CustomFields == nil {
			d.Items[i].CustomFields = models.FieldValues{}
		}
	}
}

// CollectionStore persists collection aggregates as single JSONB documents.
// Every mutation is a read-modify-write guarded by a version CAS, so writes
// to the same aggregate are atomic with respect to each other and a failed
// write leaves the row exactly as it was.
type CollectionStore struct {
	db *database.DB
}

func NewCollectionStore(db *database.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

func (s *CollectionStore) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	col, _, err := s.get(ctx, id)
	return col, err
}

func (s *CollectionStore) get(ctx context.Context, id uuid.UUID) (*models.Collection, *collectionDoc, error) {
	var (
		ownerID              uuid.UUID
		raw                  json.RawMessage
		version              int
		createdAt, updatedAt time.Time
	)
	err := s.db.Pool.QueryRow(ctx, `
		SELECT owner_id, doc, version, created_at, updated_at
		FROM collections WHERE id = $1
	`, id).Scan(&ownerID, &raw, &version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to load collection: %w", err)
	}

	var doc collectionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode collection document: %w", err)
	}
	doc.normalize()

	return assemble(id, ownerID, &doc, version, createdAt, updatedAt), &doc, nil
}

func (s *CollectionStore) List(ctx context.Context) ([]models.Collection, error) {
	return s.list(ctx, `
		SELECT id, owner_id, doc, version, created_at, updated_at
		FROM collections ORDER BY created_at DESC, id
	`)
}

func (s *CollectionStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	return s.list(ctx, `
		SELECT id, owner_id, doc, version, created_at, updated_at
		FROM collections WHERE owner_id = $1 ORDER BY created_at DESC, id
	`, ownerID)
}

func (s *CollectionStore) list(ctx context.Context, query string, args ...any) ([]models.Collection, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []models.Collection
	for rows.Next() {
		var (
			id, ownerID          uuid.UUID
			raw                  json.RawMessage
			version              int
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &ownerID, &raw, &version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		var doc collectionDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode collection document: %w", err)
		}
		doc.normalize()
		collections = append(collections, *assemble(id, ownerID, &doc, version, createdAt, updatedAt))
	}
	return collections, rows.Err()
}

// Create stores a new aggregate with an empty item list. The id is assigned
// by the database.
func (s *CollectionStore) Create(ctx context.Context, ownerID uuid.UUID, upd models.CollectionUpdate) (*models.Collection, error) {
	doc := collectionDoc{}
	applyCollectionUpdate(&doc, upd)
	doc.normalize()

	raw, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection document: %w", err)
	}

	var (
		id                   uuid.UUID
		version              int
		createdAt, updatedAt time.Time
	)
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (owner_id, doc)
		VALUES ($1, $2)
		RETURNING id, version, created_at, updated_at
	`, ownerID, raw).Scan(&id, &version, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return assemble(id, ownerID, &doc, version, createdAt, updatedAt), nil
}

func (s *CollectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceFields merges the supplied top-level fields into the aggregate.
// Fields left nil keep their stored value; items are untouched.
func (s *CollectionStore) ReplaceFields(ctx context.Context, id uuid.UUID, upd models.CollectionUpdate) (*models.Collection, error) {
	return s.mutate(ctx, id, func(doc *collectionDoc) error {
		applyCollectionUpdate(doc, upd)
		return nil
	})
}

// AppendItem appends item to the aggregate's item list, assigning its id and
// creation time. Likes and comments start empty regardless of the input.
func (s *CollectionStore) AppendItem(ctx context.Context, id uuid.UUID, item models.Item) (*models.Item, error) {
	var stored models.Item
	_, err := s.mutate(ctx, id, func(doc *collectionDoc) error {
		item.ID = uuid.New()
		item.CreatedAt = time.Now().UTC()
		item.Likes = []uuid.UUID{}
		item.Comments = []models.Comment{}
		if item.CustomFields == nil {
			item.CustomFields = models.FieldValues{}
		}
		doc.Items = append(doc.Items, item)
		stored = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ReplaceItem merges upd over the embedded item in place, preserving the
// item's position, id, creation time, likes and comments.
func (s *CollectionStore) ReplaceItem(ctx context.Context, id, itemID uuid.UUID, upd models.ItemUpdate) (*models.Item, error) {
	var stored models.Item
	_, err := s.mutate(ctx, id, func(doc *collectionDoc) error {
		idx := indexOf(doc.Items, itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		existing := &doc.Items[idx]
		if upd.Name != nil {
			existing.Name = *upd.Name
		}
		if upd.ImageURL != nil {
			existing.ImageURL = upd.ImageURL
		}
		if upd.CustomFields != nil {
			existing.CustomFields = *upd.CustomFields
		}
		stored = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *CollectionStore) RemoveItem(ctx context.Context, id, itemID uuid.UUID) error {
	_, err := s.mutate(ctx, id, func(doc *collectionDoc) error {
		idx := indexOf(doc.Items, itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		doc.Items = append(doc.Items[:idx], doc.Items[idx+1:]...)
		return nil
	})
	return err
}

// ToggleItemLike flips userID's presence in the item's likes set and returns
// the resulting set. The toggle is computed inside the CAS attempt, so two
// concurrent toggles each observe a consistent prior set.
func (s *CollectionStore) ToggleItemLike(ctx context.Context, id, itemID, userID uuid.UUID) ([]uuid.UUID, error) {
	var result []uuid.UUID
	_, err := s.mutate(ctx, id, func(doc *collectionDoc) error {
		idx := indexOf(doc.Items, itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		item := &doc.Items[idx]
		likes := make([]uuid.UUID, 0, len(item.Likes)+1)
		found := false
		for _, uid := range item.Likes {
			if uid == userID {
				found = true
				continue
			}
			likes = append(likes, uid)
		}
		if !found {
			likes = append(likes, userID)
		}
		item.Likes = likes
		result = likes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AppendComment appends a comment to the item, assigning its id and creation
// time. Comments are append-only; there is no edit or delete.
func (s *CollectionStore) AppendComment(ctx context.Context, id, itemID, userID uuid.UUID, text string) (*models.Comment, error) {
	var stored models.Comment
	_, err := s.mutate(ctx, id, func(doc *collectionDoc) error {
		idx := indexOf(doc.Items, itemID)
		if idx < 0 {
			return ErrItemNotFound
		}
		comment := models.Comment{
			ID:        uuid.New(),
			UserID:    userID,
			Text:      text,
			CreatedAt: time.Now().UTC(),
		}
		doc.Items[idx].Comments = append(doc.Items[idx].Comments, comment)
		stored = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// mutate runs apply against a fresh read of the aggregate and writes the
// result back guarded by the version read. A lost race rereads and retries;
// apply must therefore be side-effect free until the write sticks.
func (s *CollectionStore) mutate(ctx context.Context, id uuid.UUID, apply func(doc *collectionDoc) error) (*models.Collection, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		col, doc, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := apply(doc); err != nil {
			return nil, err
		}

		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode collection document: %w", err)
		}

		var updatedAt time.Time
		err = s.db.Pool.QueryRow(ctx, `
			UPDATE collections
			SET doc = $1, version = version + 1, updated_at = NOW()
			WHERE id = $2 AND version = $3
			RETURNING updated_at
		`, raw, id, col.Version).Scan(&updatedAt)
		if err == nil {
			return assemble(id, col.OwnerID, doc, col.Version+1, col.CreatedAt, updatedAt), nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to update collection: %w", err)
		}
		// Version moved under us, or the row is gone. Loop rereads and
		// reports ErrNotFound in the latter case.
	}
	return nil, ErrConcurrentUpdate
}

func applyCollectionUpdate(doc *collectionDoc, upd models.CollectionUpdate) {
	if upd.Name != nil {
		doc.Name = *upd.Name
	}
	if upd.Description != nil {
		doc.Description = *upd.Description
	}
	if upd.Category != nil {
		doc.Category = *upd.Category
	}
	if upd.ImageURL != nil {
		doc.ImageURL = upd.ImageURL
	}
	if upd.FieldDefs != nil {
		doc.FieldDefs = *upd.FieldDefs
	}
}

func indexOf(items []models.Item, itemID uuid.UUID) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func assemble(id, ownerID uuid.UUID, doc *collectionDoc, version int, createdAt, updatedAt time.Time) *models.Collection {
	return &models.Collection{
		ID:          id,
		OwnerID:     ownerID,
		Name:        doc.Name,
		Description: doc.Description,
		Category:    doc.Category,
		ImageURL:    doc.ImageURL,
		FieldDefs:   doc.FieldDefs,
		Items:       doc.Items,
		Version:     version,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}
