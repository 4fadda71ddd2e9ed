package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/nkoncar/collecto-api/internal/store"
)

// CollectionStore is the aggregate persistence contract the service needs.
// *store.CollectionStore implements it; tests substitute a mock.
type CollectionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	List(ctx context.Context) ([]models.Collection, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error)
	Create(ctx context.Context, ownerID uuid.UUID, upd models.CollectionUpdate) (*models.Collection, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceFields(ctx context.Context, id uuid.UUID, upd models.CollectionUpdate) (*models.Collection, error)
	AppendItem(ctx context.Context, id uuid.UUID, item models.Item) (*models.Item, error)
	ReplaceItem(ctx context.Context, id, itemID uuid.UUID, upd models.ItemUpdate) (*models.Item, error)
	RemoveItem(ctx context.Context, id, itemID uuid.UUID) error
	ToggleItemLike(ctx context.Context, id, itemID, userID uuid.UUID) ([]uuid.UUID, error)
	AppendComment(ctx context.Context, id, itemID, userID uuid.UUID, text string) (*models.Comment, error)
}

// Notifier receives the freshly stored item after a successful AddItem.
// Implementations must not block; delivery is best-effort.
type Notifier interface {
	NewItem(item models.Item, collectionName string)
}

type CollectionService struct {
	store    CollectionStore
	guard    Guard
	notifier Notifier
}

func NewCollectionService(store CollectionStore, notifier Notifier) *CollectionService {
	return &CollectionService{store: store, notifier: notifier}
}

func (s *CollectionService) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	collection, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return collection, nil
}

func (s *CollectionService) ListAll(ctx context.Context) ([]models.Collection, error) {
	return s.store.List(ctx)
}

func (s *CollectionService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *CollectionService) Create(ctx context.Context, ownerID uuid.UUID, upd models.CollectionUpdate) (*models.Collection, error) {
	return s.store.Create(ctx, ownerID, upd)
}

func (s *CollectionService) Update(ctx context.Context, id uuid.UUID, actor models.Actor, upd models.CollectionUpdate) (*models.Collection, error) {
	if _, err := s.authorize(ctx, id, actor); err != nil {
		return nil, err
	}
	collection, err := s.store.ReplaceFields(ctx, id, upd)
	if err != nil {
		return nil, translate(err)
	}
	return collection, nil
}

func (s *CollectionService) Delete(ctx context.Context, id uuid.UUID, actor models.Actor) error {
	if _, err := s.authorize(ctx, id, actor); err != nil {
		return err
	}
	return translate(s.store.Delete(ctx, id))
}

// AddItem stores the item and, once the write has committed, hands it to the
// notifier together with the collection's name. The hand-off never fails the
// call.
func (s *CollectionService) AddItem(ctx context.Context, id uuid.UUID, actor models.Actor, item models.Item) (*models.Item, error) {
	collection, err := s.authorize(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.AppendItem(ctx, id, item)
	if err != nil {
		return nil, translate(err)
	}
	s.notifier.NewItem(*stored, collection.Name)
	return stored, nil
}

func (s *CollectionService) UpdateItem(ctx context.Context, id, itemID uuid.UUID, actor models.Actor, upd models.ItemUpdate) (*models.Item, error) {
	collection, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if collection.ItemByID(itemID) < 0 {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}
	if !s.guard.CanMutate(collection, actor) {
		return nil, ErrForbidden
	}
	item, err := s.store.ReplaceItem(ctx, id, itemID, upd)
	if err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (s *CollectionService) RemoveItem(ctx context.Context, id, itemID uuid.UUID, actor models.Actor) error {
	if _, err := s.authorize(ctx, id, actor); err != nil {
		return err
	}
	return translate(s.store.RemoveItem(ctx, id, itemID))
}

// ToggleLike flips userID's like on the item and returns the resulting set.
// Any authenticated user may call it; there is no ownership check.
func (s *CollectionService) ToggleLike(ctx context.Context, id, itemID, userID uuid.UUID) ([]uuid.UUID, error) {
	likes, err := s.store.ToggleItemLike(ctx, id, itemID, userID)
	if err != nil {
		return nil, translate(err)
	}
	return likes, nil
}

// AddComment appends a comment on behalf of userID and returns it. Any
// authenticated user may call it.
func (s *CollectionService) AddComment(ctx context.Context, id, itemID, userID uuid.UUID, text string) (*models.Comment, error) {
	comment, err := s.store.AppendComment(ctx, id, itemID, userID, text)
	if err != nil {
		return nil, translate(err)
	}
	return comment, nil
}

// authorize resolves the collection and applies the guard. Existence is
// checked first so a missing aggregate reports NotFound, never Forbidden.
func (s *CollectionService) authorize(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Collection, error) {
	collection, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if !s.guard.CanMutate(collection, actor) {
		return nil, ErrForbidden
	}
	return collection, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: collection", ErrNotFound)
	case errors.Is(err, store.ErrItemNotFound):
		return fmt.Errorf("%w: item", ErrNotFound)
	default:
		return err
	}
}
