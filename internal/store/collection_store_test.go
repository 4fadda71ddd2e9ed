package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nkoncar/collecto-api/internal/database"
	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCollectionStore(t *testing.T) (*CollectionStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewCollectionStore(db), mock
}

func docJSON(t *testing.T, doc collectionDoc) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(&doc)
	require.NoError(t, err)
	return raw
}

func expectGet(mock pgxmock.PgxPoolIface, id, ownerID uuid.UUID, raw json.RawMessage, version int, now time.Time) {
	rows := pgxmock.NewRows([]string{
		"owner_id", "doc", "version", "created_at", "updated_at",
	}).AddRow(ownerID, raw, version, now, now)

	mock.ExpectQuery(`SELECT owner_id, doc, version, created_at, updated_at`).
		WithArgs(id).
		WillReturnRows(rows)
}

func TestCollectionStore_Get(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	raw := docJSON(t, collectionDoc{Name: "Vinyl", Category: "music"})
	expectGet(mock, id, ownerID, raw, 3, now)

	col, err := store.Get(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, id, col.ID)
	assert.Equal(t, ownerID, col.OwnerID)
	assert.Equal(t, "Vinyl", col.Name)
	assert.Equal(t, 3, col.Version)
	assert.NotNil(t, col.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_Get_NotFound(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectQuery(`SELECT owner_id, doc, version, created_at, updated_at`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Get(ctx, id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_List(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "doc", "version", "created_at", "updated_at",
	}).
		AddRow(uuid.New(), uuid.New(), docJSON(t, collectionDoc{Name: "Stamps"}), 1, now, now).
		AddRow(uuid.New(), uuid.New(), docJSON(t, collectionDoc{Name: "Coins"}), 2, now, now)

	mock.ExpectQuery(`SELECT id, owner_id, doc, version, created_at, updated_at`).
		WillReturnRows(rows)

	collections, err := store.List(ctx)

	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, "Stamps", collections[0].Name)
	assert.Equal(t, "Coins", collections[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_Create(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	ownerID := uuid.New()
	id := uuid.New()
	name := "Vinyl"
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "version", "created_at", "updated_at",
	}).AddRow(id, 1, now, now)

	mock.ExpectQuery(`INSERT INTO collections`).
		WithArgs(ownerID, pgxmock.AnyArg()).
		WillReturnRows(rows)

	col, err := store.Create(ctx, ownerID, models.CollectionUpdate{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, id, col.ID)
	assert.Equal(t, name, col.Name)
	assert.Equal(t, 1, col.Version)
	assert.Empty(t, col.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_Delete_NotFound(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM collections WHERE id`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.Delete(ctx, id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_ReplaceFields(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()
	newName := "Renamed"

	raw := docJSON(t, collectionDoc{Name: "Vinyl", Description: "records"})
	expectGet(mock, id, ownerID, raw, 1, now)

	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 1).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	col, err := store.ReplaceFields(ctx, id, models.CollectionUpdate{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, newName, col.Name)
	assert.Equal(t, "records", col.Description)
	assert.Equal(t, 2, col.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_ReplaceFields_RetriesOnVersionRace(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()
	newName := "Renamed"

	raw := docJSON(t, collectionDoc{Name: "Vinyl"})

	// First attempt loses the version race.
	expectGet(mock, id, ownerID, raw, 1, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 1).
		WillReturnError(pgx.ErrNoRows)

	// Second attempt sees the bumped version and succeeds.
	expectGet(mock, id, ownerID, raw, 2, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 2).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	col, err := store.ReplaceFields(ctx, id, models.CollectionUpdate{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, 3, col.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_ReplaceFields_GivesUpAfterRepeatedRaces(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()
	newName := "Renamed"

	raw := docJSON(t, collectionDoc{Name: "Vinyl"})
	for i := 0; i < casAttempts; i++ {
		expectGet(mock, id, ownerID, raw, i+1, now)
		mock.ExpectQuery(`UPDATE collections`).
			WithArgs(pgxmock.AnyArg(), id, i+1).
			WillReturnError(pgx.ErrNoRows)
	}

	_, err := store.ReplaceFields(ctx, id, models.CollectionUpdate{Name: &newName})

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_AppendItem(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	raw := docJSON(t, collectionDoc{Name: "Vinyl"})
	expectGet(mock, id, ownerID, raw, 1, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 1).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	item, err := store.AppendItem(ctx, id, models.Item{Name: "Abbey Road"})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, "Abbey Road", item.Name)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Empty(t, item.Likes)
	assert.Empty(t, item.Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_ReplaceItem_PreservesLikesAndComments(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	itemID := uuid.New()
	likerID := uuid.New()
	now := time.Now()
	newName := "Revolver"

	raw := docJSON(t, collectionDoc{
		Name: "Vinyl",
		Items: []models.Item{{
			ID:        itemID,
			Name:      "Abbey Road",
			CreatedAt: now,
			Likes:     []uuid.UUID{likerID},
			Comments:  []models.Comment{{ID: uuid.New(), UserID: likerID, Text: "classic", CreatedAt: now}},
		}},
	})
	expectGet(mock, id, ownerID, raw, 1, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 1).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	item, err := store.ReplaceItem(ctx, id, itemID, models.ItemUpdate{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, itemID, item.ID)
	assert.Equal(t, newName, item.Name)
	assert.Equal(t, []uuid.UUID{likerID}, item.Likes)
	assert.Len(t, item.Comments, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_ReplaceItem_ItemNotFound(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()
	newName := "Revolver"

	raw := docJSON(t, collectionDoc{Name: "Vinyl"})
	expectGet(mock, id, ownerID, raw, 1, now)

	_, err := store.ReplaceItem(ctx, id, uuid.New(), models.ItemUpdate{Name: &newName})

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_RemoveItem(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	raw := docJSON(t, collectionDoc{
		Name:  "Vinyl",
		Items: []models.Item{{ID: itemID, Name: "Abbey Road", CreatedAt: now}},
	})
	expectGet(mock, id, ownerID, raw, 1, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 1).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	err := store.RemoveItem(ctx, id, itemID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_ToggleItemLike(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	itemID := uuid.New()
	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now()

	// First toggle adds the like.
	raw := docJSON(t, collectionDoc{
		Name:  "Vinyl",
		Items: []models.Item{{ID: itemID, Name: "Abbey Road", CreatedAt: now, Likes: []uuid.UUID{otherID}}},
	})
	expectGet(mock, id, ownerID, raw, 1, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 1).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	likes, err := store.ToggleItemLike(ctx, id, itemID, userID)

	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{otherID, userID}, likes)

	// Second toggle removes it again.
	raw = docJSON(t, collectionDoc{
		Name:  "Vinyl",
		Items: []models.Item{{ID: itemID, Name: "Abbey Road", CreatedAt: now, Likes: likes}},
	})
	expectGet(mock, id, ownerID, raw, 2, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 2).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	likes, err = store.ToggleItemLike(ctx, id, itemID, userID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{otherID}, likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_AppendComment(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()
	ownerID := uuid.New()
	itemID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	raw := docJSON(t, collectionDoc{
		Name:  "Vinyl",
		Items: []models.Item{{ID: itemID, Name: "Abbey Road", CreatedAt: now}},
	})
	expectGet(mock, id, ownerID, raw, 1, now)
	mock.ExpectQuery(`UPDATE collections`).
		WithArgs(pgxmock.AnyArg(), id, 1).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	comment, err := store.AppendComment(ctx, id, itemID, userID, "classic")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, comment.ID)
	assert.Equal(t, userID, comment.UserID)
	assert.Equal(t, "classic", comment.Text)
	assert.False(t, comment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionStore_AppendComment_CollectionNotFound(t *testing.T) {
	store, mock := setupCollectionStore(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectQuery(`SELECT owner_id, doc, version, created_at, updated_at`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.AppendComment(ctx, id, uuid.New(), uuid.New(), "classic")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
