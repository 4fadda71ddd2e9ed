package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValues_UnmarshalJSON_PairForm(t *testing.T) {
	var fv FieldValues
	err := json.Unmarshal([]byte(`[{"name":"artist","value":"The Beatles"},{"name":"year","value":1969}]`), &fv)

	require.NoError(t, err)
	require.Len(t, fv, 2)
	assert.Equal(t, "artist", fv[0].Name)
	assert.Equal(t, "The Beatles", fv[0].Value)
	assert.Equal(t, "year", fv[1].Name)
}

func TestFieldValues_UnmarshalJSON_ObjectForm(t *testing.T) {
	var fv FieldValues
	err := json.Unmarshal([]byte(`{"artist":"The Beatles","year":1969,"mint":true}`), &fv)

	require.NoError(t, err)
	require.Len(t, fv, 3)
	// Object keys are normalized to pairs in document order.
	assert.Equal(t, "artist", fv[0].Name)
	assert.Equal(t, "year", fv[1].Name)
	assert.Equal(t, "mint", fv[2].Name)
	assert.Equal(t, json.Number("1969"), fv[1].Value)
	assert.Equal(t, true, fv[2].Value)
}

func TestFieldValues_UnmarshalJSON_Null(t *testing.T) {
	var fv FieldValues
	err := json.Unmarshal([]byte(`null`), &fv)

	require.NoError(t, err)
	assert.Nil(t, fv)
}

func TestFieldValues_UnmarshalJSON_RejectsScalar(t *testing.T) {
	var fv FieldValues
	err := json.Unmarshal([]byte(`"not an object"`), &fv)

	assert.Error(t, err)
}

func TestFieldValues_RoundTrip(t *testing.T) {
	fv := FieldValues{
		{Name: "artist", Value: "The Beatles"},
		{Name: "year", Value: 1969},
	}

	raw, err := json.Marshal(fv)
	require.NoError(t, err)

	var got FieldValues
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "artist", got[0].Name)
	assert.Equal(t, "year", got[1].Name)
}

func TestItem_HasLike(t *testing.T) {
	userID := uuid.New()
	item := Item{Likes: []uuid.UUID{uuid.New(), userID}}

	assert.True(t, item.HasLike(userID))
	assert.False(t, item.HasLike(uuid.New()))
}

func TestCollection_ItemByID(t *testing.T) {
	itemID := uuid.New()
	col := Collection{Items: []Item{{ID: uuid.New()}, {ID: itemID}}}

	assert.Equal(t, 1, col.ItemByID(itemID))
	assert.Equal(t, -1, col.ItemByID(uuid.New()))
}
