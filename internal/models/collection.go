package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Custom field types a collection can declare for its items. The types are
// advisory: item values are never validated against them at write time.
const (
	FieldTypeString  = "string"
	FieldTypeInteger = "integer"
	FieldTypeText    = "text"
	FieldTypeBoolean = "boolean"
	FieldTypeDate    = "date"
)

type FieldDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type FieldValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// FieldValues is the canonical representation of an item's custom field
// values: an ordered sequence of name/value pairs. Clients historically sent
// either this pair form or a plain JSON object, so UnmarshalJSON accepts
// both and normalizes to pairs, preserving the object's key order.
type FieldValues []FieldValue

func (fv *FieldValues) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*fv = nil
		return nil
	}

	if trimmed[0] == '[' {
		type pair FieldValue
		var pairs []pair
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return err
		}
		out := make(FieldValues, len(pairs))
		for i, p := range pairs {
			out[i] = FieldValue(p)
		}
		*fv = out
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("custom field values must be an object or an array of name/value pairs")
	}

	var out FieldValues
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid custom field name")
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, FieldValue{Name: key, Value: value})
	}
	*fv = out
	return nil
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is embedded in exactly one collection. The store assigns ID and
// CreatedAt on insertion; CreatedAt is never mutated afterwards.
type Item struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	ImageURL     *string     `json:"image_url,omitempty"`
	CustomFields FieldValues `json:"custom_fields"`
	CreatedAt    time.Time   `json:"created_at"`
	Likes        []uuid.UUID `json:"likes"`
	Comments     []Comment   `json:"comments"`
}

// HasLike reports whether userID is present in the item's likes set.
func (i *Item) HasLike(userID uuid.UUID) bool {
	for _, id := range i.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Collection is the aggregate root: the collection and every item, like and
// comment embedded in it are stored and mutated as one unit.
type Collection struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	ImageURL    *string    `json:"image_url,omitempty"`
	FieldDefs   []FieldDef `json:"custom_field_defs"`
	Items       []Item     `json:"items"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ItemByID locates an embedded item. Returns the index, or -1 when absent.
func (c *Collection) ItemByID(itemID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}
