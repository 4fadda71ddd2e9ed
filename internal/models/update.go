package models

// CollectionUpdate carries a partial update of a collection's own fields.
// Nil pointers mean "keep the stored value". Items are never touched here.
type CollectionUpdate struct {
	Name        *string
	Description *string
	Category    *string
	ImageURL    *string
	FieldDefs   *[]FieldDef
}

// ItemUpdate carries a partial update of an embedded item. Likes, comments,
// id and creation time are always carried forward by the store.
type ItemUpdate struct {
	Name         *string
	ImageURL     *string
	CustomFields *FieldValues
}
