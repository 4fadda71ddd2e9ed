package dto

import (
	"github.com/nkoncar/collecto-api/internal/models"
)

type FieldDefPayload struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=string integer text boolean date"`
}

type CreateCollectionRequest struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	ImageURL    *string           `json:"image_url,omitempty"`
	FieldDefs   []FieldDefPayload `json:"custom_field_defs" validate:"dive"`
}

type UpdateCollectionRequest struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Category    *string            `json:"category,omitempty"`
	ImageURL    *string            `json:"image_url,omitempty"`
	FieldDefs   *[]FieldDefPayload `json:"custom_field_defs,omitempty" validate:"omitempty,dive"`
}

type AddItemRequest struct {
	Name         string             `json:"name" validate:"required"`
	ImageURL     *string            `json:"image_url,omitempty"`
	CustomFields models.FieldValues `json:"custom_fields"`
}

type UpdateItemRequest struct {
	Name         *string             `json:"name,omitempty"`
	ImageURL     *string             `json:"image_url,omitempty"`
	CustomFields *models.FieldValues `json:"custom_fields,omitempty"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

func FieldDefs(payload []FieldDefPayload) []models.FieldDef {
	defs := make([]models.FieldDef, len(payload))
	for i, p := range payload {
		defs[i] = models.FieldDef{Name: p.Name, Type: p.Type}
	}
	return defs
}
