package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nkoncar/collecto-api/internal/middleware"
	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/nkoncar/collecto-api/internal/services"
	"github.com/nkoncar/collecto-api/pkg/dto"
)

var validate = validator.New()

type CollectionHandler struct {
	collectionService CollectionServiceInterface
}

func NewCollectionHandler(collectionService CollectionServiceInterface) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func (h *CollectionHandler) List(c *drift.Context) {
	collections, err := h.collectionService.ListAll(context.Background())
	if err != nil {
		c.InternalServerError("failed to get collections")
		return
	}
	_ = c.JSON(200, collections)
}

func (h *CollectionHandler) ListByOwner(c *drift.Context) {
	ownerID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	collections, err := h.collectionService.ListByOwner(context.Background(), ownerID)
	if err != nil {
		c.InternalServerError("failed to get collections")
		return
	}
	_ = c.JSON(200, collections)
}

func (h *CollectionHandler) Get(c *drift.Context) {
	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	collection, err := h.collectionService.Get(context.Background(), collectionID)
	if err != nil {
		respondError(c, err, "failed to get collection")
		return
	}
	_ = c.JSON(200, collection)
}

func (h *CollectionHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	defs := dto.FieldDefs(req.FieldDefs)
	collection, err := h.collectionService.Create(context.Background(), userID, models.CollectionUpdate{
		Name:        &req.Name,
		Description: &req.Description,
		Category:    &req.Category,
		ImageURL:    req.ImageURL,
		FieldDefs:   &defs,
	})
	if err != nil {
		c.InternalServerError("failed to create collection")
		return
	}
	_ = c.JSON(201, collection)
}

func (h *CollectionHandler) Update(c *drift.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	var req dto.UpdateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	upd := models.CollectionUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if req.FieldDefs != nil {
		defs := dto.FieldDefs(*req.FieldDefs)
		upd.FieldDefs = &defs
	}

	collection, err := h.collectionService.Update(context.Background(), collectionID, actor, upd)
	if err != nil {
		respondError(c, err, "failed to update collection")
		return
	}
	_ = c.JSON(200, collection)
}

func (h *CollectionHandler) Delete(c *drift.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	if err := h.collectionService.Delete(context.Background(), collectionID, actor); err != nil {
		respondError(c, err, "failed to delete collection")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "collection deleted"})
}

func (h *CollectionHandler) AddItem(c *drift.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return
	}

	var req dto.AddItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	item, err := h.collectionService.AddItem(context.Background(), collectionID, actor, models.Item{
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		respondError(c, err, "failed to add item")
		return
	}
	_ = c.JSON(201, item)
}

func (h *CollectionHandler) UpdateItem(c *drift.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	collectionID, itemID, ok := itemParams(c)
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	item, err := h.collectionService.UpdateItem(context.Background(), collectionID, itemID, actor, models.ItemUpdate{
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		respondError(c, err, "failed to update item")
		return
	}
	_ = c.JSON(200, item)
}

func (h *CollectionHandler) RemoveItem(c *drift.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	collectionID, itemID, ok := itemParams(c)
	if !ok {
		return
	}

	if err := h.collectionService.RemoveItem(context.Background(), collectionID, itemID, actor); err != nil {
		respondError(c, err, "failed to remove item")
		return
	}
	_ = c.JSON(200, map[string]string{"message": "item removed"})
}

func (h *CollectionHandler) ToggleLike(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	collectionID, itemID, ok := itemParams(c)
	if !ok {
		return
	}

	likes, err := h.collectionService.ToggleLike(context.Background(), collectionID, itemID, userID)
	if err != nil {
		respondError(c, err, "failed to toggle like")
		return
	}
	_ = c.JSON(200, map[string]any{"likes": likes})
}

func (h *CollectionHandler) AddComment(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	collectionID, itemID, ok := itemParams(c)
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	comment, err := h.collectionService.AddComment(context.Background(), collectionID, itemID, userID, req.Text)
	if err != nil {
		respondError(c, err, "failed to add comment")
		return
	}
	_ = c.JSON(201, comment)
}

func requireActor(c *drift.Context) (models.Actor, bool) {
	actor := middleware.GetActor(c)
	if actor.ID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return models.Actor{}, false
	}
	return actor, true
}

func itemParams(c *drift.Context) (collectionID, itemID uuid.UUID, ok bool) {
	collectionID, err := uuid.Parse(c.Param("collectionId"))
	if err != nil {
		c.BadRequest("invalid collection id")
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err = uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.BadRequest("invalid item id")
		return uuid.Nil, uuid.Nil, false
	}
	return collectionID, itemID, true
}

func respondError(c *drift.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden("you do not own this collection")
	default:
		c.InternalServerError(fallback)
	}
}
