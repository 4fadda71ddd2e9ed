package handlers

import (
	"context"
	"strconv"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nkoncar/collecto-api/internal/services"
)

type RankingHandler struct {
	rankingService RankingServiceInterface
}

func NewRankingHandler(rankingService RankingServiceInterface) *RankingHandler {
	return &RankingHandler{rankingService: rankingService}
}

func (h *RankingHandler) RecentItems(c *drift.Context) {
	items, err := h.rankingService.RecentItems(context.Background(), rankingLimit(c))
	if err != nil {
		c.InternalServerError("failed to get recent items")
		return
	}
	if len(items) == 0 {
		_ = c.JSON(204, nil)
		return
	}
	_ = c.JSON(200, items)
}

func (h *RankingHandler) TopCollections(c *drift.Context) {
	collections, err := h.rankingService.TopCollections(context.Background(), rankingLimit(c))
	if err != nil {
		c.InternalServerError("failed to get top collections")
		return
	}
	if len(collections) == 0 {
		_ = c.JSON(204, nil)
		return
	}
	_ = c.JSON(200, collections)
}

func rankingLimit(c *drift.Context) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return services.DefaultRankingLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return services.DefaultRankingLimit
	}
	return limit
}
