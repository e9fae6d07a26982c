package kafka

import (
	"context"
	"fmt"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// StockReplenishedHandler applies warehouse restocks: atomic stock top-up
// plus product-cache invalidation so catalog reads see the new figure.
type StockReplenishedHandler struct {
	Catalog usecase.CatalogRepo
	Cache   usecase.ProductCache // optional
}

func NewStockReplenishedHandler(catalog usecase.CatalogRepo, cache usecase.ProductCache) *StockReplenishedHandler {
	return &StockReplenishedHandler{Catalog: catalog, Cache: cache}
}

func (h *StockReplenishedHandler) Handle(ctx context.Context, ev usecase.StockReplenishedMsg) error {
	if ev.Quantity <= 0 {
		// poison message; nothing to retry
		return nil
	}
	if err := h.Catalog.AddStock(ctx, ev.ProductID, ev.Quantity); err != nil {
		return fmt.Errorf("add stock %s: %w", ev.ProductID, err)
	}
	if h.Cache != nil {
		_ = h.Cache.Invalidate(ctx, ev.ProductID)
	}
	return nil
}
