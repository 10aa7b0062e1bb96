package queries

import (
	"context"
	"strings"
	"time"

	"order-fulfillment/internal/domain/inventory"
	"order-fulfillment/internal/usecase/ledger"
	"order-fulfillment/internal/usecase/shared"

	"github.com/google/uuid"
)

type StockView struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	Location       string
	PhysicalStock  int
	ReservedStock  int
	AvailableStock int
	MinimumStock   int
	ReorderPoint   int
	UpdatedAt      time.Time
}

type StockListView struct {
	Items []*StockView
	Page  int
	Limit int
	Total int
}

type StockMovementView struct {
	ID                     uuid.UUID
	InventoryID            uuid.UUID
	MovementType           string
	QuantityDelta          int
	Reason                 string
	ResultingPhysicalStock int
	CreatedAt              time.Time
}

func NewStockView(rec *inventory.Record) *StockView {
	return &StockView{
		ID:             rec.ID(),
		ProductID:      rec.ProductID(),
		Location:       rec.Location(),
		PhysicalStock:  rec.PhysicalStock(),
		ReservedStock:  rec.ReservedStock(),
		AvailableStock: rec.AvailableStock(),
		MinimumStock:   rec.MinimumStock(),
		ReorderPoint:   rec.ReorderPoint(),
		UpdatedAt:      rec.UpdatedAt(),
	}
}

func NewStockMovementView(m *inventory.StockMovement) *StockMovementView {
	return &StockMovementView{
		ID:                     m.ID,
		InventoryID:            m.InventoryID,
		MovementType:           string(m.MovementType),
		QuantityDelta:          m.QuantityDelta,
		Reason:                 m.Reason,
		ResultingPhysicalStock: m.ResultingPhysicalStock,
		CreatedAt:              m.CreatedAt,
	}
}

type StockFilters struct {
	Location string
	Page     int
	Limit    int
}

//go:generate mockgen -source=inventory.go -destination=../../../tests/mock/queries/inventory.go -package=queriesmock
type StockQueries interface {
	ListLowStock(ctx context.Context, f StockFilters) (*StockListView, error)
	ListOutOfStock(ctx context.Context, f StockFilters) (*StockListView, error)
}

type stockQueriesImpl struct {
	ledger ledger.Ledger
}

func NewStockQueries(l ledger.Ledger) StockQueries {
	return &stockQueriesImpl{ledger: l}
}

func (q *stockQueriesImpl) ListLowStock(ctx context.Context, f StockFilters) (*StockListView, error) {
	return q.list(ctx, f, q.ledger.ListLowStock)
}

func (q *stockQueriesImpl) ListOutOfStock(ctx context.Context, f StockFilters) (*StockListView, error) {
	return q.list(ctx, f, q.ledger.ListOutOfStock)
}

func (q *stockQueriesImpl) list(ctx context.Context, f StockFilters, fetch func(context.Context, shared.StockFilter) (*ledger.StockPage, error)) (*StockListView, error) {
	page := ValidatePage(f.Page)
	limit := ValidateLimit(f.Limit)
	filter := shared.StockFilter{Limit: limit, Offset: offset(page, limit)}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		filter.Location = &loc
	}

	res, err := fetch(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &StockListView{Items: make([]*StockView, 0, len(res.Records)), Page: page, Limit: limit, Total: res.Total}
	for _, rec := range res.Records {
		out.Items = append(out.Items, NewStockView(rec))
	}
	return out, nil
}
