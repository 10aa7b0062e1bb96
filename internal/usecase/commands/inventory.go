package commands

import (
	"context"

	"order-fulfillment/internal/domain/inventory"
	reqdto "order-fulfillment/internal/handler/dto/request"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/usecase/ledger"
	"order-fulfillment/internal/usecase/queries"

	"github.com/google/uuid"
)

var ErrMovementDirection = errs.NewClassed("movement type does not allow this direction", errs.ClassValidation)

//go:generate mockgen -source=inventory.go -destination=../../../tests/mock/commands/inventory.go -package=commandsmock
type InventoryCommands interface {
	RecordMovement(ctx context.Context, inventoryID uuid.UUID, req reqdto.StockMovementRequest) (*queries.StockMovementView, error)
}

type inventoryCommandsImpl struct {
	ledger ledger.Ledger
}

func NewInventoryCommands(l ledger.Ledger) InventoryCommands {
	return &inventoryCommandsImpl{ledger: l}
}

// RecordMovement applies a signed stock change. Restocks only add; damage and
// sales only remove; adjustments go either way.
func (u *inventoryCommandsImpl) RecordMovement(ctx context.Context, inventoryID uuid.UUID, req reqdto.StockMovementRequest) (*queries.StockMovementView, error) {
	mt, err := inventory.ParseMovementType(req.MovementType)
	if err != nil {
		return nil, err
	}
	if req.Quantity == 0 {
		return nil, inventory.ErrInvalidQuantity
	}
	switch {
	case mt == inventory.MovementRestock && req.Quantity < 0,
		(mt == inventory.MovementDamage || mt == inventory.MovementSale) && req.Quantity > 0:
		return nil, errs.Wrapf(ErrMovementDirection, "%s with quantity %d", mt, req.Quantity)
	}

	adj := ledger.StockAdjustment{
		InventoryID:  inventoryID,
		MovementType: string(mt),
		Quantity:     req.Quantity,
		Reason:       req.Reason,
	}
	var m *inventory.StockMovement
	if req.Quantity > 0 {
		m, err = u.ledger.AddStock(ctx, adj)
	} else {
		adj.Quantity = -req.Quantity
		m, err = u.ledger.RemoveStock(ctx, adj)
	}
	if err != nil {
		return nil, err
	}
	return queries.NewStockMovementView(m), nil
}
