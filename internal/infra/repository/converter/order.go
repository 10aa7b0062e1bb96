package converter

import (
	"order-fulfillment/internal/domain/money"
	"order-fulfillment/internal/domain/order"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/errs"
	"order-fulfillment/internal/pkg/pgconv"
)

func OrderToRow(o *order.Order) sqlc.Orders {
	return sqlc.Orders{
		ID:                     o.ID(),
		UserID:                 o.UserID(),
		IdempotencyKey:         o.IdempotencyKey(),
		Status:                 string(o.Status()),
		TotalMinor:             o.Total().Minor(),
		Currency:               o.Currency(),
		PaymentMethod:          o.PaymentMethod(),
		PaymentID:              pgconv.StringPtrToPgtype(o.PaymentID()),
		FailureReason:          pgconv.OptionalStringToPgtype(string(o.FailureReason())),
		PaymentRounds:          pgconv.IntToInt32(o.PaymentRounds()),
		CompensationIncomplete: o.CompensationIncomplete(),
		CreatedAt:              pgconv.TimeToPgtype(o.CreatedAt()),
		UpdatedAt:              pgconv.TimeToPgtype(o.UpdatedAt()),
		ProcessingStartedAt:    pgconv.TimePtrToPgtype(o.ProcessingStartedAt()),
		CompletedAt:            pgconv.TimePtrToPgtype(o.CompletedAt()),
	}
}

func OrderItemsToRows(o *order.Order) []sqlc.OrderItems {
	items := o.Items()
	rows := make([]sqlc.OrderItems, 0, len(items))
	for i, it := range items {
		rows = append(rows, sqlc.OrderItems{
			OrderID:        o.ID(),
			LineNo:         pgconv.IntToInt32(i + 1),
			ProductID:      it.ProductID(),
			Location:       it.Location(),
			Quantity:       pgconv.IntToInt32(it.Quantity()),
			UnitPriceMinor: it.UnitPrice().Minor(),
		})
	}
	return rows
}

func OrderToUpdateParams(o *order.Order, expected order.Status) sqlc.UpdateOrderGuardedParams {
	row := OrderToRow(o)
	return sqlc.UpdateOrderGuardedParams{
		ID:                     row.ID,
		Status:                 row.Status,
		PaymentID:              row.PaymentID,
		FailureReason:          row.FailureReason,
		PaymentRounds:          row.PaymentRounds,
		CompensationIncomplete: row.CompensationIncomplete,
		UpdatedAt:              row.UpdatedAt,
		ProcessingStartedAt:    row.ProcessingStartedAt,
		CompletedAt:            row.CompletedAt,
		ExpectedStatus:         string(expected),
	}
}

func OrderToDomain(row sqlc.Orders, itemRows []sqlc.OrderItems) (*order.Order, error) {
	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "order %s", row.ID)
	}

	items := make([]order.Item, 0, len(itemRows))
	for _, r := range itemRows {
		it, err := order.NewItem(r.ProductID, r.Location, int(r.Quantity), money.FromMinor(r.UnitPriceMinor, row.Currency))
		if err != nil {
			return nil, errs.Wrapf(err, "order %s line %d", row.ID, r.LineNo)
		}
		items = append(items, it)
	}

	var reason order.FailureReason
	if row.FailureReason.Valid {
		reason = order.FailureReason(row.FailureReason.String)
	}

	return order.Reconstruct(order.ReconstructParams{
		ID:                     row.ID,
		UserID:                 row.UserID,
		IdempotencyKey:         row.IdempotencyKey,
		Status:                 status,
		Items:                  items,
		Total:                  money.FromMinor(row.TotalMinor, row.Currency),
		PaymentMethod:          row.PaymentMethod,
		PaymentID:              pgconv.StringPtrFromPgtype(row.PaymentID),
		FailureReason:          reason,
		PaymentRounds:          int(row.PaymentRounds),
		CompensationIncomplete: row.CompensationIncomplete,
		CreatedAt:              pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:              pgconv.TimeFromPgtype(row.UpdatedAt),
		ProcessingStartedAt:    pgconv.TimePtrFromPgtype(row.ProcessingStartedAt),
		CompletedAt:            pgconv.TimePtrFromPgtype(row.CompletedAt),
	}), nil
}
