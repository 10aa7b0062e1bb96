package converter

import (
	"order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/pgconv"
)

func OutboxToRow(e *outbox.Entry) sqlc.OutboxEntries {
	return sqlc.OutboxEntries{
		ID:            e.ID,
		AggregateType: string(e.AggregateType),
		AggregateID:   e.AggregateID,
		EventType:     e.EventType,
		Payload:       e.Payload,
		Status:        string(e.Status),
		Attempts:      pgconv.IntToInt32(e.Attempts),
		LastError:     pgconv.StringPtrToPgtype(e.LastError),
		AvailableAt:   pgconv.TimeToPgtype(e.AvailableAt),
		ClaimedAt:     pgconv.TimePtrToPgtype(e.ClaimedAt),
		CreatedAt:     pgconv.TimeToPgtype(e.CreatedAt),
		ProcessedAt:   pgconv.TimePtrToPgtype(e.ProcessedAt),
	}
}

func OutboxToDomain(row sqlc.OutboxEntries) *outbox.Entry {
	return &outbox.Entry{
		ID:            row.ID,
		AggregateType: outbox.AggregateType(row.AggregateType),
		AggregateID:   row.AggregateID,
		EventType:     row.EventType,
		Payload:       row.Payload,
		Status:        outbox.Status(row.Status),
		Attempts:      int(row.Attempts),
		LastError:     pgconv.StringPtrFromPgtype(row.LastError),
		AvailableAt:   pgconv.TimeFromPgtype(row.AvailableAt),
		ClaimedAt:     pgconv.TimePtrFromPgtype(row.ClaimedAt),
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		ProcessedAt:   pgconv.TimePtrFromPgtype(row.ProcessedAt),
	}
}

func OutboxListToDomain(rows []sqlc.OutboxEntries) []*outbox.Entry {
	out := make([]*outbox.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, OutboxToDomain(row))
	}
	return out
}
