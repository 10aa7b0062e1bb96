package memstore

import (
	"context"
	"sort"
	"time"

	"order-fulfillment/internal/domain/outbox"
	"order-fulfillment/internal/infra"

	"github.com/google/uuid"
)

type outboxRepo struct{ st *state }

func (r outboxRepo) Append(_ context.Context, e *outbox.Entry) error {
	if _, ok := r.st.outbox[e.ID]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "outbox entry already exists")
	}
	r.st.outbox[e.ID] = *e.Clone()
	return nil
}

func (r outboxRepo) FindByID(_ context.Context, id uuid.UUID) (*outbox.Entry, error) {
	e, ok := r.st.outbox[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "outbox entry not found")
	}
	return e.Clone(), nil
}

func (r outboxRepo) ClaimBatch(_ context.Context, limit int, now, staleBefore time.Time) ([]*outbox.Entry, error) {
	var claimable []*outbox.Entry
	for _, e := range r.st.outbox {
		if e.Claimable(now, staleBefore) {
			claimable = append(claimable, e.Clone())
		}
	}
	sort.Slice(claimable, func(i, j int) bool {
		if claimable[i].CreatedAt.Equal(claimable[j].CreatedAt) {
			return claimable[i].ID.String() < claimable[j].ID.String()
		}
		return claimable[i].CreatedAt.Before(claimable[j].CreatedAt)
	})
	if limit > 0 && len(claimable) > limit {
		claimable = claimable[:limit]
	}
	for _, e := range claimable {
		e.Claim(now)
		r.st.outbox[e.ID] = *e.Clone()
	}
	return claimable, nil
}

func (r outboxRepo) MarkProcessed(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.mutateClaimed(id, func(e *outbox.Entry) { e.MarkProcessed(at) })
}

func (r outboxRepo) MarkRetry(_ context.Context, id uuid.UUID, attempts int, lastErr string, availableAt time.Time) error {
	return r.mutateClaimed(id, func(e *outbox.Entry) { e.MarkRetry(attempts, lastErr, availableAt) })
}

func (r outboxRepo) MarkFailed(_ context.Context, id uuid.UUID, attempts int, lastErr string) error {
	return r.mutateClaimed(id, func(e *outbox.Entry) { e.MarkFailed(attempts, lastErr) })
}

func (r outboxRepo) ListByAggregate(_ context.Context, aggregateType outbox.AggregateType, aggregateID string) ([]*outbox.Entry, error) {
	var out []*outbox.Entry
	for _, e := range r.st.outbox {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r outboxRepo) mutateClaimed(id uuid.UUID, fn func(*outbox.Entry)) error {
	e, ok := r.st.outbox[id]
	if !ok || e.Status != outbox.StatusProcessing {
		return infra.NewRepoErr(infra.KindConflict, "outbox entry is no longer claimed")
	}
	c := e.Clone()
	fn(c)
	r.st.outbox[id] = *c
	return nil
}
