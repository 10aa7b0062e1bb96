package repository

import (
	"context"
	"time"

	"order-fulfillment/internal/infra"
	"order-fulfillment/internal/infra/sqlc"
	"order-fulfillment/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type ProcessedJobQueries interface {
	InsertProcessedJob(ctx context.Context, db sqlc.DBTX, jobID, handler string, at pgtype.Timestamptz) (int64, error)
}

type ProcessedJobRepository struct {
	queries ProcessedJobQueries
	db      sqlc.DBTX
}

func NewProcessedJobRepository(queries ProcessedJobQueries, db sqlc.DBTX) *ProcessedJobRepository {
	return &ProcessedJobRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ProcessedJobRepository) MarkProcessed(ctx context.Context, jobID, handler string, at time.Time) (bool, error) {
	affected, err := r.queries.InsertProcessedJob(ctx, r.db, jobID, handler, pgconv.TimeToPgtype(at))
	if err != nil {
		return false, infra.WrapRepoErr("failed to record processed job", err)
	}
	return affected > 0, nil
}
