package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertProcessedJob = `-- name: InsertProcessedJob :execrows
INSERT INTO processed_jobs (job_id, handler, processed_at)
VALUES ($1, $2, $3)
ON CONFLICT (job_id, handler) DO NOTHING
`

func (q *Queries) InsertProcessedJob(ctx context.Context, db DBTX, jobID, handler string, at pgtype.Timestamptz) (int64, error) {
	result, err := db.Exec(ctx, insertProcessedJob, jobID, handler, at)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
