package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports.go -package=commandsmock
type OrderScheduler interface {
	Schedule(ctx context.Context, orderID uuid.UUID, round int, delay time.Duration) error
}
