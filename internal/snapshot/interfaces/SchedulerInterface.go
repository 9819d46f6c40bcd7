package interfaces

import "context"

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
	Refresh(ctx context.Context) error
	Close()
}
