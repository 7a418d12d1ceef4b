package logging

import (
	"time"

	"go.uber.org/zap"
)

// PoolObserver implements pool.Observer, logging every Acquire's wait
// latency and observed backlog depth to a dedicated log stream -- the
// rpc_conn / query_conn categories in the original BuzzBlog loggers.
type PoolObserver struct {
	logger        *zap.Logger
	localService  string
	remoteName    string // remote service name, or database/redis bucket name
}

func NewPoolObserver(logger *zap.Logger, localService, remoteName string) *PoolObserver {
	return &PoolObserver{logger: logger, localService: localService, remoteName: remoteName}
}

func (o *PoolObserver) ObserveAcquire(backlogDepth int, wait time.Duration) {
	o.logger.Info("acquire",
		zap.String("ls", o.localService),
		zap.String("rs", o.remoteName),
		zap.Int("bl", backlogDepth),
		zap.Duration("lat", wait),
	)
}
