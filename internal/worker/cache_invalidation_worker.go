package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/cache"
	"github.com/spec-kit/employee-directory/internal/events"
)

// StartCacheInvalidationWorker subscribes the page cache to every directory
// mutation event. A failed invalidation is returned to the publisher; cached
// pages then age out through their TTL.
func StartCacheInvalidationWorker(dispatcher events.Dispatcher, pages cache.PageCache, logger *zap.Logger) {
	if dispatcher == nil || pages == nil {
		return
	}
	handler := func(ctx context.Context, event events.Event) error {
		if err := pages.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate directory pages after %s: %w", event.Type, err)
		}
		logger.Debug("directory pages invalidated",
			zap.String("event", string(event.Type)),
			zap.String("employee_id", event.EmployeeID),
		)
		return nil
	}
	dispatcher.Subscribe(events.EventEmployeeCreated, handler)
	dispatcher.Subscribe(events.EventEmployeeUpdated, handler)
	dispatcher.Subscribe(events.EventEmployeeDeleted, handler)
}
