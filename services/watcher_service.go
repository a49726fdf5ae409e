package services

import (
	"context"
	"fmt"
	"inventory_server/database"
	"inventory_server/lib"
	"inventory_server/structs"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"go.mongodb.org/mongo-driver/bson"
)

type WatcherState string

const (
	WatcherDisabled     WatcherState = "disabled"
	WatcherStarting     WatcherState = "starting"
	WatcherRunning      WatcherState = "running"
	WatcherReconnecting WatcherState = "reconnecting"
	WatcherStopped      WatcherState = "stopped"
	WatcherFailed       WatcherState = "failed"
)

type WatcherStatus struct {
	State       WatcherState `json:"state"`
	Namespace   string       `json:"namespace,omitempty"`
	Restarts    int          `json:"restarts"`
	EventsSeen  int64        `json:"events_seen"`
	LastEventAt *time.Time   `json:"last_event_at,omitempty"`
	LastError   string       `json:"last_error,omitempty"`
}

// Healthy reports whether the watcher is doing (or trying to do) its job.
func (s WatcherStatus) Healthy() bool {
	return s.State != WatcherFailed && s.State != WatcherStopped
}

// WatcherService tails the products collection change feed and logs every
// event. A failed or closed stream is reopened from the last checkpoint after
// an exponential backoff; it never takes the HTTP side down with it.
type WatcherService struct {
	logger      *gecho.Logger
	feed        database.ChangeFeed
	checkpoints CheckpointStore
	cfg         *structs.WatcherConfig
	metrics     *lib.Metrics

	mu     sync.RWMutex
	status WatcherStatus
	done   chan struct{}
}

// NewWatcherService returns a watcher for feed. A nil feed yields a disabled
// watcher whose Start is a no-op.
func NewWatcherService(
	logger *gecho.Logger,
	feed database.ChangeFeed,
	checkpoints CheckpointStore,
	cfg *structs.WatcherConfig,
	metrics *lib.Metrics,
) *WatcherService {
	ws := &WatcherService{
		logger:      logger,
		feed:        feed,
		checkpoints: checkpoints,
		cfg:         cfg,
		metrics:     metrics,
		done:        make(chan struct{}),
		status:      WatcherStatus{State: WatcherDisabled},
	}
	if feed != nil {
		ws.status = WatcherStatus{State: WatcherStarting, Namespace: feed.Namespace()}
	} else {
		close(ws.done)
	}
	return ws
}

// Start launches the supervisor in the background and returns immediately.
// The watcher runs until ctx is cancelled or it gives up after MaxRestarts.
func (ws *WatcherService) Start(ctx context.Context) {
	if ws.feed == nil {
		ws.logger.Warn("Change feed watcher disabled, no document store configured")
		return
	}

	ws.logger.Info("Starting to watch changes", gecho.Field("namespace", ws.feed.Namespace()))
	go ws.supervise(ctx)
}

// Done is closed once the supervisor has exited.
func (ws *WatcherService) Done() <-chan struct{} {
	return ws.done
}

func (ws *WatcherService) Status() WatcherStatus {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	status := ws.status
	if status.LastEventAt != nil {
		t := *status.LastEventAt
		status.LastEventAt = &t
	}
	return status
}

func (ws *WatcherService) supervise(ctx context.Context) {
	defer close(ws.done)
	defer ws.metrics.WatcherUp.Set(0)

	failures := 0
	for {
		delivered, err := ws.watchOnce(ctx)
		ws.metrics.WatcherUp.Set(0)

		if ctx.Err() != nil {
			ws.setState(WatcherStopped, nil)
			ws.logger.Info("Change feed watcher stopped", gecho.Field("namespace", ws.feed.Namespace()))
			return
		}

		if delivered > 0 {
			failures = 0
		}
		failures++

		ws.logger.Error("Error watching changes",
			gecho.Field("namespace", ws.feed.Namespace()),
			gecho.Field("error", err),
			gecho.Field("consecutive_failures", failures),
		)

		if ws.cfg.MaxRestarts > 0 && failures > ws.cfg.MaxRestarts {
			ws.setState(WatcherFailed, err)
			ws.logger.Error("Change feed watcher giving up",
				gecho.Field("namespace", ws.feed.Namespace()),
				gecho.Field("max_restarts", ws.cfg.MaxRestarts),
			)
			return
		}

		ws.setState(WatcherReconnecting, err)
		delay := lib.Backoff(failures-1, ws.cfg.InitialBackoff, ws.cfg.MaxBackoff)

		select {
		case <-ctx.Done():
			ws.setState(WatcherStopped, nil)
			return
		case <-time.After(delay):
		}

		ws.mu.Lock()
		ws.status.Restarts++
		ws.mu.Unlock()
		ws.metrics.WatcherRestarts.Inc()
		ws.logger.Info("Reopening change stream", gecho.Field("namespace", ws.feed.Namespace()), gecho.Field("delay", delay))
	}
}

// watchOnce runs one cursor until it fails or ends and returns how many events
// it delivered.
func (ws *WatcherService) watchOnce(ctx context.Context) (int, error) {
	token, err := ws.checkpoints.Load(ctx)
	if err != nil {
		ws.logger.Warn("Failed to load resume token, starting from now", gecho.Field("error", err))
		token = nil
	}

	stream, err := ws.feed.Watch(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("open change stream: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stream.Close(closeCtx); err != nil {
			ws.logger.Debug("Failed to close change stream", gecho.Field("error", err))
		}
	}()

	ws.metrics.WatcherUp.Set(1)
	ws.setState(WatcherRunning, nil)
	ws.logger.Info("Change stream opened",
		gecho.Field("namespace", ws.feed.Namespace()),
		gecho.Field("resumed", len(token) > 0),
	)

	delivered := 0
	for stream.Next(ctx) {
		var event structs.ChangeEvent
		if err := stream.Decode(&event); err != nil {
			return delivered, fmt.Errorf("decode change event: %w", err)
		}

		ws.logEvent(&event)
		ws.recordEvent(&event)
		delivered++

		next := stream.ResumeToken()
		// A resume token taken from an invalidate event cannot be resumed after.
		if event.OperationType == structs.OperationInvalidate {
			next = nil
		}
		if err := ws.checkpoints.Save(ctx, next); err != nil {
			ws.logger.Warn("Failed to save resume token", gecho.Field("error", err))
		}
	}

	if err := stream.Err(); err != nil {
		return delivered, err
	}
	return delivered, lib.ErrStreamClosed
}

func (ws *WatcherService) logEvent(event *structs.ChangeEvent) {
	fields := []any{
		"Change detected",
		gecho.Field("operation", event.OperationType),
		gecho.Field("namespace", event.Namespace.String()),
		gecho.Field("document_key", event.DocumentKey),
	}

	if product, ok := decodeProduct(event.FullDocument); ok {
		fields = append(fields,
			gecho.Field("product_id", product.ID),
			gecho.Field("product_name", product.Name),
			gecho.Field("product_price", *product.Price),
		)
	}

	ws.logger.Info(fields...)
}

func (ws *WatcherService) recordEvent(event *structs.ChangeEvent) {
	now := time.Now()

	ws.mu.Lock()
	ws.status.EventsSeen++
	ws.status.LastEventAt = &now
	ws.mu.Unlock()

	ws.metrics.WatcherEvents.WithLabelValues(event.OperationType).Inc()
}

func (ws *WatcherService) setState(state WatcherState, err error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.status.State = state
	switch {
	case err != nil:
		ws.status.LastError = err.Error()
	case state == WatcherRunning:
		ws.status.LastError = ""
	}
}

// decodeProduct extracts a well formed product from a change event document.
func decodeProduct(doc bson.Raw) (*structs.ProductUpdate, bool) {
	if len(doc) == 0 {
		return nil, false
	}

	var product structs.ProductUpdate
	if err := bson.Unmarshal(doc, &product); err != nil {
		return nil, false
	}
	if err := lib.ValidateStruct(product); err != nil {
		return nil, false
	}
	return &product, true
}
