package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"inventory_server/database"
	"inventory_server/lib"
	"inventory_server/services"
	"inventory_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

// blockingFeed opens streams that only end when the watch context does.
type blockingFeed struct{}

func (blockingFeed) Watch(ctx context.Context, _ bson.Raw) (database.ChangeStream, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingFeed) Namespace() string { return "products_db.products" }

func newBlockingWatcher() *services.WatcherService {
	cfg := &structs.WatcherConfig{InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	return services.NewWatcherService(gecho.NewDefaultLogger(), blockingFeed{}, services.NewMemoryCheckpointStore(), cfg, lib.NewMetrics())
}

func TestShutdownWaitsForWatcher(t *testing.T) {
	watcher := newBlockingWatcher()
	ctx, cancel := context.WithCancel(context.Background())
	watcher.Start(ctx)
	cancel()

	shutdown(&http.Server{}, watcher, 2*time.Second, gecho.NewDefaultLogger())

	select {
	case <-watcher.Done():
	default:
		t.Fatal("shutdown returned before the watcher stopped")
	}
	assert.Equal(t, services.WatcherStopped, watcher.Status().State)
}

func TestShutdownGivesUpOnStuckWatcher(t *testing.T) {
	watcher := newBlockingWatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher.Start(ctx)

	start := time.Now()
	shutdown(&http.Server{}, watcher, 50*time.Millisecond, gecho.NewDefaultLogger())

	assert.Less(t, time.Since(start), time.Second)
}
