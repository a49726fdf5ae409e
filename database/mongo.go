package database

import (
	"context"
	"fmt"
	"inventory_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ChangeStream is a tailing cursor over collection changes. *mongo.ChangeStream
// satisfies it.
type ChangeStream interface {
	Next(ctx context.Context) bool
	Decode(val any) error
	Err() error
	ResumeToken() bson.Raw
	Close(ctx context.Context) error
}

// ChangeFeed opens change streams on one collection. A non-empty resume token
// continues the feed right after the event it belongs to.
type ChangeFeed interface {
	Watch(ctx context.Context, resumeToken bson.Raw) (ChangeStream, error)
	Namespace() string
}

// Mongo wraps the driver client and the watched collection
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *gecho.Logger
	namespace  string
}

// ConnectMongo creates the client for the configured store. The driver connects
// lazily, so an unreachable server is only logged here; the watcher keeps
// retrying until the store comes up.
func ConnectMongo(ctx context.Context, cfg *structs.MongoConfig, logger *gecho.Logger) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetAppName("ms_inventory")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	m := &Mongo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger,
		namespace:  cfg.Database + "." + cfg.Collection,
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := m.Ping(pingCtx); err != nil {
		logger.Warn("Document store not reachable yet",
			gecho.Field("namespace", m.namespace),
			gecho.Field("error", err),
		)
	} else {
		logger.Info("Connected to document store successfully", gecho.Field("namespace", m.namespace))
	}

	return m, nil
}

func (m *Mongo) Watch(ctx context.Context, resumeToken bson.Raw) (ChangeStream, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	if len(resumeToken) > 0 {
		opts.SetResumeAfter(resumeToken)
	}

	stream, err := m.collection.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (m *Mongo) Namespace() string {
	return m.namespace
}

// Ping checks the connection against the primary
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}
