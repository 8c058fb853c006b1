package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// ErrNotConnected is returned when an operation needs the document store
// before a connection has been established.
var ErrNotConnected = errors.New("database not connected")

// Collection names used by the services.
const (
	UsersCollection    = "users"
	ListingsCollection = "listings"
	EventsCollection   = "events"
)

// Status describes the connection lifecycle of the shared handle.
type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

const dialTimeout = 10 * time.Second

// Database supervises the single shared MongoDB client for the process.
// Initialization is guarded by a singleflight group so that concurrent
// cold-start requests share exactly one dial attempt and observe the same
// outcome; the flight clears on success and failure alike, so a failed
// attempt can be retried by a later request.
type Database struct {
	uri  string
	name string

	// dial is swappable in tests.
	dial func(ctx context.Context) (*mongo.Client, error)

	flight singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
	status Status
}

// New creates an unconnected Database handle.
func New(uri, name string) *Database {
	d := &Database{uri: uri, name: name}
	d.dial = d.mongoDial
	return d
}

// mongoDial establishes and verifies a client, then bootstraps indexes.
func (d *Database) mongoDial(ctx context.Context) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(d.uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := ensureIndexes(ctx, client.Database(d.name)); err != nil {
		// The store is usable without the indexes; uniqueness of user
		// emails is still enforced once the index exists.
		log.Warn().Err(err).Msg("Failed to ensure database indexes")
	}
	return client, nil
}

// Connect establishes the shared connection. It is idempotent and safe to
// call from concurrent requests.
func (d *Database) Connect(ctx context.Context) error {
	d.mu.RLock()
	connected := d.status == Connected
	d.mu.RUnlock()
	if connected {
		return nil
	}

	_, err, _ := d.flight.Do("connect", func() (interface{}, error) {
		d.mu.Lock()
		if d.status == Connected {
			d.mu.Unlock()
			return nil, nil
		}
		d.status = Connecting
		d.mu.Unlock()

		client, err := d.dial(ctx)
		if err != nil {
			d.mu.Lock()
			d.status = Disconnected
			d.mu.Unlock()
			return nil, fmt.Errorf("connecting to document store: %w", err)
		}

		d.mu.Lock()
		d.client = client
		d.status = Connected
		d.mu.Unlock()

		log.Info().Str("database", d.name).Msg("Document store connected")
		return nil, nil
	})
	return err
}

// Status reports the current connection state.
func (d *Database) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Collection returns a handle to the named collection, or ErrNotConnected
// if no live connection exists.
func (d *Database) Collection(name string) (*mongo.Collection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.status != Connected || d.client == nil {
		return nil, ErrNotConnected
	}
	return d.client.Database(d.name).Collection(name), nil
}

// Ping verifies the live connection.
func (d *Database) Ping(ctx context.Context) error {
	d.mu.RLock()
	client := d.client
	ok := d.status == Connected
	d.mu.RUnlock()
	if !ok || client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, nil)
}

// Reset discards a broken client so the next Connect dials again. Requests
// arriving in between observe ErrNotConnected rather than a dead handle.
func (d *Database) Reset(ctx context.Context) {
	d.mu.Lock()
	client := d.client
	d.client = nil
	d.status = Disconnected
	d.mu.Unlock()

	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect stale mongo client")
		}
	}
}

// Close tears down the connection at process shutdown.
func (d *Database) Close(ctx context.Context) error {
	d.mu.Lock()
	client := d.client
	d.client = nil
	d.status = Disconnected
	d.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// ensureIndexes creates the indexes the services rely on: unique user
// emails and the stable listing sort key.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = db.Collection(ListingsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("listings indexes: %w", err)
	}
	return nil
}
