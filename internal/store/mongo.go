package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"kestrel/internal/config"
	"kestrel/internal/domain"
)

// Store is a MongoDB sink holding the two result collections. A Store is
// opened per extraction run and closed at run end, so writes from different
// runs never interleave.
type Store struct {
	client            *mongo.Client
	database          string
	privateCollection string
	publicCollection  string
}

// Connect dials the document store and verifies the connection with a ping.
// An unreachable server fails here, before any write happens.
func Connect(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to document store: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping document store: %w", err)
	}

	log.Debug("Connected to document store", "database", cfg.Database)

	return &Store{
		client:            client,
		database:          cfg.Database,
		privateCollection: cfg.PrivateCollection,
		publicCollection:  cfg.PublicCollection,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ReplaceAll clears both collections and inserts the new sets. Both deletes
// run before any insert, matching the reference sequencing; readers during
// this window may observe a transient empty state.
func (s *Store) ReplaceAll(ctx context.Context, private, public []domain.AddressRecord) error {
	db := s.client.Database(s.database)
	privateColl := db.Collection(s.privateCollection)
	publicColl := db.Collection(s.publicCollection)

	if _, err := privateColl.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear collection %s: %w", s.privateCollection, err)
	}
	if _, err := publicColl.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear collection %s: %w", s.publicCollection, err)
	}

	if len(private) > 0 {
		if _, err := privateColl.InsertMany(ctx, toDocuments(private)); err != nil {
			return fmt.Errorf("insert into %s: %w", s.privateCollection, err)
		}
	}
	if len(public) > 0 {
		if _, err := publicColl.InsertMany(ctx, toDocuments(public)); err != nil {
			return fmt.Errorf("insert into %s: %w", s.publicCollection, err)
		}
	}

	return nil
}

func toDocuments(records []domain.AddressRecord) []interface{} {
	docs := make([]interface{}, len(records))
	for i, record := range records {
		docs[i] = record
	}
	return docs
}
