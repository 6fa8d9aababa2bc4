package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the repositories.
const (
	IndexCollection      = "repo_indexes"
	ProfileCollection    = "user_profiles"
	IssueCacheCollection = "issue_cache"
)

// NewMongo establishes a new MongoDB client and verifies it with a ping.
// The connection attempt is bounded by a 10-second timeout.
//
// Typical usage:
//
//	client, err := database.NewMongo(ctx, cfg.MongoURI)
//	if err != nil { … }
//	defer database.Disconnect(client)
func NewMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// Disconnect in case of ping failure to avoid leaking sockets.
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Disconnect closes the client with its own short deadline.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the secondary indexes the repositories rely on.
// Stale documents are also filtered on read, so the TTL indexes only keep
// the collections small.
func EnsureIndexes(ctx context.Context, db *mongo.Database, profileTTL, issueTTL time.Duration) error {
	if _, err := db.Collection(ProfileCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "last_updated", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(profileTTL.Seconds())),
	}); err != nil {
		return err
	}
	if _, err := db.Collection(IssueCacheCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(issueTTL.Seconds())),
	}); err != nil {
		return err
	}
	_, err := db.Collection(IndexCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "repo", Value: 1}},
	})
	return err
}
