package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahmednasr/contexthub/internal/database"
	"github.com/ahmednasr/contexthub/internal/models"
)

// IssueCacheMongo caches ranked issue results per profile and scope.
type IssueCacheMongo struct {
	col *mongo.Collection
	ttl time.Duration
	now func() time.Time
}

// NewIssueCacheRepository returns an IssueCacheMongo on the "issue_cache" collection.
func NewIssueCacheRepository(db *mongo.Database, ttl time.Duration) *IssueCacheMongo {
	return &IssueCacheMongo{
		col: db.Collection(database.IssueCacheCollection),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns cached results for key, or nil when the entry is missing,
// older than the TTL, or was computed for a different profile hash.
func (r *IssueCacheMongo) Get(ctx context.Context, key, profileHash string) ([]models.IssueMatchResult, error) {
	var e models.IssueCacheEntry
	err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case e.ProfileHash != profileHash:
		log.Printf("[Issue Cache] %s: profile changed, ignoring cached results", key)
		return nil, nil
	case r.now().Sub(e.Timestamp) > r.ttl:
		log.Printf("[Issue Cache] %s: entry expired", key)
		return nil, nil
	}
	log.Printf("[Issue Cache] %s: hit (%d results)", key, len(e.Results))
	return e.Results, nil
}

// Set replaces the cached results for key.
func (r *IssueCacheMongo) Set(ctx context.Context, key, profileHash string, results []models.IssueMatchResult) error {
	e := models.IssueCacheEntry{
		Key:         key,
		ProfileHash: profileHash,
		Results:     results,
		Timestamp:   r.now().UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	return err
}

// Clear drops the cached results for key.
func (r *IssueCacheMongo) Clear(ctx context.Context, key string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
