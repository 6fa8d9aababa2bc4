package repository

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahmednasr/contexthub/internal/database"
	"github.com/ahmednasr/contexthub/internal/models"
)

// IndexMongo persists built repository indexes, one document per
// owner/repo@branch.
type IndexMongo struct {
	col *mongo.Collection
}

// NewIndexRepository returns an IndexMongo on the "repo_indexes" collection.
func NewIndexRepository(db *mongo.Database) *IndexMongo {
	return &IndexMongo{col: db.Collection(database.IndexCollection)}
}

// Find returns the stored index for owner/repo@branch, or nil when none exists.
func (r *IndexMongo) Find(ctx context.Context, owner, repo, branch string) (*models.StoredIndex, error) {
	id := models.IndexID(owner, repo, branch)
	var s models.StoredIndex
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		log.Printf("[Index Repository] Error finding index %s: %v", id, err)
		return nil, err
	}
	log.Printf("[Index Repository] Found index %s (%d files)", id, s.Index.Len())
	return &s, nil
}

// Upsert inserts or replaces the index with the same _id.
func (r *IndexMongo) Upsert(ctx context.Context, s models.StoredIndex) error {
	if s.ID == "" {
		s.ID = models.IndexID(s.Owner, s.Repo, s.Branch)
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		log.Printf("[Index Repository] Error upserting index %s: %v", s.ID, err)
		return err
	}
	log.Printf("[Index Repository] Stored index %s", s.ID)
	return nil
}

// Delete removes the stored index for owner/repo@branch. Missing is not an error.
func (r *IndexMongo) Delete(ctx context.Context, owner, repo, branch string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": models.IndexID(owner, repo, branch)})
	return err
}
