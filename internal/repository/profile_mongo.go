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

// ProfileMongo stores onboarding profiles. Profiles older than ttl are
// treated as missing.
type ProfileMongo struct {
	col *mongo.Collection
	ttl time.Duration
	now func() time.Time
}

// NewProfileRepository returns a ProfileMongo on the "user_profiles" collection.
func NewProfileRepository(db *mongo.Database, ttl time.Duration) *ProfileMongo {
	return &ProfileMongo{
		col: db.Collection(database.ProfileCollection),
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the profile, or nil when it does not exist or has expired.
func (r *ProfileMongo) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		log.Printf("[Profile Repository] Error loading profile %s: %v", id, err)
		return nil, err
	}

	if r.ttl > 0 && r.now().Sub(p.LastUpdated) > r.ttl {
		log.Printf("[Profile Repository] Profile %s expired (last updated %s)", id, p.LastUpdated.Format(time.RFC3339))
		if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Printf("[Profile Repository] Error deleting expired profile %s: %v", id, err)
		}
		return nil, nil
	}
	return &p, nil
}

// Set stamps LastUpdated and upserts the profile.
func (r *ProfileMongo) Set(ctx context.Context, p *models.UserProfile) error {
	p.LastUpdated = r.now().UTC()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		log.Printf("[Profile Repository] Error saving profile %s: %v", p.ID, err)
	}
	return err
}

// Delete removes the profile. Missing is not an error.
func (r *ProfileMongo) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
