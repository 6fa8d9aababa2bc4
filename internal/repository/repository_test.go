package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/ahmednasr/contexthub/internal/models"
)

// toDoc round-trips v through BSON so mocked cursors return exactly what the
// repository would have written.
func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func found(ns string, doc bson.D) bson.D {
	return mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, doc)
}

func missing(ns string) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
}

func TestIndexRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	const ns = "test.repo_indexes"

	mt.Run("find existing", func(mt *mtest.T) {
		idx := models.NewRepoIndex()
		idx.Add(models.FileMetadata{Path: "src/auth/login.ts", Category: models.CategoryAuth})
		stored := models.StoredIndex{
			ID:            models.IndexID("acme", "shop", "main"),
			Owner:         "acme",
			Repo:          "shop",
			Branch:        "main",
			Index:         idx,
			TreeStructure: "└── 📁 src",
			IndexedAt:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}
		mt.AddMockResponses(found(ns, toDoc(t, stored)))

		got, err := NewIndexRepository(mt.DB).Find(ctx, "acme", "shop", "main")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "acme/shop@main", got.ID)
		assert.Equal(t, 1, got.Index.Len())
		assert.Equal(t, "src/auth/login.ts", got.Index.Authentication[0].Path)
		assert.Equal(t, "└── 📁 src", got.TreeStructure)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(missing(ns))

		got, err := NewIndexRepository(mt.DB).Find(ctx, "acme", "shop", "dev")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	mt.Run("upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := NewIndexRepository(mt.DB).Upsert(ctx, models.StoredIndex{Owner: "acme", Repo: "shop", Branch: "main"})
		assert.NoError(t, err)
	})

	mt.Run("upsert error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "duplicate key",
			Name:    "DuplicateKey",
		}))

		err := NewIndexRepository(mt.DB).Upsert(ctx, models.StoredIndex{Owner: "acme", Repo: "shop", Branch: "main"})
		assert.Error(t, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(t, NewIndexRepository(mt.DB).Delete(ctx, "acme", "shop", "main"))
	})
}

func TestProfileRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	const ns = "test.user_profiles"
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	newRepo := func(mt *mtest.T) *ProfileMongo {
		r := NewProfileRepository(mt.DB, 30*24*time.Hour)
		r.now = func() time.Time { return now }
		return r
	}

	mt.Run("fresh profile", func(mt *mtest.T) {
		p := models.UserProfile{
			ID:           "u1",
			Skills:       []string{"react"},
			TechStack:    []models.TechStack{{Name: "TypeScript", KnowledgeLevel: models.LevelAdvanced}},
			HasCompleted: true,
			LastUpdated:  now.Add(-24 * time.Hour),
		}
		mt.AddMockResponses(found(ns, toDoc(t, p)))

		got, err := newRepo(mt).Get(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{"react"}, got.Skills)
		assert.Equal(t, models.LevelAdvanced, got.TechStack[0].KnowledgeLevel)
	})

	mt.Run("expired profile", func(mt *mtest.T) {
		p := models.UserProfile{ID: "u1", LastUpdated: now.Add(-31 * 24 * time.Hour)}
		mt.AddMockResponses(
			found(ns, toDoc(t, p)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		got, err := newRepo(mt).Get(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	mt.Run("missing profile", func(mt *mtest.T) {
		mt.AddMockResponses(missing(ns))

		got, err := newRepo(mt).Get(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	mt.Run("set stamps last updated", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		p := &models.UserProfile{ID: "u2"}

		require.NoError(t, newRepo(mt).Set(ctx, p))
		assert.Equal(t, now, p.LastUpdated)
	})
}

func TestIssueCacheRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	const ns = "test.issue_cache"
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	newRepo := func(mt *mtest.T) *IssueCacheMongo {
		r := NewIssueCacheRepository(mt.DB, time.Hour)
		r.now = func() time.Time { return now }
		return r
	}
	entry := func(hash string, age time.Duration) bson.D {
		return toDoc(t, models.IssueCacheEntry{
			Key:         "u1:all",
			ProfileHash: hash,
			Results:     []models.IssueMatchResult{{Issue: models.Issue{Number: 4, Title: "Fix"}, MatchScore: 30}},
			Timestamp:   now.Add(-age),
		})
	}

	mt.Run("hit", func(mt *mtest.T) {
		mt.AddMockResponses(found(ns, entry("h1", 10*time.Minute)))

		got, err := newRepo(mt).Get(ctx, "u1:all", "h1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 30, got[0].MatchScore)
		assert.Equal(t, 4, got[0].Issue.Number)
	})

	mt.Run("profile hash mismatch", func(mt *mtest.T) {
		mt.AddMockResponses(found(ns, entry("h1", time.Minute)))

		got, err := newRepo(mt).Get(ctx, "u1:all", "h2")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	mt.Run("stale", func(mt *mtest.T) {
		mt.AddMockResponses(found(ns, entry("h1", 2*time.Hour)))

		got, err := newRepo(mt).Get(ctx, "u1:all", "h1")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	mt.Run("set and clear", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		r := newRepo(mt)

		assert.NoError(t, r.Set(ctx, "u1:all", "h1", nil))
		assert.NoError(t, r.Clear(ctx, "u1:all"))
	})
}
