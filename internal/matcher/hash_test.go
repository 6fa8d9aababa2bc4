package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahmednasr/contexthub/internal/models"
)

func TestProfileHashOrderIndependent(t *testing.T) {
	a := models.UserProfile{
		Skills: []string{"React", "Go"},
		TechStack: []models.TechStack{
			{Name: "Go", KnowledgeLevel: models.LevelExpert},
			{Name: "TypeScript", KnowledgeLevel: models.LevelBeginner},
		},
	}
	b := models.UserProfile{
		ID:     "someone-else",
		Skills: []string{"Go", "React"},
		TechStack: []models.TechStack{
			{Name: "TypeScript", KnowledgeLevel: models.LevelBeginner},
			{Name: "Go", KnowledgeLevel: models.LevelExpert},
		},
		HasCompleted: true,
	}
	assert.Equal(t, ProfileHash(a), ProfileHash(b))
	assert.Len(t, ProfileHash(a), 16)
	assert.Len(t, ProfileHash(models.UserProfile{}), 16)

	// input slices are left untouched
	assert.Equal(t, []string{"React", "Go"}, a.Skills)
}

func TestProfileHashChangesWithLevel(t *testing.T) {
	a := models.UserProfile{TechStack: []models.TechStack{{Name: "Go", KnowledgeLevel: models.LevelBeginner}}}
	b := models.UserProfile{TechStack: []models.TechStack{{Name: "Go", KnowledgeLevel: models.LevelAdvanced}}}
	assert.NotEqual(t, ProfileHash(a), ProfileHash(b))
}

func TestLanguages(t *testing.T) {
	p := models.UserProfile{TechStack: []models.TechStack{
		{Name: "Python"}, {Name: "  "}, {Name: "Go"},
	}}
	assert.Equal(t, []string{"Python", "Go"}, Languages(p))
	assert.Empty(t, Languages(models.UserProfile{}))
}
