package models

import "time"

// KnowledgeLevel is a self-rated ordinal skill level.
type KnowledgeLevel string

const (
	LevelBeginner     KnowledgeLevel = "beginner"
	LevelIntermediate KnowledgeLevel = "intermediate"
	LevelAdvanced     KnowledgeLevel = "advanced"
	LevelExpert       KnowledgeLevel = "expert"
)

var levelRanks = map[KnowledgeLevel]int{
	LevelBeginner:     1,
	LevelIntermediate: 2,
	LevelAdvanced:     3,
	LevelExpert:       4,
}

// Rank orders levels beginner(1) < intermediate < advanced < expert(4).
// Unrecognised values rank as beginner.
func (l KnowledgeLevel) Rank() int {
	if r, ok := levelRanks[l]; ok {
		return r
	}
	return 1
}

// TechStack is one rated technology.
type TechStack struct {
	Name           string         `json:"name"            bson:"name"            validate:"required"`
	KnowledgeLevel KnowledgeLevel `json:"knowledge_level" bson:"knowledge_level" validate:"required,oneof=beginner intermediate advanced expert"`
}

// UserProfile is the onboarding result for one user.
type UserProfile struct {
	ID           string      `json:"id"            bson:"_id"`
	Skills       []string    `json:"skills"        bson:"skills"`
	TechStack    []TechStack `json:"tech_stack"    bson:"tech_stack" validate:"dive"`
	HasCompleted bool        `json:"has_completed" bson:"has_completed"`
	LastUpdated  time.Time   `json:"last_updated"  bson:"last_updated"`
}
