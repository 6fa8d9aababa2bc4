package matcher

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ahmednasr/contexthub/internal/models"
)

// ProfileHash fingerprints the parts of a profile that affect matching.
// Ordering of skills and tech stack entries does not change the hash.
func ProfileHash(profile models.UserProfile) string {
	skills := make([]string, len(profile.Skills))
	copy(skills, profile.Skills)
	sort.Strings(skills)

	stack := make([]string, len(profile.TechStack))
	for i, t := range profile.TechStack {
		stack[i] = t.Name + ":" + string(t.KnowledgeLevel)
	}
	sort.Strings(stack)

	payload, _ := json.Marshal(struct {
		Skills    []string `json:"skills"`
		TechStack []string `json:"techStack"`
	}{skills, stack})

	return fmt.Sprintf("%016x", xxhash.Sum64(payload))
}

// Languages returns the tech stack names in profile order, without blanks.
func Languages(profile models.UserProfile) []string {
	var out []string
	for _, t := range profile.TechStack {
		if name := strings.TrimSpace(t.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
