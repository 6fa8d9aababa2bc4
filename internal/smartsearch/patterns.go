// Package smartsearch turns a repository tree into a categorized index and
// resolves free-text queries against it. Everything here is a deterministic
// keyword heuristic; there is no statistical ranking.
package smartsearch

import (
	"strings"

	"github.com/ahmednasr/contexthub/internal/models"
)

// CategoryPattern pairs a category with the substrings that identify it.
type CategoryPattern struct {
	Category models.Category
	Keywords []string
}

// CategoryPatterns is the canonical keyword table, in match priority order.
// Indexing, query domain extraction and PR impact analysis all read it.
var CategoryPatterns = []CategoryPattern{
	{models.CategoryAuth, []string{"auth", "login", "session", "jwt", "token", "password", "credential"}},
	{models.CategoryPayment, []string{"payment", "stripe", "checkout", "billing", "subscription", "invoice"}},
	{models.CategoryAPI, []string{"api", "endpoint", "route", "controller", "handler", "request", "response"}},
	{models.CategoryDatabase, []string{"database", "schema", "migration", "model", "prisma", "sql", "query"}},
	{models.CategoryTesting, []string{"test", "spec", "mock", "__tests__", "e2e", "unit", "integration"}},
	{models.CategoryConfig, []string{"config", "env", "settings", ".config", "setup", "dotenv"}},
}

// allPatterns is CategoryPatterns flattened.
var allPatterns = func() []string {
	var out []string
	for _, p := range CategoryPatterns {
		out = append(out, p.Keywords...)
	}
	return out
}()

// MatchesPattern reports whether the lowercased text contains any pattern.
func MatchesPattern(text string, patterns []string) bool {
	return containsAny(strings.ToLower(text), patterns)
}

func containsAny(lower string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// DetectCategory classifies a file by the first keyword family found in its
// path or content.
func DetectCategory(path, content string) models.Category {
	return categoryOf(strings.ToLower(path + " " + content))
}

// categoryOf expects already-lowercased text.
func categoryOf(lower string) models.Category {
	for _, p := range CategoryPatterns {
		if containsAny(lower, p.Keywords) {
			return p.Category
		}
	}
	return models.CategoryOther
}
