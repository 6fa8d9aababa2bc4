package smartsearch

import (
	"log"
	"sort"
	"strings"

	"github.com/ahmednasr/contexthub/internal/models"
)

// Intent is what the user wants to do with the files they ask about.
type Intent string

const (
	IntentFind       Intent = "find"
	IntentModify     Intent = "modify"
	IntentAdd        Intent = "add"
	IntentUnderstand Intent = "understand"
)

// DomainAll selects every bucket.
const DomainAll models.Bucket = "all"

// DefaultTopK is the number of files ResolveQuery returns.
const DefaultTopK = 10

var intentRules = []struct {
	intent Intent
	words  []string
}{
	{IntentFind, []string{"where", "find", "locate"}},
	{IntentModify, []string{"modify", "change", "update", "edit"}},
	{IntentAdd, []string{"add", "create", "implement", "new"}},
}

// ExtractIntent classifies a query; the first matching rule wins.
func ExtractIntent(query string) Intent {
	lower := strings.ToLower(query)
	for _, r := range intentRules {
		if containsAny(lower, r.words) {
			return r.intent
		}
	}
	return IntentUnderstand
}

// ExtractDomain maps a query onto the bucket its keywords point at, using the
// same table that classified files at index time.
func ExtractDomain(query string) models.Bucket {
	c := categoryOf(strings.ToLower(query))
	if c == models.CategoryOther {
		return DomainAll
	}
	return models.BucketFor(c)
}

// ResolveQuery returns the ten most relevant files for query.
func ResolveQuery(query string, index models.RepoIndex) []models.FileMetadata {
	return ResolveQueryTopK(query, index, DefaultTopK)
}

// ResolveQueryTopK returns at most k files ranked by relevance. The index is
// not modified; results are copies carrying their Score.
func ResolveQueryTopK(query string, index models.RepoIndex, k int) []models.FileMetadata {
	intent := ExtractIntent(query)
	domain := ExtractDomain(query)
	log.Printf("[Resolver] Resolving %q (intent: %s, domain: %s)", query, intent, domain)

	var candidates []models.FileMetadata
	if domain == DomainAll {
		candidates = index.All()
	} else {
		candidates = index.Bucket(domain)
	}
	if len(candidates) == 0 {
		log.Printf("[Resolver] Warning: no files found for domain %s", domain)
		return []models.FileMetadata{}
	}

	scored := make([]models.FileMetadata, len(candidates))
	for i, f := range candidates {
		scored[i] = f
		scored[i].Score = CalculateRelevance(f, query, intent)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	log.Printf("[Resolver] Found %d relevant files", len(scored))
	return scored
}

// CalculateRelevance scores one file against a query.
func CalculateRelevance(file models.FileMetadata, query string, intent Intent) int {
	score := 0
	path := strings.ToLower(file.Path)

	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) < 3 {
			continue
		}
		if strings.Contains(path, word) {
			score += 15
		}
		if anyContains(file.Keywords, word, false) {
			score += 10
		}
		if anyContains(file.Functions, word, true) {
			score += 5
		}
	}

	switch intent {
	case IntentFind:
		if len(file.Exports) > 0 {
			score += 20
		}
		if len(file.Functions) > 3 {
			score += 10
		}
	case IntentModify, IntentAdd:
		if !strings.Contains(path, "node_modules") {
			score += 20
		}
		if strings.Contains(path, "src/") {
			score += 10
		}
	}

	if strings.Contains(path, "src/") {
		score += 10
	}
	if len(file.Imports) > 3 {
		score += 10
	}
	if len(strings.Split(path, "/")) < 4 {
		score += 5
	}
	if strings.Contains(path, "index") || strings.Contains(path, "main") {
		score += 5
	}
	return score
}

func anyContains(items []string, word string, fold bool) bool {
	for _, it := range items {
		if fold {
			it = strings.ToLower(it)
		}
		if strings.Contains(it, word) {
			return true
		}
	}
	return false
}
