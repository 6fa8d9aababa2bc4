package smartsearch

import (
	"sort"
	"strings"

	"github.com/ahmednasr/contexthub/internal/models"
)

var (
	codeExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".py", ".java", ".go", ".rs", ".rb", ".php"}
	excludedDirs   = []string{"node_modules", "dist", "build", ".next"}
)

// IsCodeFile reports whether path has a recognised source extension.
func IsCodeFile(path string) bool {
	for _, ext := range codeExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// FilterCodeFiles keeps source blobs outside vendored and build output dirs.
func FilterCodeFiles(tree []models.TreeItem) []models.TreeItem {
	out := make([]models.TreeItem, 0, len(tree))
	for _, item := range tree {
		if item.Type != models.TreeItemBlob || !IsCodeFile(item.Path) {
			continue
		}
		if containsAny(item.Path, excludedDirs) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// PriorityScore estimates how useful a file is to fetch first.
func PriorityScore(path string) int {
	p := strings.ToLower(path)
	score := 0

	if strings.Contains(p, "src/") {
		score += 10
	}
	// shallower files rank higher
	depth := len(strings.Split(p, "/"))
	if depth < 10 {
		score += 10 - depth
	}
	if containsAny(p, []string{"auth", "api", "payment"}) {
		score += 5
	}
	if containsAny(p, []string{"util", "helper", "lib"}) {
		score += 3
	}
	if containsAny(p, []string{"test", "spec"}) {
		score -= 2
	}
	return score
}

// PrioritizeFiles returns files sorted by descending PriorityScore. Equal
// scores keep their input order.
func PrioritizeFiles(files []models.TreeItem) []models.TreeItem {
	type scored struct {
		item  models.TreeItem
		score int
	}
	ranked := make([]scored, len(files))
	for i, f := range files {
		ranked[i] = scored{item: f, score: PriorityScore(f.Path)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]models.TreeItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}
