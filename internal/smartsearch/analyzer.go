package smartsearch

import (
	"regexp"
	"strings"

	"github.com/ahmednasr/contexthub/internal/models"
)

var (
	es6ImportRe   = regexp.MustCompile(`import\s+(?:[\w\s{},*]+\s+from\s+)?['"]([^'"]+)['"]`)
	requireRe     = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	exportDeclRe  = regexp.MustCompile(`export\s+(?:default\s+)?(?:async\s+)?(?:function|const|let|class)\s+(\w+)`)
	exportNamedRe = regexp.MustCompile(`export\s+\{\s*([\w\s,]+)\s*\}`)
	funcDeclRe    = regexp.MustCompile(`function\s+(\w+)\s*\(`)
	arrowFuncRe   = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*=>`)
	wordRe        = regexp.MustCompile(`[a-z]+`)
)

// AnalyzeFile extracts structural signals from one file.
func AnalyzeFile(path, content string) models.FileMetadata {
	return models.FileMetadata{
		Path:      path,
		Content:   content,
		Keywords:  ExtractKeywords(path, content),
		Imports:   ExtractImports(content),
		Exports:   ExtractExports(content),
		Functions: ExtractFunctions(content),
		Category:  DetectCategory(path, content),
	}
}

// orderedSet collects unique strings in first-seen order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, items: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) addMatches(re *regexp.Regexp, content string) {
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		s.add(m[1])
	}
}

// ExtractImports returns module specifiers from ES imports and require calls.
func ExtractImports(content string) []string {
	set := newOrderedSet()
	set.addMatches(es6ImportRe, content)
	set.addMatches(requireRe, content)
	return set.items
}

// ExtractExports returns exported declaration names and named re-exports.
// For `export { a as b }` the exported name b is recorded.
func ExtractExports(content string) []string {
	set := newOrderedSet()
	set.addMatches(exportDeclRe, content)
	for _, m := range exportNamedRe.FindAllStringSubmatch(content, -1) {
		for _, name := range strings.Split(m[1], ",") {
			fields := strings.Fields(name)
			if len(fields) == 0 {
				continue
			}
			set.add(fields[len(fields)-1])
		}
	}
	return set.items
}

// ExtractFunctions returns names bound by function declarations and arrow
// function assignments.
func ExtractFunctions(content string) []string {
	set := newOrderedSet()
	set.addMatches(funcDeclRe, content)
	set.addMatches(arrowFuncRe, content)
	return set.items
}

// ExtractKeywords returns alphabetic path words longer than three characters
// plus every category keyword that appears in the content.
func ExtractKeywords(path, content string) []string {
	set := newOrderedSet()
	for _, w := range wordRe.FindAllString(strings.ToLower(path), -1) {
		if len(w) > 3 {
			set.add(w)
		}
	}
	lower := strings.ToLower(content)
	for _, p := range allPatterns {
		if strings.Contains(lower, p) {
			set.add(p)
		}
	}
	return set.items
}
