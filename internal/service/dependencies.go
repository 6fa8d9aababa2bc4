package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ahmednasr/contexthub/internal/models"
)

const packageManifest = "package.json"

// ErrMalformedManifest means package.json exists but is not a valid manifest.
var ErrMalformedManifest = errors.New("malformed package.json")

type packageJSON struct {
	Name             string          `json:"name"`
	Dependencies     json.RawMessage `json:"dependencies"`
	DevDependencies  json.RawMessage `json:"devDependencies"`
	PeerDependencies json.RawMessage `json:"peerDependencies"`
}

// Dependencies reads package.json from ref and lists what it declares.
func (s *RepoService) Dependencies(ctx context.Context, ref RepoRef) (models.DependencyReport, error) {
	fc, err := s.gh.FetchFileContent(ctx, ref.Owner, ref.Name, packageManifest, ref.Branch)
	if err != nil {
		return models.DependencyReport{}, fmt.Errorf("fetch %s for %s: %w", packageManifest, ref, err)
	}

	report, err := ParsePackageJSON(fc.Content)
	if err != nil {
		return models.DependencyReport{}, fmt.Errorf("%s: %w", ref, err)
	}
	report.Owner, report.Repo, report.Branch = ref.Owner, ref.Name, ref.Branch
	log.Printf("[Repo Service] Loaded %d dependencies for %s", len(report.Dependencies), ref)
	return report, nil
}

// ParsePackageJSON extracts dependencies, devDependencies and
// peerDependencies, in that order, keeping each section's key order.
func ParsePackageJSON(content string) (models.DependencyReport, error) {
	var pkg packageJSON
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return models.DependencyReport{}, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}

	report := models.DependencyReport{
		PackageName:  pkg.Name,
		Dependencies: []models.Dependency{},
		Counts:       map[models.DependencyKind]int{},
	}
	sections := []struct {
		kind models.DependencyKind
		raw  json.RawMessage
	}{
		{models.DependencyProd, pkg.Dependencies},
		{models.DependencyDev, pkg.DevDependencies},
		{models.DependencyPeer, pkg.PeerDependencies},
	}
	for _, sec := range sections {
		deps, err := orderedSection(sec.raw, sec.kind)
		if err != nil {
			return models.DependencyReport{}, fmt.Errorf("%w: %s: %v", ErrMalformedManifest, sec.kind, err)
		}
		report.Dependencies = append(report.Dependencies, deps...)
		report.Counts[sec.kind] = len(deps)
	}
	return report, nil
}

// orderedSection walks a {"name": "version"} object token by token so the
// declaration order survives. Non-string versions keep their raw JSON text.
func orderedSection(raw json.RawMessage, kind models.DependencyKind) ([]models.Dependency, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object")
	}

	var deps []models.Dependency
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		var version string
		if err := json.Unmarshal(val, &version); err != nil {
			version = string(val)
		}
		deps = append(deps, models.Dependency{Name: name, Version: version, Kind: kind})
	}
	return deps, nil
}
