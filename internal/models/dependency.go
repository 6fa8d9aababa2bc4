package models

// DependencyKind is the package.json section a dependency is declared in.
type DependencyKind string

const (
	DependencyProd DependencyKind = "dependency"
	DependencyDev  DependencyKind = "devDependency"
	DependencyPeer DependencyKind = "peerDependency"
)

// Dependency is one declared package.
type Dependency struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Kind    DependencyKind `json:"type"`
}

// DependencyReport lists the dependencies declared by a repository's
// package.json, in declaration order within each section.
type DependencyReport struct {
	Owner        string                 `json:"owner"`
	Repo         string                 `json:"repo"`
	Branch       string                 `json:"branch"`
	PackageName  string                 `json:"package_name,omitempty"`
	Dependencies []Dependency           `json:"dependencies"`
	Counts       map[DependencyKind]int `json:"counts"`
}
