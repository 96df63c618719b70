package models

// CategoryCandidate is one entry of the flat name-to-identifier
// category list the caller supplies for an import. It is the only
// category data the pipeline reads from persistence.
type CategoryCandidate struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
