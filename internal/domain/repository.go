package domain

// Repository identifies a hosted repository, e.g. a template to generate from.
type Repository struct {
	Owner     string
	Name      string
	RemoteURL string
}
