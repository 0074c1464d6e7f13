package domain

import (
	"fmt"
	"strings"
)

// Resource — источник данных, на котором работает текущая сессия репозитория.
type Resource string

const (
	ResourceLocal  Resource = "local"
	ResourceRemote Resource = "remote"
)

// Resources — все известные источники в порядке отображения.
func Resources() []Resource { return []Resource{ResourceLocal, ResourceRemote} }

// Valid — известен ли источник.
func (r Resource) Valid() bool {
	return r == ResourceLocal || r == ResourceRemote
}

func (r Resource) String() string { return string(r) }

// ParseResource разбирает строку без учёта регистра и пробелов.
func ParseResource(raw string) (Resource, error) {
	r := Resource(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResource, raw)
	}
	return r, nil
}
