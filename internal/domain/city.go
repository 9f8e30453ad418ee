package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxNameLen bounds state and city names.
const MaxNameLen = 50

type City struct {
	ID      int64
	Name    string
	Slug    string
	StateID int64

	// StateSlug is filled by reads that join the owning state.
	StateSlug string
}

// NewCity validates name and derives the slug for a city owned by state.
func NewCity(name string, state *State) (*City, error) {
	if state == nil || state.ID == 0 {
		return nil, ErrNotFound("state not found")
	}
	name, slug, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return &City{
		Name:      name,
		Slug:      slug,
		StateID:   state.ID,
		StateSlug: state.Slug,
	}, nil
}

func validateName(raw string) (name, slug string, err error) {
	name = strings.TrimSpace(raw)
	if name == "" {
		return "", "", ErrValidationMeta("invalid name", map[string]string{
			"name": "this field is required",
		})
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", "", ErrValidationMeta("invalid name", map[string]string{
			"name": "must be <= 50 chars",
		})
	}
	slug = Slugify(name)
	if slug == "" {
		return "", "", ErrValidationMeta("invalid name", map[string]string{
			"name": "must contain at least one letter or digit",
		})
	}
	return name, slug, nil
}
