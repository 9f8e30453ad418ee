package domain

type State struct {
	ID   int64
	Name string
	Slug string
}

// NewState validates name and derives the state's slug. The ID is assigned by the store.
func NewState(name string) (*State, error) {
	name, slug, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return &State{Name: name, Slug: slug}, nil
}
