package location

type Service struct {
	repo  Repo
	pub   EventPublisher
	clock Clock
}

func New(repo Repo, clock Clock, pub EventPublisher) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	return &Service{
		repo:  repo,
		pub:   pub,
		clock: clock,
	}
}
