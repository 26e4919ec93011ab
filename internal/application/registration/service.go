package registration

import (
	"github.com/samyukta/registration-service/internal/domain"
)

type Service struct {
	repo    Repo
	slots   Snapshotter
	pub     EventPublisher
	storage Presigner
	clock   Clock

	limits       domain.CapacityLimits
	prices       domain.PricingTable
	maxDeckBytes int64
}

type Options struct {
	Limits       domain.CapacityLimits
	Prices       domain.PricingTable
	MaxDeckBytes int64
}

func New(repo Repo, slots Snapshotter, pub EventPublisher, storage Presigner, clock Clock, opts Options) *Service {
	if pub == nil {
		pub = NoopPublisher{}
	}
	if opts.MaxDeckBytes <= 0 {
		opts.MaxDeckBytes = 10 << 20
	}
	return &Service{
		repo:         repo,
		slots:        slots,
		pub:          pub,
		storage:      storage,
		clock:        clock,
		limits:       opts.Limits,
		prices:       opts.Prices,
		maxDeckBytes: opts.MaxDeckBytes,
	}
}

func isAdmin(role string) bool { return role == "admin" }

func canView(r *domain.Registration, actorID, actorRole string) bool {
	return isAdmin(actorRole) || (actorID != "" && r.UserID == actorID)
}
