package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// PartitionStore keeps the singleton assignment in process memory.
type PartitionStore struct {
	mu     sync.Mutex
	stored *domain.Partition
	now    func() time.Time
}

func NewPartitionStore() *PartitionStore {
	return &PartitionStore{now: time.Now}
}

func (s *PartitionStore) Read(ctx context.Context) (domain.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stored == nil {
		p := domain.DefaultPartition()
		p.UpdatedAt = s.now().UTC()
		s.stored = &p
	}
	return clonePartition(*s.stored), nil
}

func (s *PartitionStore) Write(ctx context.Context, p domain.Partition) (domain.Partition, error) {
	if err := p.Validate(); err != nil {
		return domain.Partition{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := clonePartition(p)
	next.UpdatedAt = s.now().UTC()
	s.stored = &next
	return clonePartition(next), nil
}

func clonePartition(p domain.Partition) domain.Partition {
	return domain.Partition{
		StepTwo:   p.ComponentsFor(domain.StepTwo),
		StepThree: p.ComponentsFor(domain.StepThree),
		UpdatedAt: p.UpdatedAt,
	}
}
