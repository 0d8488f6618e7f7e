package onboarding

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// GetPartition returns the current assignment, creating the default on first use.
func (s *Service) GetPartition(ctx context.Context) (domain.Partition, error) {
	return s.partitions.Read(ctx)
}

// SetPartition validates and stores a new assignment. A rejected write leaves
// the stored partition unchanged.
func (s *Service) SetPartition(ctx context.Context, stepTwo, stepThree []domain.Component) (domain.Partition, error) {
	const action = "admin.set_partition"

	fields := map[string]string{
		"step_two":   strings.Join(domain.ComponentNames(stepTwo), ","),
		"step_three": strings.Join(domain.ComponentNames(stepThree), ","),
	}

	p, err := domain.NewPartition(stepTwo, stepThree)
	if err != nil {
		fields["result"] = "rejected"
		fields["error_code"] = domainCode(err)
		if reason, ok := domain.PartitionReasonOf(err); ok {
			fields["reason"] = string(reason)
		}
		s.audit(action, fields)
		return domain.Partition{}, err
	}

	stored, err := s.partitions.Write(ctx, p)
	if err != nil {
		fields["result"] = "error"
		fields["error_code"] = domainCode(err)
		s.audit(action, fields)
		return domain.Partition{}, err
	}

	fields["result"] = "ok"
	s.audit(action, fields)

	evt := ConfigUpdatedEvent{
		StepTwo:   domain.ComponentNames(stored.StepTwo),
		StepThree: domain.ComponentNames(stored.StepThree),
		UpdatedAt: stored.UpdatedAt,
	}
	if err := s.pub.PublishConfigUpdated(ctx, evt); err != nil {
		s.publishFailed("onboarding.config.updated", err, nil)
	}
	return stored, nil
}
