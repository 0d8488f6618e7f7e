package onboarding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

func TestGetPartition_DefaultIsIdempotent(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.svc.GetPartition(ctx)
	require.NoError(t, err)
	second, err := h.svc.GetPartition(ctx)
	require.NoError(t, err)

	assert.True(t, first.SameAssignment(domain.DefaultPartition()))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.partitions.inits, "storage must be initialised at most once")
}

func TestSetPartition_ScenarioB(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.svc.SetPartition(ctx,
		[]domain.Component{domain.ComponentAboutMe, domain.ComponentAddress},
		[]domain.Component{domain.ComponentBirthdate},
	)
	require.NoError(t, err)
	assert.Equal(t, []domain.Component{domain.ComponentBirthdate}, p.StepThree)

	_, err = h.svc.SetPartition(ctx,
		[]domain.Component{domain.ComponentAboutMe},
		domain.AllComponents(),
	)
	requireErrCode(t, err, "invalid_partition")
	reason, _ := domain.PartitionReasonOf(err)
	assert.Equal(t, domain.PartitionOverlap, reason)

	// rejected write leaves the stored partition unchanged
	cur, err := h.svc.GetPartition(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Component{domain.ComponentAboutMe, domain.ComponentAddress}, cur.StepTwo)
	assert.Equal(t, 1, h.partitions.writes)
}

func TestSetPartition_ScenarioC_EmptyStep(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.SetPartition(context.Background(), domain.AllComponents(), nil)

	requireErrCode(t, err, "invalid_partition")
	reason, _ := domain.PartitionReasonOf(err)
	assert.Equal(t, domain.PartitionEmptyStep, reason)
	assert.Equal(t, 0, h.partitions.writes)

	entry, ok := h.audit.last("admin.set_partition")
	require.True(t, ok)
	assert.Equal(t, "rejected", entry.fields["result"])
	assert.Equal(t, "empty_step", entry.fields["reason"])
}

func TestSetPartition_NoOpWriteStillSucceeds(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	def := domain.DefaultPartition()

	_, err := h.svc.SetPartition(context.Background(), def.StepTwo, def.StepThree)
	require.NoError(t, err)
	_, err = h.svc.SetPartition(context.Background(), def.StepTwo, def.StepThree)
	require.NoError(t, err)

	assert.Equal(t, 2, h.partitions.writes)
	assert.Len(t, h.pub.configUpdated, 2)
}

func TestSetPartition_PublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.pub.err = errBoom

	_, err := h.svc.SetPartition(context.Background(),
		[]domain.Component{domain.ComponentBirthdate},
		[]domain.Component{domain.ComponentAboutMe, domain.ComponentAddress},
	)
	require.NoError(t, err)

	entry, ok := h.audit.last("events.publish")
	require.True(t, ok)
	assert.Equal(t, "onboarding.config.updated", entry.fields["event"])
}

func TestSetPartition_StoreError(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.partitions.writeErr = domain.ErrDBUnavailable(errBoom)

	def := domain.DefaultPartition()
	_, err := h.svc.SetPartition(context.Background(), def.StepTwo, def.StepThree)

	requireErrCode(t, err, "db_unavailable")
	assert.Empty(t, h.pub.configUpdated)
}
