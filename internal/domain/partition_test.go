package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPartition_IsValid(t *testing.T) {
	p := DefaultPartition()

	require.NoError(t, p.Validate())
	assert.Equal(t, []Component{ComponentAboutMe}, p.StepTwo)
	assert.Equal(t, []Component{ComponentAddress, ComponentBirthdate}, p.StepThree)
}

func TestNewPartition_Rules(t *testing.T) {
	all := []Component{ComponentAboutMe, ComponentAddress, ComponentBirthdate}

	tests := []struct {
		name   string
		two    []Component
		three  []Component
		reason PartitionReason
	}{
		{"valid split", []Component{ComponentAboutMe, ComponentAddress}, []Component{ComponentBirthdate}, ""},
		{"overlap", []Component{ComponentAboutMe}, all, PartitionOverlap},
		{"empty step three", all, nil, PartitionEmptyStep},
		{"empty step two", nil, all, PartitionEmptyStep},
		{"missing component", []Component{ComponentAboutMe}, []Component{ComponentAddress}, PartitionIncomplete},
		{"overlap wins over incomplete", []Component{ComponentAboutMe}, []Component{ComponentAboutMe}, PartitionOverlap},
		{"empty wins over incomplete", []Component{ComponentAboutMe}, nil, PartitionEmptyStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPartition(tt.two, tt.three)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.NoError(t, p.Validate())
				return
			}
			reason, ok := PartitionReasonOf(err)
			require.True(t, ok, "expected invalid_partition, got %v", err)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestNewPartition_SetSemantics(t *testing.T) {
	p, err := NewPartition(
		[]Component{ComponentBirthdate, ComponentAboutMe, ComponentAboutMe},
		[]Component{ComponentAddress},
	)

	require.NoError(t, err)
	assert.Equal(t, []Component{ComponentAboutMe, ComponentBirthdate}, p.StepTwo)
	assert.Equal(t, []Component{ComponentAddress}, p.StepThree)
}

func TestNewPartition_UnknownComponent(t *testing.T) {
	_, err := NewPartition([]Component{"NICKNAME"}, []Component{ComponentAddress})

	assert.True(t, Is(err, "invalid_field"))
}

func TestPartition_StepOfAndComponentsFor(t *testing.T) {
	p := DefaultPartition()

	assert.Equal(t, StepTwo, p.StepOf(ComponentAboutMe))
	assert.Equal(t, StepThree, p.StepOf(ComponentBirthdate))
	assert.Equal(t, Step(0), p.StepOf("NICKNAME"))

	got := p.ComponentsFor(StepThree)
	got[0] = ComponentAboutMe
	assert.Equal(t, ComponentAddress, p.StepThree[0], "ComponentsFor must return a copy")
	assert.Nil(t, p.ComponentsFor(Step(1)))
}

func TestPartition_SameAssignment(t *testing.T) {
	a := DefaultPartition()
	b := Partition{
		StepTwo:   []Component{ComponentAboutMe},
		StepThree: []Component{ComponentBirthdate, ComponentAddress},
	}

	assert.True(t, a.SameAssignment(b))
	b.StepTwo = append(b.StepTwo, ComponentAddress)
	assert.False(t, a.SameAssignment(b))
}

func TestParseStep(t *testing.T) {
	s, err := ParseStep("3")
	require.NoError(t, err)
	assert.Equal(t, StepThree, s)

	for _, raw := range []string{"1", "4", "two", ""} {
		_, err := ParseStep(raw)
		assert.True(t, Is(err, "invalid_field"), raw)
	}
}

func TestParseComponent_Spellings(t *testing.T) {
	for _, raw := range []string{"ABOUT_ME", "about_me", "aboutMe"} {
		c, err := ParseComponent(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, ComponentAboutMe, c)
	}

	c, err := ParseComponent("address")
	require.NoError(t, err)
	assert.Equal(t, ComponentAddress, c)

	_, err = ParseComponents([]string{"BIRTHDATE", "PHONE"})
	assert.True(t, Is(err, "invalid_field"))
}
