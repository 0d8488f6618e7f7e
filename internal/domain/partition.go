package domain

import (
	"slices"
	"strconv"
	"time"
)

// Step is one of the two dynamic onboarding steps. Step 1 (account) is fixed
// and never stored on a draft.
type Step int

const (
	StepTwo   Step = 2
	StepThree Step = 3
)

func (s Step) Valid() bool { return s == StepTwo || s == StepThree }

func (s Step) String() string { return strconv.Itoa(int(s)) }

// ParseStep parses a path/body step value.
func ParseStep(raw string) (Step, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || !Step(n).Valid() {
		return 0, ErrInvalidField("step", "must be 2 or 3")
	}
	return Step(n), nil
}

// PartitionKey is the constant key of the singleton configuration row.
const PartitionKey = 1

// Partition assigns every component to exactly one of step 2 / step 3.
type Partition struct {
	StepTwo   []Component
	StepThree []Component
	UpdatedAt time.Time
}

// DefaultPartition is materialised on first read.
func DefaultPartition() Partition {
	return Partition{
		StepTwo:   []Component{ComponentAboutMe},
		StepThree: []Component{ComponentAddress, ComponentBirthdate},
	}
}

// NewPartition normalises both sides (set semantics, canonical order) and
// checks the partition rules.
func NewPartition(stepTwo, stepThree []Component) (Partition, error) {
	p := Partition{
		StepTwo:   normalizeSide(stepTwo),
		StepThree: normalizeSide(stepThree),
	}
	if err := p.Validate(); err != nil {
		return Partition{}, err
	}
	return p, nil
}

// Validate enforces: no overlap, no empty side, every component placed.
// Reasons are reported in that order.
func (p Partition) Validate() error {
	for _, c := range p.StepTwo {
		if !c.Valid() {
			return ErrUnknownComponent(string(c))
		}
	}
	for _, c := range p.StepThree {
		if !c.Valid() {
			return ErrUnknownComponent(string(c))
		}
	}

	for _, c := range p.StepTwo {
		if slices.Contains(p.StepThree, c) {
			return ErrPartition(PartitionOverlap)
		}
	}
	if len(p.StepTwo) == 0 || len(p.StepThree) == 0 {
		return ErrPartition(PartitionEmptyStep)
	}
	for _, c := range allComponents {
		if !slices.Contains(p.StepTwo, c) && !slices.Contains(p.StepThree, c) {
			return ErrPartition(PartitionIncomplete)
		}
	}
	return nil
}

// ComponentsFor returns the components expected at the given step.
func (p Partition) ComponentsFor(step Step) []Component {
	switch step {
	case StepTwo:
		return slices.Clone(p.StepTwo)
	case StepThree:
		return slices.Clone(p.StepThree)
	}
	return nil
}

// StepOf reports which step c is placed on (0 if none).
func (p Partition) StepOf(c Component) Step {
	switch {
	case slices.Contains(p.StepTwo, c):
		return StepTwo
	case slices.Contains(p.StepThree, c):
		return StepThree
	}
	return 0
}

// SameAssignment ignores UpdatedAt.
func (p Partition) SameAssignment(o Partition) bool {
	return slices.Equal(normalizeSide(p.StepTwo), normalizeSide(o.StepTwo)) &&
		slices.Equal(normalizeSide(p.StepThree), normalizeSide(o.StepThree))
}

func normalizeSide(in []Component) []Component {
	out := make([]Component, 0, len(in))
	for _, c := range in {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b Component) int { return a.rank() - b.rank() })
	return out
}
