package service

import "github.com/mansoorceksport/fitbuddy/internal/domain"

// PlannedValues are the effective prescription of a planned exercise once
// request values and exercise defaults have been combined.
type PlannedValues struct {
	Sets                  int
	RepsPerSet            int
	RestPeriodBetweenSets *int
}

// ResolveExerciseDefaults fills every value missing from the request with the
// exercise template default. Explicit values always win, including zero.
func ResolveExerciseDefaults(in domain.PlannedExerciseInput, ex *domain.Exercise) PlannedValues {
	v := PlannedValues{
		Sets:                  ex.DefaultSets,
		RepsPerSet:            ex.DefaultRepsPerSet,
		RestPeriodBetweenSets: copyInt(ex.DefaultRestPeriodBetweenSets),
	}
	if in.Sets != nil {
		v.Sets = *in.Sets
	}
	if in.RepsPerSet != nil {
		v.RepsPerSet = *in.RepsPerSet
	}
	if in.RestPeriodBetweenSets != nil {
		v.RestPeriodBetweenSets = copyInt(in.RestPeriodBetweenSets)
	}
	return v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
