package solver

import "fmt"

// Range describes one sensitivity axis: inclusive start and end with a
// positive step.
type Range struct {
	Start float64
	End   float64
	Step  float64
}

// Points expands the range into concrete inputs. End is included when it
// lands within half a step of the last point, so 0..1 step 0.25 yields five
// points despite float accumulation.
func (r Range) Points() ([]float64, error) {
	if r.Step <= 0 {
		return nil, fmt.Errorf("sensitivity step must be positive, got %g", r.Step)
	}
	if r.End < r.Start {
		return nil, fmt.Errorf("sensitivity range end %g precedes start %g", r.End, r.Start)
	}
	var out []float64
	for x := r.Start; x <= r.End+r.Step/2; x += r.Step {
		out = append(out, x)
	}
	return out, nil
}
