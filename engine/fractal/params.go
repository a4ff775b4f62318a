package fractal

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/quatmesh/engine/math"
)

// Params fixes the escape-time map Z ← Z^Exponent + C.
type Params struct {
	C             math.Quaternion
	MaxIterations int
	// Iteration stops the first time |Z| >= Threshold.
	Threshold float32
	// 2 gives the classic quaternion Julia set. Any other value goes through
	// the same polar power map.
	Exponent float32
}

// DefaultParams is C = (0.3, 0.5, 0.4, 0.2) squared for 8 iterations.
func DefaultParams() Params {
	return Params{
		C:             math.NewQuat(0.3, 0.5, 0.4, 0.2),
		MaxIterations: 8,
		Threshold:     4.0,
		Exponent:      2.0,
	}
}

func (p Params) Validate() error {
	var errs []error
	if p.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max iterations must be positive, got %d", p.MaxIterations))
	}
	if !(p.Threshold > 0) {
		errs = append(errs, fmt.Errorf("escape threshold must be positive, got %v", p.Threshold))
	}
	if p.Exponent == 0 || !math.IsFinite(p.Exponent) {
		errs = append(errs, fmt.Errorf("exponent must be a finite non-zero value, got %v", p.Exponent))
	}
	return errors.Join(errs...)
}

// Trajectory is the ordered sequence of iterates of one seed, seed first.
type Trajectory []math.Quaternion

// Last returns the final iterate and false for an empty trajectory.
func (t Trajectory) Last() (math.Quaternion, bool) {
	if len(t) == 0 {
		return math.Quaternion{}, false
	}
	return t[len(t)-1], true
}

// Magnitude is |last iterate|, or 0 for the degenerate empty trajectory.
func (t Trajectory) Magnitude() float32 {
	last, ok := t.Last()
	if !ok {
		return 0
	}
	return last.Magnitude()
}

// Escaped reports whether the final iterate reached the threshold.
func (t Trajectory) Escaped(threshold float32) bool {
	return len(t) > 0 && t.Magnitude() >= threshold
}

// Iterate runs the escape-time map from seed. The result holds the seed and
// every iterate up to and including the first one whose magnitude reaches
// the threshold, at most MaxIterations+1 elements.
func Iterate(seed math.Quaternion, p Params) Trajectory {
	traj := make(Trajectory, 0, p.MaxIterations+1)
	z := seed
	traj = append(traj, z)
	for i := 0; i < p.MaxIterations; i++ {
		z = z.Pow(p.Exponent).Add(p.C)
		traj = append(traj, z)
		if z.Magnitude() >= p.Threshold {
			break
		}
	}
	return traj
}
