package core

import (
	"errors"
)

var (
	ErrEvaluatorUnavailable = errors.New("field evaluator unavailable")
	ErrEmptyMesh            = errors.New("mesh has no triangles, nothing to write")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrPlaneSize            = errors.New("trajectory count does not match plane size")
)
