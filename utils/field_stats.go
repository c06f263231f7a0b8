package utils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// FieldRange summarizes the values of one field
type FieldRange struct {
	Count          int
	Min, Max, Mean float64
	HasNaN         bool
}

func (fr FieldRange) String() string {
	if fr.Count == 0 {
		return "empty"
	}
	return fmt.Sprintf("n=%d min=%g max=%g mean=%g", fr.Count, fr.Min, fr.Max, fr.Mean)
}

// ScalarRange reports the range of a scalar field
func ScalarRange(data []float64) (fr FieldRange) {
	fr.Count = len(data)
	if fr.Count == 0 {
		return
	}
	if fr.HasNaN = floats.HasNaN(data); fr.HasNaN {
		return
	}
	fr.Min, fr.Max = floats.Min(data), floats.Max(data)
	fr.Mean = floats.Sum(data) / float64(fr.Count)
	return
}

// VectorMagnitudeRange reports the range of the Euclidean norm of each vector
func VectorMagnitudeRange(data [][]float64) (fr FieldRange) {
	mag := make([]float64, len(data))
	for i, v := range data {
		mag[i] = floats.Norm(v, 2)
	}
	return ScalarRange(mag)
}
