package vtk

// FieldBlock is one attribute block written after the mesh, either a
// VectorField (point data) or a ScalarField (cell data).
type FieldBlock interface {
	writeTo(w *Writer) error
}

// VectorField holds one 3-component vector per node
type VectorField struct {
	Name        string
	Data        [][]float64
	StartsGroup bool // emit POINT_DATA before this block
}

func (f VectorField) writeTo(w *Writer) error {
	return w.WriteVectorField(f.Name, f.Data, f.StartsGroup)
}

// ScalarField holds one value per element
type ScalarField struct {
	Name        string
	Data        []float64
	StartsGroup bool // emit CELL_DATA before this block
}

func (f ScalarField) writeTo(w *Writer) error {
	return w.WriteScalarField(f.Name, f.Data, f.StartsGroup)
}

// WriteField writes a single attribute block
func (w *Writer) WriteField(fb FieldBlock) error {
	return fb.writeTo(w)
}

// WriteFields writes the blocks in order, stopping at the first error
func (w *Writer) WriteFields(blocks ...FieldBlock) (err error) {
	for _, fb := range blocks {
		if err = fb.writeTo(w); err != nil {
			return
		}
	}
	return
}
