package vtk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	FileVersion = "# vtk DataFile Version 2.0"
	FileExt     = ".vtk"
)

type sessionState uint8

const (
	stateCreated sessionState = iota
	stateMeshWritten
	stateFinalized
	stateFailed
)

func (s sessionState) String() string {
	return [...]string{"created", "mesh written", "finalized", "failed"}[s]
}

type fieldGroup uint8

const (
	noGroup fieldGroup = iota
	pointGroup
	cellGroup
)

/*
Writer streams one legacy VTK unstructured grid file. The sections are written
strictly in order:

	header -> WriteMesh -> zero or more WriteVectorField / WriteScalarField -> Finalize

A Writer owns its stream exclusively and is not safe for concurrent use.
Independent Writers on different files need no coordination.
*/
type Writer struct {
	path         string // empty when the session wraps a caller supplied stream
	title        string
	binary       bool
	bw           *bufio.Writer
	closer       io.Closer
	closed       bool
	rec          recordWriter
	state        sessionState
	group        fieldGroup
	nodeCount    int
	elementCount int
}

// Create makes outputDir if needed, truncates outputDir/fileName.vtk and writes the header.
// The title line of the file is fileName.
func Create(outputDir, fileName string, binaryMode bool) (w *Writer, err error) {
	var (
		file *os.File
		path = filepath.Join(outputDir, fileName+FileExt)
	)
	if err = os.MkdirAll(outputDir, 0o755); err != nil {
		err = &IOError{Op: "create directory", Path: outputDir, Err: err}
		return
	}
	if file, err = os.Create(path); err != nil {
		err = &IOError{Op: "create", Path: path, Err: err}
		return
	}
	w = newWriter(file, path, fileName, binaryMode)
	if err = w.writeHeader(); err != nil {
		_ = os.Remove(path)
		w = nil
	}
	return
}

// NewWriter runs a session over a caller supplied stream. If out is an io.Closer
// it is closed by Finalize.
func NewWriter(out io.Writer, title string, binaryMode bool) (w *Writer, err error) {
	w = newWriter(out, "", title, binaryMode)
	if err = w.writeHeader(); err != nil {
		w = nil
	}
	return
}

func newWriter(out io.Writer, path, title string, binaryMode bool) (w *Writer) {
	w = &Writer{
		path:   path,
		title:  title,
		binary: binaryMode,
		bw:     bufio.NewWriter(out),
	}
	if c, ok := out.(io.Closer); ok {
		w.closer = c
	}
	w.rec = newRecordWriter(w.bw, binaryMode)
	return
}

func (w *Writer) Path() string      { return w.path }
func (w *Writer) Binary() bool      { return w.binary }
func (w *Writer) NodeCount() int    { return w.nodeCount }
func (w *Writer) ElementCount() int { return w.elementCount }

func (w *Writer) writeHeader() error {
	mode := "ASCII"
	if w.binary {
		mode = "BINARY"
	}
	// The title is a single line in the format
	title := strings.NewReplacer("\r", " ", "\n", " ").Replace(w.title)
	return w.writeLines("write header", FileVersion, title, mode)
}

// WriteMesh writes the DATASET, POINTS, CELLS and CELL_TYPES sections. Every
// element must hold elementType.NumNodes() indices into nodes.
func (w *Writer) WriteMesh(nodes [][]float64, elements [][]int, elementType ElementType) (err error) {
	if err = w.checkState("write mesh", stateCreated); err != nil {
		return
	}
	if !elementType.Valid() {
		w.abandon()
		return fmt.Errorf("write mesh: %w: %v", ErrUnknownElementType, elementType)
	}
	var (
		Nv = elementType.NumNodes()
		N  = len(nodes)
		E  = len(elements)
	)
	if err = validateMesh(nodes, elements, Nv); err != nil {
		return fmt.Errorf("write mesh: %w", err)
	}

	if err = w.writeLines("write points",
		"DATASET UNSTRUCTURED_GRID",
		fmt.Sprintf("POINTS %d float", N)); err != nil {
		return
	}
	for _, node := range nodes {
		if err = w.rec.float32s(float32(node[0]), float32(node[1]), float32(node[2])); err != nil {
			return w.fail("write points", err)
		}
	}
	if err = w.endBlock("write points"); err != nil {
		return
	}

	if err = w.writeLines("write cells", fmt.Sprintf("CELLS %d %d", E, (Nv+1)*E)); err != nil {
		return
	}
	cell := make([]int32, Nv+1)
	cell[0] = int32(Nv)
	for _, elem := range elements {
		for i, ind := range elem {
			cell[i+1] = int32(ind)
		}
		if err = w.rec.int32s(cell...); err != nil {
			return w.fail("write cells", err)
		}
	}
	if err = w.endBlock("write cells"); err != nil {
		return
	}

	if err = w.writeLines("write cell types", fmt.Sprintf("CELL_TYPES %d", E)); err != nil {
		return
	}
	code := int32(elementType.CellCode())
	for range elements {
		if err = w.rec.int32s(code); err != nil {
			return w.fail("write cell types", err)
		}
	}
	if err = w.endBlock("write cell types"); err != nil {
		return
	}

	w.nodeCount, w.elementCount = N, E
	w.state = stateMeshWritten
	return
}

func validateMesh(nodes [][]float64, elements [][]int, Nv int) error {
	var (
		N = len(nodes)
		E = len(elements)
	)
	if N > math.MaxInt32 || E > math.MaxInt32/(Nv+1) {
		return fmt.Errorf("%w: %d nodes and %d elements exceed the 32-bit limits of the format",
			ErrSizeMismatch, N, E)
	}
	for i, node := range nodes {
		if len(node) != 3 {
			return fmt.Errorf("%w: node %d has %d coordinates, want 3", ErrSizeMismatch, i, len(node))
		}
	}
	for k, elem := range elements {
		if len(elem) != Nv {
			return fmt.Errorf("%w: element %d has %d nodes, want %d", ErrSizeMismatch, k, len(elem), Nv)
		}
		for _, ind := range elem {
			if ind < 0 || ind >= N {
				return fmt.Errorf("%w: element %d references node %d, mesh has %d nodes",
					ErrSizeMismatch, k, ind, N)
			}
		}
	}
	return nil
}

// WriteVectorField writes one 3-component vector per node. isGroupStart opens
// the POINT_DATA group, it must be set on the first point field.
func (w *Writer) WriteVectorField(name string, data [][]float64, isGroupStart bool) (err error) {
	op := "write vectors " + name
	if err = w.checkField(op, name, pointGroup, isGroupStart); err != nil {
		return
	}
	if len(data) != w.nodeCount {
		return fmt.Errorf("%s: %w: %d vectors for %d nodes", op, ErrSizeMismatch, len(data), w.nodeCount)
	}
	for i, v := range data {
		if len(v) != 3 {
			return fmt.Errorf("%s: %w: vector %d has %d components, want 3", op, ErrSizeMismatch, i, len(v))
		}
	}
	if isGroupStart {
		if err = w.writeLines(op, fmt.Sprintf("POINT_DATA %d", w.nodeCount)); err != nil {
			return
		}
		w.group = pointGroup
	}
	if err = w.writeLines(op, fmt.Sprintf("VECTORS %s double", name)); err != nil {
		return
	}
	for _, v := range data {
		if err = w.rec.float64s(v[0], v[1], v[2]); err != nil {
			return w.fail(op, err)
		}
	}
	return w.endBlock(op)
}

// WriteScalarField writes one value per element. isGroupStart opens the
// CELL_DATA group, it must be set on the first cell field.
func (w *Writer) WriteScalarField(name string, data []float64, isGroupStart bool) (err error) {
	op := "write scalars " + name
	if err = w.checkField(op, name, cellGroup, isGroupStart); err != nil {
		return
	}
	if len(data) != w.elementCount {
		return fmt.Errorf("%s: %w: %d values for %d elements", op, ErrSizeMismatch, len(data), w.elementCount)
	}
	if isGroupStart {
		if err = w.writeLines(op, fmt.Sprintf("CELL_DATA %d", w.elementCount)); err != nil {
			return
		}
		w.group = cellGroup
	}
	if err = w.writeLines(op, fmt.Sprintf("SCALARS %s double", name), "LOOKUP_TABLE default"); err != nil {
		return
	}
	for _, val := range data {
		if err = w.rec.float64s(val); err != nil {
			return w.fail(op, err)
		}
	}
	return w.endBlock(op)
}

// CheckFieldName accepts a non-empty name without whitespace, the format splits tokens on it
func CheckFieldName(name string) error {
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrFieldName, name)
	}
	return nil
}

func (w *Writer) checkField(op, name string, group fieldGroup, isGroupStart bool) (err error) {
	if err = w.checkState(op, stateMeshWritten); err != nil {
		return
	}
	if err = CheckFieldName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !isGroupStart && w.group != group {
		kind := "POINT_DATA"
		if group == cellGroup {
			kind = "CELL_DATA"
		}
		return fmt.Errorf("%s: %w: no open %s group, the first field of a group must start it",
			op, ErrSequence, kind)
	}
	return
}

// Finalize flushes and closes the stream. Calling it again is a no-op.
func (w *Writer) Finalize() (err error) {
	switch w.state {
	case stateFinalized:
		return
	case stateFailed:
		return fmt.Errorf("finalize: %w", ErrSessionFailed)
	}
	if err = w.bw.Flush(); err != nil {
		return w.fail("flush", err)
	}
	w.state = stateFinalized
	if err = w.close(); err != nil {
		err = &IOError{Op: "close", Path: w.path, Err: err}
	}
	return
}

// Abort releases the stream without completing the file and removes the
// partial file when the session created it. Aborting a finalized session does nothing.
func (w *Writer) Abort() (err error) {
	if w.state == stateFinalized {
		return
	}
	w.state = stateFailed
	if err = w.close(); err != nil {
		err = &IOError{Op: "close", Path: w.path, Err: err}
	}
	if w.path != "" {
		if rmErr := os.Remove(w.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = &IOError{Op: "remove", Path: w.path, Err: rmErr}
		}
	}
	return
}

func (w *Writer) checkState(op string, want sessionState) error {
	if w.state == stateFailed {
		return fmt.Errorf("%s: %w", op, ErrSessionFailed)
	}
	if w.state != want {
		return fmt.Errorf("%s: %w: session is %s", op, ErrSequence, w.state)
	}
	return nil
}

func (w *Writer) writeLines(op string, lines ...string) (err error) {
	for _, line := range lines {
		if _, err = w.bw.WriteString(line); err == nil {
			err = w.bw.WriteByte('\n')
		}
		if err != nil {
			return w.fail(op, err)
		}
	}
	return
}

func (w *Writer) endBlock(op string) (err error) {
	if err = w.rec.endBlock(); err != nil {
		return w.fail(op, err)
	}
	return
}

// fail moves the session to the failed state and releases the stream
func (w *Writer) fail(op string, err error) error {
	w.state = stateFailed
	_ = w.close()
	return &IOError{Op: op, Path: w.path, Err: err}
}

// abandon drops a session that can no longer produce a valid file
func (w *Writer) abandon() {
	_ = w.Abort()
}

func (w *Writer) close() (err error) {
	if w.closed {
		return
	}
	w.closed = true
	if w.closer != nil {
		err = w.closer.Close()
	}
	return
}
