package vtk

import (
	"fmt"
	"strings"
)

// ElementType is one of the fixed set of cell shapes the writer can emit
type ElementType int

const (
	Tri3 ElementType = iota
	Tri6
	Quad4
	Hexa8
	Hexa20
	Tetra4
	Tetra10
	numElementTypes
)

type elementShape struct {
	name     string
	numNodes int
	cellCode int // VTK cell type identifier
}

// Downstream readers rely on these codes, do not renumber
var elementShapes = [numElementTypes]elementShape{
	Tri3:    {"tri3", 3, 5},
	Tri6:    {"tri6", 6, 22},
	Quad4:   {"quad4", 4, 9},
	Hexa8:   {"hexa8", 8, 12},
	Hexa20:  {"hexa20", 20, 25},
	Tetra4:  {"tetra4", 4, 10},
	Tetra10: {"tetra10", 10, 24},
}

// ElementTypes returns every supported element type in table order
func ElementTypes() (ets []ElementType) {
	ets = make([]ElementType, numElementTypes)
	for i := range ets {
		ets[i] = ElementType(i)
	}
	return
}

func (et ElementType) Valid() bool {
	return et >= 0 && et < numElementTypes
}

func (et ElementType) String() string {
	if !et.Valid() {
		return fmt.Sprintf("ElementType(%d)", int(et))
	}
	return elementShapes[et].name
}

// NumNodes is the connectivity length of one element, 0 for an invalid type
func (et ElementType) NumNodes() int {
	if !et.Valid() {
		return 0
	}
	return elementShapes[et].numNodes
}

// CellCode is the VTK cell type written to CELL_TYPES, -1 for an invalid type
func (et ElementType) CellCode() int {
	if !et.Valid() {
		return -1
	}
	return elementShapes[et].cellCode
}

func ParseElementType(name string) (et ElementType, err error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, shape := range elementShapes {
		if shape.name == key {
			et = ElementType(i)
			return
		}
	}
	err = fmt.Errorf("%w: %q", ErrUnknownElementType, name)
	return
}

func ElementTypeFromCellCode(code int) (et ElementType, err error) {
	for i, shape := range elementShapes {
		if shape.cellCode == code {
			et = ElementType(i)
			return
		}
	}
	err = fmt.Errorf("%w: no element type for VTK cell code %d", ErrUnknownElementType, code)
	return
}
