package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/vtklegacy/vtk"
)

type Material struct {
	ElementCount  int
	MaterialValue float64
	Title         string
}

// Gambit neutral element geometry codes (NTYPE)
const (
	gambitQuad  = 2
	gambitTri   = 3
	gambitBrick = 4
	gambitTet   = 6
)

// Gambit numbers brick vertices lexicographically, VTK walks each face around
var brickToVTK = []int{0, 1, 3, 2, 4, 5, 7, 6}

// ReadGambit reads a Gambit neutral file with linear triangles, quads, tets or bricks.
// Material groups become Grid.Materials, boundary sets become markers.
func ReadGambit(filename string) (g *Grid, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	if g, err = ParseGambit(file); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
	}
	return
}

func ParseGambit(r io.Reader) (g *Grid, err error) {
	var (
		reader             = bufio.NewReader(r)
		line               string
		Nv, K, Nmats, Nbcs int
		haveHeader         bool
		readMats, readBCs  int
		materialGroups     []*Material
	)
	g = &Grid{Markers: make(map[string]int)}
	for {
		if line, err = getLine(reader); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "NUMNP"):
			if Nv, K, Nmats, Nbcs, g.Dimension, err = readGambitHeader(reader); err != nil {
				return nil, err
			}
			haveHeader = true
		case strings.HasPrefix(line, "NODAL COORDINATES"):
			if !haveHeader {
				return nil, fmt.Errorf("NODAL COORDINATES found before the NUMNP header")
			}
			if err = g.readGambitVertices(reader, Nv); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "ELEMENTS/CELLS"):
			if !haveHeader {
				return nil, fmt.Errorf("ELEMENTS/CELLS found before the NUMNP header")
			}
			if err = g.readGambitElements(reader, K); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "ELEMENT GROUP"):
			var mat *Material
			if g.Elements == nil {
				return nil, fmt.Errorf("ELEMENT GROUP found before ELEMENTS/CELLS")
			}
			if mat, err = g.readMaterialGroup(reader); err != nil {
				return nil, err
			}
			materialGroups = append(materialGroups, mat)
			readMats++
		case strings.HasPrefix(line, "BOUNDARY CONDITIONS"):
			if err = g.readBoundarySet(reader); err != nil {
				return nil, err
			}
			readBCs++
		}
	}
	err = nil
	if !haveHeader || g.Nodes == nil || g.Elements == nil {
		return nil, fmt.Errorf("gambit file must contain the NUMNP header, NODAL COORDINATES and ELEMENTS/CELLS")
	}
	if readMats != Nmats {
		return nil, fmt.Errorf("header declares %d element groups, found %d", Nmats, readMats)
	}
	if readBCs != Nbcs {
		return nil, fmt.Errorf("header declares %d boundary sets, found %d", Nbcs, readBCs)
	}
	g.MaterialGroups = materialGroups
	return
}

func readGambitHeader(reader *bufio.Reader) (Nv, K, Nmats, Nbcs, Nsd int, err error) {
	/*
		Nv      // num nodes in mesh
		K       // num elements
		Nmats   // num material groups
		Nbcs    // num boundary groups
		Nsd;    // num space dimensions
	*/
	var (
		line string
		n    int
	)
	if line, err = getLine(reader); err != nil {
		return
	}
	nargs := 5
	if n, err = fmt.Sscanf(line, "%d %d %d %d %d", &Nv, &K, &Nmats, &Nbcs, &Nsd); err != nil || n < nargs {
		err = fmt.Errorf("read fewer than %d dimensions, read %d, line: %s", nargs, n, line)
		return
	}
	if Nsd > 3 || Nsd < 2 {
		err = fmt.Errorf("space dimensions not 2 or 3: %d", Nsd)
	}
	return
}

func (g *Grid) readGambitVertices(reader *bufio.Reader, Nv int) (err error) {
	var (
		line string
		ind  int
	)
	g.Nodes = make([][]float64, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = getLine(reader); err != nil {
			return fmt.Errorf("reading vertex %d of %d: %w", i, Nv, err)
		}
		fields := strings.Fields(line)
		if len(fields) < g.Dimension+1 {
			return fmt.Errorf("invalid vertex line [%s], expected an index and %d coordinates", line, g.Dimension)
		}
		if ind, err = strconv.Atoi(fields[0]); err != nil || ind < 1 || ind > Nv {
			return fmt.Errorf("invalid vertex index [%s], want 1..%d", fields[0], Nv)
		}
		coords := make([]float64, 3)
		for j := 0; j < g.Dimension; j++ {
			if coords[j], err = strconv.ParseFloat(fields[j+1], 64); err != nil {
				return fmt.Errorf("invalid coordinate in vertex %d: %w", ind, err)
			}
		}
		g.Nodes[ind-1] = coords
	}
	for i, node := range g.Nodes {
		if node == nil {
			return fmt.Errorf("vertex %d is missing", i+1)
		}
	}
	return
}

func gambitElementType(ntype, ndp int) (et vtk.ElementType, err error) {
	switch {
	case ntype == gambitTri && ndp == 3:
		et = vtk.Tri3
	case ntype == gambitQuad && ndp == 4:
		et = vtk.Quad4
	case ntype == gambitTet && ndp == 4:
		et = vtk.Tetra4
	case ntype == gambitBrick && ndp == 8:
		et = vtk.Hexa8
	default:
		err = fmt.Errorf("%w: gambit element NTYPE=%d with %d nodes", vtk.ErrUnknownElementType, ntype, ndp)
	}
	return
}

func (g *Grid) readGambitElements(reader *bufio.Reader, K int) (err error) {
	//---------------------------------------------
	// Tetrahedra in 3D:
	//---------------------------------------------
	// ENDOFSECTION
	//    ELEMENTS/CELLS 1.3.0
	//     1  6  4      248     247     385     265
	//     2  6  4      248     249     273     397
	//---------------------------------------------
	// Bricks carry the eighth vertex on a continuation line.
	var (
		line           string
		ind, ntype, nd int
		et             vtk.ElementType
	)
	g.Elements = make([][]int, K)
	for i := 0; i < K; i++ {
		if line, err = getLine(reader); err != nil {
			return fmt.Errorf("reading element %d of %d: %w", i, K, err)
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return fmt.Errorf("invalid element line [%s]", line)
		}
		if ind, err = strconv.Atoi(fields[0]); err != nil || ind < 1 || ind > K {
			return fmt.Errorf("invalid element index [%s], want 1..%d", fields[0], K)
		}
		if ntype, err = strconv.Atoi(fields[1]); err != nil {
			return fmt.Errorf("invalid element type in line [%s]", line)
		}
		if nd, err = strconv.Atoi(fields[2]); err != nil {
			return fmt.Errorf("invalid node count in line [%s]", line)
		}
		if et, err = gambitElementType(ntype, nd); err != nil {
			return fmt.Errorf("element %d: %w", ind, err)
		}
		if i == 0 {
			g.ElementType = et
		} else if et != g.ElementType {
			return fmt.Errorf("element %d is %s, mixed element types are not supported (first element is %s)",
				ind, et, g.ElementType)
		}
		verts := fields[3:]
		for len(verts) < nd {
			if line, err = getLine(reader); err != nil {
				return fmt.Errorf("reading vertices of element %d: %w", ind, err)
			}
			verts = append(verts, strings.Fields(line)...)
		}
		elem := make([]int, nd)
		for j := 0; j < nd; j++ {
			var v int
			if v, err = strconv.Atoi(verts[j]); err != nil || v < 1 || v > len(g.Nodes) {
				return fmt.Errorf("element %d: invalid node [%s], want 1..%d", ind, verts[j], len(g.Nodes))
			}
			elem[j] = v - 1
		}
		if et == vtk.Hexa8 {
			ordered := make([]int, nd)
			for j, from := range brickToVTK {
				ordered[j] = elem[from]
			}
			elem = ordered
		}
		g.Elements[ind-1] = elem
	}
	for k, elem := range g.Elements {
		if elem == nil {
			return fmt.Errorf("element %d is missing", k+1)
		}
	}
	return
}

func (g *Grid) readMaterialGroup(reader *bufio.Reader) (mat *Material, err error) {
	/*
	   GROUP:           1 ELEMENTS:        977 MATERIAL:      1.000 NFLAGS:          0
	                     epsilon: 1.000
	          0
	*/
	var (
		line string
		n    int
	)
	if line, err = getLine(reader); err != nil {
		return
	}
	mat = &Material{}
	var gn int
	nargs := 3
	if n, err = fmt.Sscanf(line, "GROUP: %d ELEMENTS: %d MATERIAL: %f", &gn, &mat.ElementCount, &mat.MaterialValue); err != nil || n < nargs {
		return nil, fmt.Errorf("read fewer than %d group values, read %d, line: %s", nargs, n, line)
	}
	if line, err = getLine(reader); err != nil {
		return nil, fmt.Errorf("reading title of group %d: %w", gn, err)
	}
	mat.Title = strings.TrimSpace(line)
	if err = skipLines(1, reader); err != nil {
		return nil, fmt.Errorf("reading flags of group %d: %w", gn, err)
	}
	if g.Materials == nil {
		g.Materials = make([]float64, len(g.Elements))
	}
	for read := 0; read < mat.ElementCount; {
		if line, err = getLine(reader); err != nil {
			return nil, fmt.Errorf("reading elements of group %d: %w", gn, err)
		}
		for _, f := range strings.Fields(line) {
			var k int
			if k, err = strconv.Atoi(f); err != nil || k < 1 || k > len(g.Elements) {
				return nil, fmt.Errorf("group %d: invalid element [%s]", gn, f)
			}
			g.Materials[k-1] = mat.MaterialValue
			read++
		}
	}
	return
}

func (g *Grid) readBoundarySet(reader *bufio.Reader) (err error) {
	var (
		line     string
		numfaces int
	)
	if line, err = getLine(reader); err != nil {
		return
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return fmt.Errorf("invalid boundary set line [%s]", line)
	}
	label := fields[0]
	if numfaces, err = strconv.Atoi(fields[2]); err != nil {
		return fmt.Errorf("invalid entry count for boundary set %s: %w", label, err)
	}
	if err = skipLines(numfaces, reader); err != nil {
		return fmt.Errorf("reading boundary set %s: %w", label, err)
	}
	if _, ok := g.Markers[label]; !ok {
		g.MarkerOrder = append(g.MarkerOrder, label)
	}
	g.Markers[label] += numfaces
	return
}
