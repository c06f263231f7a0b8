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

// Grid is an unstructured mesh with a single element type
type Grid struct {
	Dimension   int
	Nodes       [][]float64 // Always 3 coordinates, z = 0 for 2D grids
	Elements    [][]int
	ElementType vtk.ElementType
	Markers     map[string]int // Boundary marker tag to number of boundary elements
	MarkerOrder []string
	// Per element material value and the groups it came from, nil when the format has none
	Materials      []float64
	MaterialGroups []*Material
}

// From here: https://su2code.github.io/docs_v7/Mesh-File/
// SU2 element identifiers are VTK cell codes, so the element table is shared with the writer.

// ReadSU2 reads an SU2 native grid. All volume elements must share one type.
func ReadSU2(filename string) (g *Grid, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open file %s: %w", filename, err)
	}
	defer file.Close()
	if g, err = ParseSU2(file); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
	}
	return
}

func ParseSU2(r io.Reader) (g *Grid, err error) {
	var (
		reader = bufio.NewReader(r)
		line   string
	)
	g = &Grid{Markers: make(map[string]int)}
	for {
		if line, err = getLineNoComments(reader); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("badly formed input line [%s], should have an =", line)
		}
		switch strings.TrimSpace(key) {
		case "NDIME":
			if g.Dimension, err = parseNumber(value); err != nil {
				return nil, err
			}
			if g.Dimension != 2 && g.Dimension != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", g.Dimension)
			}
		case "NELEM":
			if err = g.readElements(reader, value); err != nil {
				return nil, err
			}
		case "NPOIN":
			if g.Dimension == 0 {
				return nil, fmt.Errorf("NPOIN found before NDIME")
			}
			if err = g.readVertices(reader, value); err != nil {
				return nil, err
			}
		case "NMARK":
			if err = g.readMarkers(reader, value); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown SU2 keyword [%s]", key)
		}
	}
	err = nil
	if g.Nodes == nil || g.Elements == nil {
		return nil, fmt.Errorf("SU2 grid must contain NPOIN and NELEM sections")
	}
	N := len(g.Nodes)
	for k, elem := range g.Elements {
		for _, ind := range elem {
			if ind < 0 || ind >= N {
				return nil, fmt.Errorf("element %d: node index %d out of range [0,%d)", k, ind, N)
			}
		}
	}
	return
}

func (g *Grid) readElements(reader *bufio.Reader, value string) (err error) {
	var (
		K, code int
		line    string
		et      vtk.ElementType
	)
	if K, err = parseNumber(value); err != nil {
		return
	}
	g.Elements = make([][]int, K)
	for k := 0; k < K; k++ {
		if line, err = getLine(reader); err != nil {
			return fmt.Errorf("reading element %d of %d: %w", k, K, err)
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("invalid element line [%s]", line)
		}
		if code, err = strconv.Atoi(fields[0]); err != nil {
			return fmt.Errorf("invalid element type [%s]: %w", fields[0], err)
		}
		if et, err = vtk.ElementTypeFromCellCode(code); err != nil {
			return fmt.Errorf("element %d: %w", k, err)
		}
		if k == 0 {
			g.ElementType = et
		} else if et != g.ElementType {
			return fmt.Errorf("element %d is %s, mixed element types are not supported (first element is %s)",
				k, et, g.ElementType)
		}
		Nv := et.NumNodes()
		if len(fields) < Nv+1 {
			return fmt.Errorf("element type %s expects %d nodes, got %d fields", et, Nv, len(fields)-1)
		}
		g.Elements[k] = make([]int, Nv)
		for i := 0; i < Nv; i++ {
			if g.Elements[k][i], err = strconv.Atoi(fields[i+1]); err != nil {
				return fmt.Errorf("invalid node index in element %d: %w", k, err)
			}
		}
	}
	return
}

func (g *Grid) readVertices(reader *bufio.Reader, value string) (err error) {
	var (
		Nv   int
		line string
	)
	if Nv, err = parseNumber(value); err != nil {
		return
	}
	g.Nodes = make([][]float64, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = getLine(reader); err != nil {
			return fmt.Errorf("reading vertex %d of %d: %w", i, Nv, err)
		}
		fields := strings.Fields(line)
		if len(fields) < g.Dimension {
			return fmt.Errorf("invalid vertex line [%s], expected at least %d coordinates", line, g.Dimension)
		}
		coords := make([]float64, 3)
		for j := 0; j < g.Dimension; j++ {
			if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
				return fmt.Errorf("invalid coordinate in vertex %d: %w", i, err)
			}
		}
		g.Nodes[i] = coords
	}
	return
}

func (g *Grid) readMarkers(reader *bufio.Reader, value string) (err error) {
	var (
		nMark, nElems int
		label         string
	)
	if nMark, err = parseNumber(value); err != nil {
		return
	}
	for n := 0; n < nMark; n++ {
		if label, err = readLabel(reader, "MARKER_TAG"); err != nil {
			return
		}
		if nElems, err = readNumber(reader, "MARKER_ELEMS"); err != nil {
			return
		}
		if err = skipLines(nElems, reader); err != nil {
			return fmt.Errorf("reading marker %s: %w", label, err)
		}
		if _, ok := g.Markers[label]; !ok {
			g.MarkerOrder = append(g.MarkerOrder, label)
		}
		g.Markers[label] += nElems
	}
	return
}

func getToken(reader *bufio.Reader, key string) (token string, err error) {
	var (
		line string
	)
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	k, v, found := strings.Cut(line, "=")
	if !found || strings.TrimSpace(k) != key {
		return "", fmt.Errorf("expected %s=, got [%s]", key, line)
	}
	token = v
	return
}

func readLabel(reader *bufio.Reader, key string) (label string, err error) {
	var (
		token string
	)
	if token, err = getToken(reader, key); err != nil {
		return
	}
	if label = strings.TrimSpace(token); label == "" {
		err = fmt.Errorf("unable to read label from %s", key)
	}
	return
}

func readNumber(reader *bufio.Reader, key string) (num int, err error) {
	var (
		token string
	)
	if token, err = getToken(reader, key); err != nil {
		return
	}
	return parseNumber(token)
}

func parseNumber(token string) (num int, err error) {
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
	}
	return
}

// getLineNoComments skips comment lines starting with %, trailing comments are dropped
func getLineNoComments(reader *bufio.Reader) (line string, err error) {
	for {
		if line, err = getLine(reader); err != nil {
			return
		}
		if ind := strings.Index(line, "%"); ind >= 0 {
			line = line[:ind]
		}
		if line = strings.TrimSpace(line); line != "" {
			return
		}
	}
}

// getLine returns io.EOF only when no data is left
func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		return
	}
	line = strings.TrimRight(line, "\r\n")
	return
}

func skipLines(n int, reader *bufio.Reader) (err error) {
	for i := 0; i < n; i++ {
		if _, err = getLine(reader); err != nil {
			return
		}
	}
	return
}
