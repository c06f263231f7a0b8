package readfiles

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ghodss/yaml"
)

const (
	nodesKey    = "nodes"
	elementsKey = "elements"
)

/*
Fixture is a mesh with named field arrays in the JSON layout produced by the
solver drivers:

	{
	  "nodes":        [[id, x, y, z], ...],
	  "elements":     [[n0, n1, ...], ...],
	  "displacement": [[dx, dy, dz], ...],   // rows of 3 are vectors
	  "material_ID":  [1, 1, 2, ...]          // flat arrays are scalars
	}

Keys holding anything other than a numeric array are ignored. YAML input with
the same layout is accepted as well.
*/
type Fixture struct {
	Nodes    [][]float64 // Rows as stored, including the id column when present
	Elements [][]int
	Vectors  map[string][][]float64
	Scalars  map[string][]float64
}

func ReadFixture(filename string) (fx *Fixture, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to read fixture %s: %w", filename, err)
	}
	if fx, err = ParseFixture(data); err != nil {
		err = fmt.Errorf("parsing fixture %s: %w", filename, err)
	}
	return
}

func ParseFixture(data []byte) (fx *Fixture, err error) {
	var (
		raw map[string]interface{}
	)
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return
	}
	fx = &Fixture{
		Vectors: make(map[string][][]float64),
		Scalars: make(map[string][]float64),
	}
	if _, ok := raw[nodesKey]; !ok {
		return nil, fmt.Errorf("fixture has no %q array", nodesKey)
	}
	if _, ok := raw[elementsKey]; !ok {
		return nil, fmt.Errorf("fixture has no %q array", elementsKey)
	}
	if fx.Nodes, err = toRows(nodesKey, raw[nodesKey]); err != nil {
		return nil, err
	}
	if fx.Elements, err = toIndexRows(elementsKey, raw[elementsKey]); err != nil {
		return nil, err
	}
	for key, val := range raw {
		if key == nodesKey || key == elementsKey {
			continue
		}
		arr, ok := val.([]interface{})
		if !ok {
			continue
		}
		if len(arr) != 0 {
			if _, isRow := arr[0].([]interface{}); isRow {
				var rows [][]float64
				if rows, err = toRows(key, arr); err != nil {
					return nil, err
				}
				fx.Vectors[key] = rows
				continue
			}
		}
		var vals []float64
		if vals, err = toFloats(key, arr); err != nil {
			return nil, err
		}
		fx.Scalars[key] = vals
	}
	return
}

// NodeCoordinates returns x, y, z per node. With hasIDColumn the first entry of
// each row is dropped, it must number the rows consecutively from 0 or 1 since
// elements address nodes by row. Rows with two coordinates get z = 0.
func (fx *Fixture) NodeCoordinates(hasIDColumn bool) (coords [][]float64, err error) {
	skip := 0
	if hasIDColumn {
		skip = 1
		if err = fx.checkIDColumn(); err != nil {
			return
		}
	}
	coords = make([][]float64, len(fx.Nodes))
	for i, row := range fx.Nodes {
		n := len(row) - skip
		if n != 2 && n != 3 {
			return nil, fmt.Errorf("node %d has %d coordinates, want 2 or 3", i, n)
		}
		coords[i] = make([]float64, 3)
		copy(coords[i], row[skip:])
	}
	return
}

func (fx *Fixture) checkIDColumn() error {
	if len(fx.Nodes) == 0 || len(fx.Nodes[0]) == 0 {
		return nil
	}
	first := fx.Nodes[0][0]
	if first != 0 && first != 1 {
		return fmt.Errorf("node id column starts at %v, want 0 or 1 (set NodeIDColumn: false for plain coordinate rows)", first)
	}
	for i, row := range fx.Nodes {
		if len(row) == 0 || row[0] != first+float64(i) {
			return fmt.Errorf("node %d: id column is not consecutive (set NodeIDColumn: false for plain coordinate rows)", i)
		}
	}
	return nil
}

// FieldNames returns the vector and scalar array names in sorted order
func (fx *Fixture) FieldNames() (vectors, scalars []string) {
	for key := range fx.Vectors {
		vectors = append(vectors, key)
	}
	for key := range fx.Scalars {
		scalars = append(scalars, key)
	}
	sort.Strings(vectors)
	sort.Strings(scalars)
	return
}

func toRows(key string, val interface{}) (rows [][]float64, err error) {
	arr, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%q must be an array of arrays", key)
	}
	rows = make([][]float64, len(arr))
	for i, r := range arr {
		inner, ok := r.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%q[%d] must be an array", key, i)
		}
		if rows[i], err = toFloats(fmt.Sprintf("%s[%d]", key, i), inner); err != nil {
			return nil, err
		}
	}
	return
}

func toIndexRows(key string, val interface{}) (rows [][]int, err error) {
	var (
		fRows [][]float64
	)
	if fRows, err = toRows(key, val); err != nil {
		return
	}
	rows = make([][]int, len(fRows))
	for k, fr := range fRows {
		rows[k] = make([]int, len(fr))
		for i, f := range fr {
			if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
				return nil, fmt.Errorf("%q[%d][%d] = %v is not a node index", key, k, i, f)
			}
			rows[k][i] = int(f)
		}
	}
	return
}

func toFloats(key string, arr []interface{}) (vals []float64, err error) {
	vals = make([]float64, len(arr))
	for i, v := range arr {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%q[%d] is %T, want a number", key, i, v)
		}
		vals[i] = f
	}
	return
}
