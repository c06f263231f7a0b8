package readfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureJSON = []byte(`{
  "nodes": [[1, 0.0, 0.0, 0.0], [2, 1.0, 0.0, 0.0], [3, 0.0, 1.0, 0.0], [4, 0.0, 0.0, 1.0]],
  "elements": [[0, 1, 2, 3]],
  "displacement": [[0.1, 0, 0], [0.2, 0, 0], [0.3, 0, 0], [0.4, 0, 0]],
  "velocity": [[0, 1, 0], [0, 1, 0], [0, 1, 0], [0, 1, 0]],
  "material_ID": [7],
  "material_value": [2.5e9],
  "title": "tet fixture"
}`)

func TestParseFixture(t *testing.T) {
	fx, err := ParseFixture(fixtureJSON)
	require.NoError(t, err)
	require.Len(t, fx.Nodes, 4)
	assert.Equal(t, []float64{2, 1, 0, 0}, fx.Nodes[1])
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, fx.Elements)
	assert.Equal(t, []float64{0.3, 0, 0}, fx.Vectors["displacement"][2])
	assert.Equal(t, []float64{7}, fx.Scalars["material_ID"])
	assert.Equal(t, []float64{2.5e9}, fx.Scalars["material_value"])

	vectors, scalars := fx.FieldNames()
	assert.Equal(t, []string{"displacement", "velocity"}, vectors)
	assert.Equal(t, []string{"material_ID", "material_value"}, scalars)

	coords, err := fx.NodeCoordinates(true)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, coords[3])
	_, err = fx.NodeCoordinates(false)
	assert.Error(t, err, "four columns without an id column are not coordinates")
}

func TestParseFixture_YAMLAnd2D(t *testing.T) {
	fx, err := ParseFixture([]byte(`
nodes:
  - [0, 0]
  - [1, 0]
  - [0, 1]
elements:
  - [0, 1, 2]
temperature: [300]
`))
	require.NoError(t, err)
	coords, err := fx.NodeCoordinates(false)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, coords)
	assert.Equal(t, []float64{300}, fx.Scalars["temperature"])
}

func TestParseFixture_Errors(t *testing.T) {
	cases := map[string]string{
		"no nodes":         `{"elements": [[0]]}`,
		"no elements":      `{"nodes": [[0, 0, 0]]}`,
		"fractional index": `{"nodes": [[0, 0, 0]], "elements": [[0.5]]}`,
		"ragged field":     `{"nodes": [[0, 0, 0]], "elements": [[0]], "v": [[1, 2, 3], 4]}`,
		"text in scalars":  `{"nodes": [[0, 0, 0]], "elements": [[0]], "s": [1, "two"]}`,
		"not an object":    `[1, 2, 3]`,
	}
	for name, content := range cases {
		_, err := ParseFixture([]byte(content))
		assert.Error(t, err, name)
	}
}

func TestNodeCoordinates_IDColumn(t *testing.T) {
	{ // Plain x, y, z rows are not mistaken for an id and two coordinates
		fx, err := ParseFixture([]byte(`{"nodes": [[0.5, 0, 0], [1.5, 0, 0], [0.5, 1, 0]], "elements": [[0, 1, 2]]}`))
		require.NoError(t, err)
		_, err = fx.NodeCoordinates(true)
		assert.ErrorContains(t, err, "NodeIDColumn: false")
		coords, err := fx.NodeCoordinates(false)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, 0, 0}, coords[1])
	}
	{ // Integer x values that do not count up are refused too
		fx, err := ParseFixture([]byte(`{"nodes": [[0, 0, 0], [1, 0, 0], [1, 1, 0]], "elements": [[0, 1, 2]]}`))
		require.NoError(t, err)
		_, err = fx.NodeCoordinates(true)
		assert.ErrorContains(t, err, "node 2")
	}
	{ // Zero based ids are accepted
		fx, err := ParseFixture([]byte(`{"nodes": [[0, 0, 0, 0], [1, 1, 0, 0], [2, 0, 1, 0]], "elements": [[0, 1, 2]]}`))
		require.NoError(t, err)
		coords, err := fx.NodeCoordinates(true)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1, 0}, coords[2])
	}
}

func TestReadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.json")
	require.NoError(t, os.WriteFile(path, fixtureJSON, 0o644))
	fx, err := ReadFixture(path)
	require.NoError(t, err)
	assert.Len(t, fx.Vectors, 2)

	_, err = ReadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
