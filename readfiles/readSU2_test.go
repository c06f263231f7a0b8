package readfiles

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/vtklegacy/vtk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSU2(t *testing.T) {
	{ // Test reading the token helpers
		reader := bufioReader(inputFile)
		line, err := getLineNoComments(reader)
		require.NoError(t, err)
		assert.Equal(t, "NDIME= 2", line)
		nelem, err := readNumber(reader, "NELEM")
		require.NoError(t, err)
		assert.Equal(t, 22, nelem)
		require.NoError(t, skipLines(22, reader))
		_, err = readLabel(reader, "MARKER_TAG")
		assert.Error(t, err)
	}
	{ // Test read elements, vertices and markers
		g, err := ParseSU2(bytes.NewReader(inputFile))
		require.NoError(t, err)
		assert.Equal(t, 2, g.Dimension)
		assert.Equal(t, vtk.Tri3, g.ElementType)
		require.Len(t, g.Elements, 22)
		assert.Equal(t, []int{15, 11, 17}, g.Elements[21])
		require.Len(t, g.Nodes, 18)
		assert.Equal(t, []float64{-7.100939331382065, 2.889910324036197, 0}, g.Nodes[17])
		assert.Equal(t, []string{"periodic-left", "periodic-right", "top", "bottom"}, g.MarkerOrder)
		assert.Equal(t, map[string]int{"periodic-left": 2, "periodic-right": 2, "top": 4, "bottom": 4}, g.Markers)
	}
}

func TestReadSU2_Hexa(t *testing.T) {
	content := `NDIME= 3
NPOIN= 8
0 0 0 0
1 0 0 1
1 1 0 2
0 1 0 3
0 0 1 4
1 0 1 5
1 1 1 6
0 1 1 7
NELEM= 1
12 0 1 2 3 4 5 6 7 0
NMARK= 0`
	path := filepath.Join(t.TempDir(), "cube.su2")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	g, err := ReadSU2(path)
	require.NoError(t, err)
	assert.Equal(t, vtk.Hexa8, g.ElementType)
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4, 5, 6, 7}}, g.Elements)
	assert.Equal(t, []float64{1, 1, 1}, g.Nodes[6])
	assert.Empty(t, g.Markers)
}

func TestReadSU2_Errors(t *testing.T) {
	cases := map[string]string{
		"mixed types":    "NDIME= 3\nNELEM= 2\n10 0 1 2 3\n12 0 1 2 3 0 1 2 3\nNPOIN= 4\n0 0 0\n1 0 0\n0 1 0\n0 0 1\n",
		"unknown type":   "NDIME= 3\nNELEM= 1\n13 0 1 2 3 0 1\n",
		"short element":  "NDIME= 2\nNELEM= 1\n5 0 1\n",
		"bad index":      "NDIME= 2\nNELEM= 1\n5 0 1 7\nNPOIN= 3\n0 0\n1 0\n0 1\n",
		"truncated":      "NDIME= 2\nNPOIN= 3\n0 0\n",
		"no elements":    "NDIME= 2\nNPOIN= 1\n0 0\n",
		"bad dimension":  "NDIME= 4\n",
		"missing equals": "NDIME 2\n",
		"unknown key":    "NFOO= 2\n",
	}
	for name, content := range cases {
		_, err := ParseSU2(strings.NewReader(content))
		assert.Error(t, err, name)
	}
	_, err := ReadSU2(filepath.Join(t.TempDir(), "missing.su2"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

var (
	inputFile = []byte(` %This is an example input file in SU2 format, output from gmsh
% Comments can appear outside of data areas
NDIME= 2
% Comments can appear outside of data areas
NELEM= 22
5 5 6 13 0
5 9 10 12 1
5 12 5 13 2
5 9 12 13 3
5 13 6 14 4
5 12 10 15 5
5 8 9 13 6
5 4 5 12 7
5 1 7 14 8
5 6 1 14 9
5 3 11 15 10
5 10 3 15 11
5 8 13 16 12
5 4 12 17 13
5 13 14 16 14
5 12 15 17 15
5 7 2 16 16
5 11 0 17 17
5 2 8 16 18
5 0 4 17 19
5 14 7 16 20
5 15 11 17 21
% Comments can appear outside of data areas
NPOIN= 18
-10 0 0
10 0 1
10 10 2
-10 10 3
-5.000000000004944 0 4
-1.231725832440134e-11 0 5
4.99999999999384 0 6
10 4.999999999992398 7
5.000000000004944 10 8
1.231725832440134e-11 10 9
-4.99999999999384 10 10
-10 5 11
-2.500000000008632 4.330127018915808 12
2.50000000000863 5.669872981084192 13
6.712741669205853 3.668411415814691 14
-6.712741669205681 6.331588584184096 15
7.100939331384343 7.110089675963254 16
-7.100939331382065 2.889910324036197 17
NMARK= 4
% Comments can appear outside of data areas
MARKER_TAG= periodic-left
% Comments can appear outside of data areas
MARKER_ELEMS= 2
3 3 11
3 11 0
% Comments can appear outside of data areas
MARKER_TAG= periodic-right
MARKER_ELEMS= 2
3 1 7
3 7 2
% Comments can appear outside of data areas
MARKER_TAG= top
MARKER_ELEMS= 4
3 2 8
3 8 9
3 9 10
3 10 3
MARKER_TAG= bottom
% Comments can appear outside of data areas
MARKER_ELEMS= 4
3 0 4
3 4 5
3 5 6
3 6 1
% Comments can appear outside of data areas
`)
)

func bufioReader(data []byte) *bufio.Reader {
	return bufio.NewReader(bytes.NewReader(data))
}
