package readfiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notargets/vtklegacy/vtk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGambit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.neu")
	require.NoError(t, os.WriteFile(path, []byte(gambitSquare), 0o644))
	g, err := ReadGambit(path)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Dimension)
	assert.Equal(t, vtk.Tri3, g.ElementType)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}}, g.Elements)
	assert.Equal(t, []float64{1, 1, 0}, g.Nodes[2])
	assert.Equal(t, []float64{2, 4}, g.Materials)
	require.Len(t, g.MaterialGroups, 2)
	assert.Equal(t, "solid", g.MaterialGroups[1].Title)
	assert.Equal(t, 1, g.MaterialGroups[1].ElementCount)
	assert.Equal(t, []string{"wall"}, g.MarkerOrder)
	assert.Equal(t, 2, g.Markers["wall"])

	_, err = ReadGambit(filepath.Join(t.TempDir(), "missing.neu"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseGambit_Brick(t *testing.T) {
	content := `     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8         1         0         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.0   0.0   0.0
         2   1.0   0.0   0.0
         3   0.0   1.0   0.0
         4   1.0   1.0   0.0
         5   0.0   0.0   1.0
         6   1.0   0.0   1.0
         7   0.0   1.0   1.0
         8   1.0   1.0   1.0
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
       1  4  8        1       2       3       4       5       6       7
                      8
ENDOFSECTION
`
	g, err := ParseGambit(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, vtk.Hexa8, g.ElementType)
	assert.Equal(t, [][]int{{0, 1, 3, 2, 4, 5, 7, 6}}, g.Elements)
	assert.Nil(t, g.Materials)
	assert.Empty(t, g.Markers)
}

func TestParseGambit_Errors(t *testing.T) {
	header := "NUMNP NELEM NGRPS NBSETS NDFCD NDFVL\n"
	cases := map[string]string{
		"no header":       "NODAL COORDINATES 2.0.0\n 1 0 0\n",
		"bad dimension":   header + "1 1 0 0 4 4\n",
		"short header":    header + "1 1\n",
		"wedge":           header + "6 1 0 0 3 3\nNODAL COORDINATES\n1 0 0 0\n2 1 0 0\n3 0 1 0\n4 0 0 1\n5 1 0 1\n6 0 1 1\nELEMENTS/CELLS\n1 5 6 1 2 3 4 5 6\n",
		"bad node":        header + "3 1 0 0 2 2\nNODAL COORDINATES\n1 0 0\n2 1 0\n3 0 1\nELEMENTS/CELLS\n1 3 3 1 2 9\n",
		"missing vertex":  header + "3 1 0 0 2 2\nNODAL COORDINATES\n1 0 0\n2 1 0\n2 0 1\nELEMENTS/CELLS\n1 3 3 1 2 3\n",
		"group count":     header + "3 1 1 0 2 2\nNODAL COORDINATES\n1 0 0\n2 1 0\n3 0 1\nELEMENTS/CELLS\n1 3 3 1 2 3\n",
		"no elements":     header + "3 1 0 0 2 2\nNODAL COORDINATES\n1 0 0\n2 1 0\n3 0 1\n",
		"truncated nodes": header + "3 1 0 0 2 2\nNODAL COORDINATES\n1 0 0\n",
	}
	for name, content := range cases {
		_, err := ParseGambit(strings.NewReader(content))
		assert.Error(t, err, name)
	}
	_, err := ParseGambit(strings.NewReader(cases["wedge"]))
	assert.ErrorIs(t, err, vtk.ErrUnknownElementType)
}

var gambitSquare = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
square
PROGRAM:                Gambit     VERSION:  2.0.0
Jul 2008
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         4         2         2         1         2         2
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00
         3   1.00000000000e+00   1.00000000000e+00
         4   0.00000000000e+00   1.00000000000e+00
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
       1  3  3        1       2       3
       2  3  3        1       3       4
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           1 ELEMENTS:          1 MATERIAL:          2 NFLAGS:          1
                           fluid
       0
       1
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           2 ELEMENTS:          1 MATERIAL:          4 NFLAGS:          1
                           solid
       0
       2
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
                 wall       1       2       0       6
         1       3       1
         2       3       3
ENDOFSECTION
`
