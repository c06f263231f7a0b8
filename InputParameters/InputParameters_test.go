package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/vtklegacy/vtk"
)

func TestExportParameters_Parse(t *testing.T) {
	fileInput := []byte(`
Title: data
OutputDir: ./output
Binary: true
ElementType: hexa8 # fixture input
Snapshots: 10
PointVectors:
  - Name: displacement
  - Name: vel
    Source: velocity
CellScalars:
  - {Name: ID, Source: material_ID}
  - {Name: mat, Source: material_value}
`)
	ip := NewExportParameters()
	require.NoError(t, ip.Parse(fileInput))
	require.NoError(t, ip.Validate())
	assert.Equal(t, "data", ip.Title)
	assert.True(t, ip.Binary)
	assert.True(t, ip.NodeIDColumn, "defaults survive when the job does not set them")
	assert.Equal(t, 10, ip.Snapshots)
	assert.Equal(t, []FieldMap{{"displacement", "displacement"}, {"vel", "velocity"}}, ip.PointVectors)
	assert.Equal(t, FieldMap{"ID", "material_ID"}, ip.CellScalars[0])
	et, err := vtk.ParseElementType(ip.ElementType)
	require.NoError(t, err)
	assert.Equal(t, vtk.Hexa8, et)

	names := ip.FileNames()
	require.Len(t, names, 10)
	assert.Equal(t, "data_0", names[0])
	assert.Equal(t, "data_9", names[9])
	ip.Print()
}

func TestExportParameters_Validate(t *testing.T) {
	ip := NewExportParameters()
	require.NoError(t, ip.Validate())
	assert.Equal(t, []string{"result"}, ip.FileNames())

	bad := map[string]string{
		"unknown element": "ElementType: prism6",
		"no snapshots":    "Snapshots: 0",
		"path in title":   "Title: a/b",
		"duplicate names": "PointVectors: [{Name: u}]\nCellScalars: [{Name: u}]",
		"spaced name":     "CellScalars: [{Name: two words}]",
		"negative pool":   "Parallel: -2",
	}
	for name, job := range bad {
		ip := NewExportParameters()
		require.NoError(t, ip.Parse([]byte(job)), name)
		assert.Error(t, ip.Validate(), name)
	}
	ip = NewExportParameters()
	require.NoError(t, ip.Parse([]byte("ElementType: prism6")))
	assert.ErrorIs(t, ip.Validate(), vtk.ErrUnknownElementType)

	// Names the writer would refuse are caught before any file is created
	for _, name := range []string{"line\nbreak", "carriage\rreturn", ""} {
		ip = NewExportParameters()
		ip.CellScalars = []FieldMap{{Name: name, Source: "s"}}
		assert.ErrorIs(t, ip.Validate(), vtk.ErrFieldName, "%q", name)
	}
}
