package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/vtklegacy/vtk"
)

// FieldMap selects a source array and the name it is written under
type FieldMap struct {
	Name   string `json:"Name"`
	Source string `json:"Source"` // defaults to Name
}

// Parameters obtained from the YAML export job file
type ExportParameters struct {
	Title        string     `json:"Title"` // File name stem and VTK title line
	OutputDir    string     `json:"OutputDir"`
	Binary       bool       `json:"Binary"`
	ElementType  string     `json:"ElementType"` // Required for fixtures, SU2 grids carry their own
	Snapshots    int        `json:"Snapshots"`   // Number of files, named Title_<i> when > 1
	NodeIDColumn bool       `json:"NodeIDColumn"`
	PointVectors []FieldMap `json:"PointVectors"`
	CellScalars  []FieldMap `json:"CellScalars"`
	Parallel     int        `json:"Parallel"` // Concurrent snapshot writers, 0 means one per CPU
}

func NewExportParameters() (ip *ExportParameters) {
	ip = &ExportParameters{
		Title:        "result",
		OutputDir:    "./output",
		Snapshots:    1,
		NodeIDColumn: true,
	}
	return
}

// Parse overlays the YAML job onto the current values
func (ip *ExportParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	for i := range ip.PointVectors {
		ip.PointVectors[i].setDefaults()
	}
	for i := range ip.CellScalars {
		ip.CellScalars[i].setDefaults()
	}
	return
}

func (fm *FieldMap) setDefaults() {
	if fm.Source == "" {
		fm.Source = fm.Name
	}
}

func (ip *ExportParameters) Validate() (err error) {
	if ip.Title == "" || strings.ContainsAny(ip.Title, `/\`) {
		return fmt.Errorf("title %q must be a non-empty file name stem", ip.Title)
	}
	if ip.Snapshots < 1 {
		return fmt.Errorf("snapshots must be at least 1, got %d", ip.Snapshots)
	}
	if ip.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative, got %d", ip.Parallel)
	}
	if ip.ElementType != "" {
		if _, err = vtk.ParseElementType(ip.ElementType); err != nil {
			return
		}
	}
	names := make(map[string]bool)
	for _, fm := range append(append([]FieldMap{}, ip.PointVectors...), ip.CellScalars...) {
		if err = vtk.CheckFieldName(fm.Name); err != nil {
			return
		}
		if names[fm.Name] {
			return fmt.Errorf("duplicate field name %q", fm.Name)
		}
		names[fm.Name] = true
	}
	return
}

// FileNames returns the file name stem of each snapshot
func (ip *ExportParameters) FileNames() (names []string) {
	names = make([]string, ip.Snapshots)
	if ip.Snapshots == 1 {
		names[0] = ip.Title
		return
	}
	for i := range names {
		names[i] = fmt.Sprintf("%s_%d", ip.Title, i)
	}
	return
}

func (ip *ExportParameters) Print() {
	mode := "ASCII"
	if ip.Binary {
		mode = "BINARY"
	}
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Output Directory\n", ip.OutputDir)
	fmt.Printf("[%s]\t\t= Encoding\n", mode)
	fmt.Printf("[%s]\t\t= Element Type\n", ip.ElementType)
	fmt.Printf("[%d]\t\t\t= Snapshots\n", ip.Snapshots)
	for _, fm := range ip.PointVectors {
		fmt.Printf("POINT_DATA[%s] <- %s\n", fm.Name, fm.Source)
	}
	for _, fm := range ip.CellScalars {
		fmt.Printf("CELL_DATA[%s] <- %s\n", fm.Name, fm.Source)
	}
}
