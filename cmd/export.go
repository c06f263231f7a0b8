/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/vtklegacy/InputParameters"
	"github.com/notargets/vtklegacy/logger"
	"github.com/notargets/vtklegacy/readfiles"
	"github.com/notargets/vtklegacy/utils"
	"github.com/notargets/vtklegacy/vtk"
)

// CellIndexField is the cell scalar attached to grids that carry no field data
const CellIndexField = "CellIndex"

// MaterialField carries the material value of Gambit element groups
const MaterialField = "Material"

// ExportCmd represents the export command
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a mesh and its fields to legacy VTK files",
	Long: `
Reads a mesh and its fields and writes one legacy VTK file per snapshot.

Grid files may be SU2 native grids (.su2), Gambit neutral files (.neu) or JSON/YAML fixtures (.json, .yaml)
holding "nodes", "elements" and named field arrays. The job file selects which
arrays are written as POINT_DATA vectors and CELL_DATA scalars:

    Title: data
    Binary: true
    ElementType: hexa8
    PointVectors: [{Name: displacement}, {Name: velocity}]
    CellScalars: [{Name: ID, Source: material_ID}]

Without a job file every array in the input is written under its own name.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			gridFile, jobFile string
			ip                *InputParameters.ExportParameters
			src               *ExportSource
			paths             []string
		)
		if gridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			return
		}
		if len(gridFile) == 0 {
			return fmt.Errorf("must supply a grid file (-F, --gridFile) in SU2 (.su2), Gambit (.neu) or fixture (.json, .yaml) format")
		}
		if jobFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if ip, err = loadJob(jobFile); err != nil {
			return
		}
		applyOverrides(ip)
		if err = ip.Validate(); err != nil {
			return
		}
		if viper.GetBool("verbose") {
			ip.Print()
		}
		if src, err = LoadSource(gridFile, ip); err != nil {
			return
		}
		start := time.Now()
		if paths, err = RunExport(ip, src); err != nil {
			return
		}
		logger.Log.Info("export complete",
			zap.Int("files", len(paths)),
			zap.String("outputDir", ip.OutputDir),
			zap.Duration("elapsed", time.Since(start)),
			zap.Stringer("memory", utils.GetMemUsage()))
		return
	},
}

func init() {
	rootCmd.AddCommand(ExportCmd)
	ExportCmd.Flags().StringP("gridFile", "F", "", "Grid file to read, SU2 (.su2), Gambit (.neu) or fixture (.json, .yaml)")
	ExportCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML job file selecting fields, encoding and snapshots")
	ExportCmd.Flags().StringP("outputDir", "o", "./output", "directory for the .vtk files, created if missing")
	ExportCmd.Flags().BoolP("binary", "b", false, "write big-endian BINARY instead of ASCII")
	ExportCmd.Flags().StringP("title", "t", "", "file name stem and VTK title line")
	ExportCmd.Flags().StringP("elementType", "e", "", "element type of fixture meshes: tri3, tri6, quad4, hexa8, hexa20, tetra4, tetra10")
	ExportCmd.Flags().IntP("snapshots", "n", 0, "number of files to write")
	ExportCmd.Flags().BoolP("verbose", "v", false, "print the job parameters")
	for _, name := range []string{"outputDir", "binary", "title", "elementType", "snapshots", "verbose"} {
		_ = viper.BindPFlag(name, ExportCmd.Flags().Lookup(name))
	}
}

func loadJob(jobFile string) (ip *InputParameters.ExportParameters, err error) {
	var (
		data []byte
	)
	ip = InputParameters.NewExportParameters()
	if len(jobFile) == 0 {
		return
	}
	if data, err = os.ReadFile(jobFile); err != nil {
		return nil, fmt.Errorf("unable to read job file: %w", err)
	}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing job file %s: %w", jobFile, err)
	}
	return
}

// applyOverrides lets flags, VTKEXPORT_* variables and the config file replace job values
func applyOverrides(ip *InputParameters.ExportParameters) {
	if viper.IsSet("outputDir") {
		ip.OutputDir = viper.GetString("outputDir")
	}
	if viper.IsSet("binary") {
		ip.Binary = viper.GetBool("binary")
	}
	if viper.IsSet("title") {
		ip.Title = viper.GetString("title")
	}
	if viper.IsSet("elementType") {
		ip.ElementType = viper.GetString("elementType")
	}
	if viper.IsSet("snapshots") {
		ip.Snapshots = viper.GetInt("snapshots")
	}
}

// ExportSource is the in-memory mesh and field data handed to the writer
type ExportSource struct {
	Nodes       [][]float64
	Elements    [][]int
	ElementType vtk.ElementType
	Vectors     map[string][][]float64
	Scalars     map[string][]float64
}

// LoadSource reads a grid or a fixture, chosen by file extension
func LoadSource(gridFile string, ip *InputParameters.ExportParameters) (src *ExportSource, err error) {
	switch strings.ToLower(filepath.Ext(gridFile)) {
	case ".su2", ".neu":
		var g *readfiles.Grid
		if g, err = readGrid(gridFile); err != nil {
			return
		}
		logger.Log.Info("read grid",
			zap.String("file", gridFile),
			zap.Int("dimension", g.Dimension),
			zap.Int("nodes", len(g.Nodes)),
			zap.Int("elements", len(g.Elements)),
			zap.Stringer("elementType", g.ElementType),
			zap.Strings("markers", g.MarkerOrder),
			zap.Int("materialGroups", len(g.MaterialGroups)))
		src = SourceFromGrid(g)
	case ".json", ".yaml", ".yml":
		var fx *readfiles.Fixture
		if fx, err = readfiles.ReadFixture(gridFile); err != nil {
			return
		}
		if src, err = SourceFromFixture(fx, ip); err != nil {
			return nil, fmt.Errorf("%s: %w", gridFile, err)
		}
		vectors, scalars := fx.FieldNames()
		logger.Log.Info("read fixture",
			zap.String("file", gridFile),
			zap.Int("nodes", len(src.Nodes)),
			zap.Int("elements", len(src.Elements)),
			zap.Stringer("elementType", src.ElementType),
			zap.Strings("vectors", vectors),
			zap.Strings("scalars", scalars))
	default:
		err = fmt.Errorf("unsupported grid file format: %s", filepath.Ext(gridFile))
	}
	return
}

func readGrid(gridFile string) (*readfiles.Grid, error) {
	if strings.EqualFold(filepath.Ext(gridFile), ".neu") {
		return readfiles.ReadGambit(gridFile)
	}
	return readfiles.ReadSU2(gridFile)
}

func SourceFromGrid(g *readfiles.Grid) (src *ExportSource) {
	cellIndex := make([]float64, len(g.Elements))
	for k := range cellIndex {
		cellIndex[k] = float64(k)
	}
	src = &ExportSource{
		Nodes:       g.Nodes,
		Elements:    g.Elements,
		ElementType: g.ElementType,
		Vectors:     map[string][][]float64{},
		Scalars:     map[string][]float64{CellIndexField: cellIndex},
	}
	if g.Materials != nil {
		src.Scalars[MaterialField] = g.Materials
	}
	return
}

func SourceFromFixture(fx *readfiles.Fixture, ip *InputParameters.ExportParameters) (src *ExportSource, err error) {
	var (
		et    vtk.ElementType
		nodes [][]float64
	)
	if ip.ElementType == "" {
		return nil, fmt.Errorf("fixture meshes need an element type (ElementType in the job file or --elementType)")
	}
	if et, err = vtk.ParseElementType(ip.ElementType); err != nil {
		return
	}
	if nodes, err = fx.NodeCoordinates(ip.NodeIDColumn); err != nil {
		return
	}
	src = &ExportSource{
		Nodes:       nodes,
		Elements:    fx.Elements,
		ElementType: et,
		Vectors:     fx.Vectors,
		Scalars:     fx.Scalars,
	}
	return
}

// FieldBlocks builds the attribute blocks in write order. Without any field
// selection in the job every source array is written, sorted by name.
func FieldBlocks(ip *InputParameters.ExportParameters, src *ExportSource) (blocks []vtk.FieldBlock, err error) {
	var (
		vectors, scalars = ip.PointVectors, ip.CellScalars
	)
	if len(vectors) == 0 && len(scalars) == 0 {
		vectors, scalars = allFields(src)
	}
	for i, fm := range vectors {
		data, ok := src.Vectors[fm.Source]
		if !ok {
			return nil, fmt.Errorf("point vector %q: no vector array named %q in the input", fm.Name, fm.Source)
		}
		fr := utils.VectorMagnitudeRange(data)
		logger.Log.Debug("point vector", zap.String("name", fm.Name), zap.Stringer("magnitude", fr))
		if fr.HasNaN {
			logger.Log.Warn("point vector contains NaN", zap.String("name", fm.Name))
		}
		blocks = append(blocks, vtk.VectorField{Name: fm.Name, Data: data, StartsGroup: i == 0})
	}
	for i, fm := range scalars {
		data, ok := src.Scalars[fm.Source]
		if !ok {
			return nil, fmt.Errorf("cell scalar %q: no scalar array named %q in the input", fm.Name, fm.Source)
		}
		fr := utils.ScalarRange(data)
		logger.Log.Debug("cell scalar", zap.String("name", fm.Name), zap.Stringer("range", fr))
		if fr.HasNaN {
			logger.Log.Warn("cell scalar contains NaN", zap.String("name", fm.Name))
		}
		blocks = append(blocks, vtk.ScalarField{Name: fm.Name, Data: data, StartsGroup: i == 0})
	}
	return
}

func allFields(src *ExportSource) (vectors, scalars []InputParameters.FieldMap) {
	for _, name := range sortedKeys(src.Vectors) {
		vectors = append(vectors, InputParameters.FieldMap{Name: name, Source: name})
	}
	for _, name := range sortedKeys(src.Scalars) {
		scalars = append(scalars, InputParameters.FieldMap{Name: name, Source: name})
	}
	return
}

func sortedKeys[T any](m map[string]T) (keys []string) {
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// RunExport writes every snapshot of the job and returns the file paths. Each
// snapshot is an independent writer session, the sessions are spread over
// ip.Parallel goroutines.
func RunExport(ip *InputParameters.ExportParameters, src *ExportSource) (paths []string, err error) {
	var (
		blocks []vtk.FieldBlock
		names  = ip.FileNames()
		errs   = make([]error, len(names))
		NP     = ip.Parallel
		wg     = sync.WaitGroup{}
	)
	if blocks, err = FieldBlocks(ip, src); err != nil {
		return
	}
	if NP == 0 {
		NP = runtime.NumCPU()
	}
	if NP > len(names) {
		NP = len(names)
	}
	pm := utils.NewPartitionMap(NP, len(names))
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for i := kMin; i < kMax; i++ {
				errs[i] = writeSnapshot(ip.OutputDir, names[i], ip.Binary, src, blocks)
			}
		}(np)
	}
	wg.Wait()
	for i, e := range errs {
		if e != nil {
			return nil, fmt.Errorf("snapshot %s: %w", names[i], e)
		}
	}
	paths = make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(ip.OutputDir, name+vtk.FileExt)
	}
	return
}

func writeSnapshot(dir, name string, binaryMode bool, src *ExportSource, blocks []vtk.FieldBlock) (err error) {
	var (
		w *vtk.Writer
	)
	if w, err = vtk.Create(dir, name, binaryMode); err != nil {
		return
	}
	defer func() {
		if err != nil {
			if abortErr := w.Abort(); abortErr != nil {
				logger.Log.Warn("unable to remove partial file", zap.String("path", w.Path()), zap.Error(abortErr))
			}
		}
	}()
	if err = w.WriteMesh(src.Nodes, src.Elements, src.ElementType); err != nil {
		return
	}
	if err = w.WriteFields(blocks...); err != nil {
		return
	}
	if err = w.Finalize(); err != nil {
		return
	}
	logger.Log.Debug("wrote file",
		zap.String("path", w.Path()),
		zap.Bool("binary", binaryMode),
		zap.Int("nodes", w.NodeCount()),
		zap.Int("elements", w.ElementCount()),
		zap.Int("fields", len(blocks)))
	return
}
