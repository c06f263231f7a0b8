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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/notargets/vtklegacy/vtk"
)

// ElementsCmd prints the supported element types
var ElementsCmd = &cobra.Command{
	Use:   "elements",
	Short: "List the supported element types with their node counts and VTK cell codes",
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tNODES\tVTK CELL CODE")
		for _, et := range vtk.ElementTypes() {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", et, et.NumNodes(), et.CellCode())
		}
		_ = tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(ElementsCmd)
}
