package main

import "github.com/notargets/vtklegacy/cmd"

func main() {
	cmd.Execute()
}
