package main

import "github.com/FluidXR/droidlog/cmd"

func main() {
	cmd.Execute()
}
