// Package main is the entry of the memsim simulator.
package main

import "github.com/sarchlab/memsim/cmd"

func main() {
	cmd.Execute()
}
