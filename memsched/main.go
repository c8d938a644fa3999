// Package main is the entry point of the memsched command.
package main

import "github.com/sarchlab/memsched/memsched/cmd"

func main() {
	cmd.Execute()
}
