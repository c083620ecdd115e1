// Timeloop explores the mappings of tensor workloads on accelerators.
package main

import "github.com/MainEpicenter/timeloop/timeloop/cmd"

func main() {
	cmd.Execute()
}
