package source

import "github.com/viant/memsched/model/workload"

// Demo returns the built-in demonstration workloads in intake order
func Demo() []*workload.Definition {
	return []*workload.Definition{
		workload.NewDefinition("Editor", 200, 5),
		workload.NewDefinition("Compiler", 600, 4),
		workload.NewDefinition("Browser", 400, 3),
		workload.NewDefinition("Terminal", 100, 2),
	}
}
