// Package source produces workload definitions for intake: the built-in demo
// list, inline key=value specs and JSON or YAML workload files.
package source
