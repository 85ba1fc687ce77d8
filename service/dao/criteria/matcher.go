package criteria

import (
	"strconv"

	"github.com/viant/memsched/service/dao"
)

const (
	// StateParameter matches a state name or any of a list of names
	StateParameter = "State"
	// TerminalParameter matches workloads by whether they reached a final state
	TerminalParameter = "Terminal"
)

// FilterByState reports whether state satisfies every State parameter;
// parameters with other names are ignored.
func FilterByState(state string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != StateParameter {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			if state != actual {
				return false
			}
		case []string:
			matched := false
			for _, s := range actual {
				if state == s {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}

// FilterByTerminal reports whether terminal satisfies every Terminal
// parameter; values are booleans or their string form
func FilterByTerminal(terminal bool, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != TerminalParameter {
			continue
		}
		expected, ok := parameter.Value.(bool)
		if text, isText := parameter.Value.(string); isText {
			var err error
			expected, err = strconv.ParseBool(text)
			ok = err == nil
		}
		if ok && expected != terminal {
			return false
		}
	}
	return true
}
