package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/memsched/service/dao"
)

func TestFilterByState(t *testing.T) {
	testCases := []struct {
		name       string
		state      string
		parameters []*dao.Parameter
		expected   bool
	}{
		{name: "no parameters", state: "running", expected: true},
		{name: "single match", state: "running", parameters: []*dao.Parameter{dao.NewParameter("State", "running")}, expected: true},
		{name: "single mismatch", state: "waiting", parameters: []*dao.Parameter{dao.NewParameter("State", "running")}, expected: false},
		{name: "multi match", state: "discarded", parameters: []*dao.Parameter{dao.NewParameter("State", "finished", "discarded")}, expected: true},
		{name: "multi mismatch", state: "waiting", parameters: []*dao.Parameter{dao.NewParameter("State", "finished", "discarded")}, expected: false},
		{name: "other parameter ignored", state: "waiting", parameters: []*dao.Parameter{dao.NewParameter("Name", "x")}, expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FilterByState(tc.state, tc.parameters))
		})
	}
}

func TestFilterByTerminal(t *testing.T) {
	testCases := []struct {
		name       string
		terminal   bool
		parameters []*dao.Parameter
		expected   bool
	}{
		{name: "no parameters", terminal: false, expected: true},
		{name: "bool match", terminal: true, parameters: []*dao.Parameter{{Name: TerminalParameter, Value: true}}, expected: true},
		{name: "bool mismatch", terminal: false, parameters: []*dao.Parameter{{Name: TerminalParameter, Value: true}}, expected: false},
		{name: "string match", terminal: false, parameters: []*dao.Parameter{dao.NewParameter(TerminalParameter, "false")}, expected: true},
		{name: "string mismatch", terminal: true, parameters: []*dao.Parameter{dao.NewParameter(TerminalParameter, "false")}, expected: false},
		{name: "unparsable ignored", terminal: true, parameters: []*dao.Parameter{dao.NewParameter(TerminalParameter, "maybe")}, expected: true},
		{name: "state parameter ignored", terminal: true, parameters: []*dao.Parameter{dao.NewParameter(StateParameter, "waiting")}, expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FilterByTerminal(tc.terminal, tc.parameters))
		})
	}
}
