package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/memsched/model/workload"
	"github.com/viant/parsly"
	"github.com/viant/toolbox"
)

// ErrMalformedDefinition is returned for workload input that cannot be turned
// into a valid definition
var ErrMalformedDefinition = errors.New("source: malformed workload definition")

const (
	keyMemory     = "memory"
	keyDuration   = "duration"
	keyName       = "name"
	keyIdentifier = "identifier"
)

// ParseSpec parses memory=<int>,duration=<number>[,name=<string>][,identifier=<int>]
// with keys in any order
func ParseSpec(text string) (*workload.Definition, error) {
	values, err := parseAssignments(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedDefinition, text, err)
	}
	definition := &workload.Definition{}
	for _, key := range []string{keyMemory, keyDuration} {
		if _, ok := values[key]; !ok {
			return nil, fmt.Errorf("%w: %q: missing %v", ErrMalformedDefinition, text, key)
		}
	}
	for key, value := range values {
		switch key {
		case keyMemory:
			if definition.Memory, err = toolbox.ToInt(value); err != nil {
				return nil, fmt.Errorf("%w: %q: invalid memory %q", ErrMalformedDefinition, text, value)
			}
		case keyDuration:
			if definition.Duration, err = toolbox.ToFloat(value); err != nil {
				return nil, fmt.Errorf("%w: %q: invalid duration %q", ErrMalformedDefinition, text, value)
			}
		case keyName:
			definition.Name = value
		case keyIdentifier:
			id, err := toolbox.ToInt(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: invalid identifier %q", ErrMalformedDefinition, text, value)
			}
			definition.WithID(id)
		default:
			return nil, fmt.Errorf("%w: %q: unknown key %v", ErrMalformedDefinition, text, key)
		}
	}
	if err = definition.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDefinition, err)
	}
	return definition, nil
}

// ParseSpecs parses every text with ParseSpec
func ParseSpecs(texts ...string) ([]*workload.Definition, error) {
	result := make([]*workload.Definition, 0, len(texts))
	for _, text := range texts {
		definition, err := ParseSpec(text)
		if err != nil {
			return nil, err
		}
		result = append(result, definition)
	}
	return result, nil
}

func parseAssignments(text string) (map[string]string, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	values := map[string]string{}
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, keyToken)
		if matched.Code != keyToken.Code {
			return nil, cursor.NewError(keyToken)
		}
		key := strings.ToLower(matched.Text(cursor))
		if _, ok := values[key]; ok {
			return nil, fmt.Errorf("duplicate key %v", key)
		}

		matched = cursor.MatchAfterOptional(whitespaceToken, assignToken)
		if matched.Code != assignToken.Code {
			return nil, cursor.NewError(assignToken)
		}

		matched = cursor.MatchOne(valueToken)
		if matched.Code != valueToken.Code {
			return nil, cursor.NewError(valueToken)
		}
		value := strings.TrimSpace(matched.Text(cursor))
		if value == "" {
			return nil, fmt.Errorf("empty value for %v", key)
		}
		values[key] = value

		if cursor.Pos >= cursor.InputSize {
			return values, nil
		}
		matched = cursor.MatchOne(commaToken)
		if matched.Code != commaToken.Code {
			return nil, cursor.NewError(commaToken)
		}
	}
}
