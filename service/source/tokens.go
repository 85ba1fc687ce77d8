package source

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	keyCode
	assignCode
	valueCode
	commaCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	keyToken        = parsly.NewToken(keyCode, "Key", &keyMatcher{})
	assignToken     = parsly.NewToken(assignCode, "=", matcher.NewByte('='))
	valueToken      = parsly.NewToken(valueCode, "Value", &valueMatcher{})
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
)

// keyMatcher matches a lower case key name
type keyMatcher struct{}

func (m *keyMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if c := input[i]; (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

// valueMatcher captures everything up to the next comma
type valueMatcher struct{}

func (m *valueMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if input[i] == ',' {
			break
		}
		matched++
	}
	return matched
}
