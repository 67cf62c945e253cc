package classifier

import (
	"strings"

	"github.com/viant/parsly"
)

// Token codes start at 1 to stay clear of parsly.EOF.
const (
	wordCode = iota + 1
	separatorCode
)

var (
	wordToken      = parsly.NewToken(wordCode, "Word", &runMatcher{word: true})
	separatorToken = parsly.NewToken(separatorCode, "Separator", &runMatcher{})
)

// runMatcher matches the longest run of word bytes (word == true) or of
// separator bytes.  Bytes >= 0x80 count as word bytes so multi-byte runes
// are never split.
type runMatcher struct {
	word bool
}

func (m *runMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if isWordByte(cursor.Input[i]) != m.word {
			break
		}
		matched++
	}
	return matched
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c >= 0x80
}

// tokenize splits text into lower-cased words.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}
	cursor := parsly.NewCursor("", []byte(text), 0)
	var words []string
	for cursor.HasMore() {
		matched := cursor.MatchAny(wordToken, separatorToken)
		switch matched.Code {
		case wordCode:
			words = append(words, strings.ToLower(matched.Text(cursor)))
		case separatorCode:
		default:
			cursor.Pos++
		}
	}
	return words
}
