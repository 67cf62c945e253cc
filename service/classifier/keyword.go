package classifier

import "strings"

// Keyword matches keywords as case-insensitive substrings, so "ai" also
// matches "maintain".  Kept as the default for compatibility with existing
// routing decisions.
type Keyword struct {
	config *Config
}

// Classify implements Classifier.
func (k *Keyword) Classify(text string) Signals {
	lower := strings.ToLower(text)
	return classify(k.config, func(keyword string) bool {
		return strings.Contains(lower, strings.ToLower(keyword))
	})
}

// NewKeyword creates a substring classifier.
func NewKeyword(config *Config) *Keyword {
	if config == nil {
		config = DefaultConfig()
	}
	return &Keyword{config: config}
}
