// Package classifier detects regulated-data and AI/ML signals in request text.
//
// Two implementations are provided: a keyword classifier that performs
// case-insensitive substring matching (the historical behaviour, and the
// default) and a token classifier that only matches whole words or runs of
// whole words.  Both are driven by the same keyword Config.
package classifier

import "fmt"

const (
	// ModeKeyword selects substring matching.
	ModeKeyword = "keyword"
	// ModeToken selects whole word matching.
	ModeToken = "token"
)

// Signals is the outcome of classifying a piece of text.
type Signals struct {
	Healthcare  bool     `json:"healthcare"`
	AIML        bool     `json:"aiml"`
	CrossBorder bool     `json:"crossBorder"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Regulated reports whether the text references regulated data
// (healthcare or cross-border personal data).
func (s Signals) Regulated() bool {
	return s.Healthcare || s.CrossBorder
}

// Classifier scans free text for risk signals.
type Classifier interface {
	Classify(text string) Signals
}

// Config lists the keywords per signal.  Keywords are matched case
// insensitively.
type Config struct {
	Healthcare  []string `json:"healthcare,omitempty" yaml:"healthcare,omitempty"`
	AIML        []string `json:"aiml,omitempty" yaml:"aiml,omitempty"`
	CrossBorder []string `json:"crossBorder,omitempty" yaml:"crossBorder,omitempty"`
}

// DefaultConfig returns the documented keyword lists.
func DefaultConfig() *Config {
	return &Config{
		Healthcare:  []string{"patient", "hipaa", "phi"},
		AIML:        []string{"ai", "machine learning"},
		CrossBorder: []string{"gdpr", "international"},
	}
}

// New returns the classifier for mode; an empty mode selects ModeKeyword.
func New(mode string, config *Config) (Classifier, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch mode {
	case "", ModeKeyword:
		return NewKeyword(config), nil
	case ModeToken:
		return NewToken(config), nil
	}
	return nil, fmt.Errorf("unsupported classifier mode: %s", mode)
}

// classify evaluates the three keyword groups with match, collecting matched
// keywords in configuration order.
func classify(config *Config, match func(keyword string) bool) Signals {
	var ret Signals
	seen := map[string]bool{}
	group := func(keywords []string) bool {
		found := false
		for _, keyword := range keywords {
			if keyword == "" || !match(keyword) {
				continue
			}
			found = true
			if !seen[keyword] {
				seen[keyword] = true
				ret.Keywords = append(ret.Keywords, keyword)
			}
		}
		return found
	}
	ret.Healthcare = group(config.Healthcare)
	ret.AIML = group(config.AIML)
	ret.CrossBorder = group(config.CrossBorder)
	return ret
}
