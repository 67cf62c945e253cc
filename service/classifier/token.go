package classifier

// Token matches keywords on word boundaries; a multi-word keyword matches a
// run of consecutive words.
type Token struct {
	config *Config
}

// Classify implements Classifier.
func (t *Token) Classify(text string) Signals {
	words := tokenize(text)
	return classify(t.config, func(keyword string) bool {
		return containsRun(words, tokenize(keyword))
	})
}

func containsRun(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, part := range phrase {
			if words[i+j] != part {
				continue outer
			}
		}
		return true
	}
	return false
}

// NewToken creates a word boundary classifier.
func NewToken(config *Config) *Token {
	if config == nil {
		config = DefaultConfig()
	}
	return &Token{config: config}
}
