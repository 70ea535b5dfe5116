package relevance

import (
	"strings"
	"unicode"
)

// Preprocess lower-cases text, replaces everything except letters, digits and
// whitespace with a space and collapses runs of whitespace.
func Preprocess(text string) string {
	if text == "" {
		return ""
	}

	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, text)

	return strings.Join(strings.Fields(mapped), " ")
}

// Terms tokenizes text into unigrams and, when ngramMax >= 2, the bigrams
// formed by adjacent surviving tokens. Tokens shorter than two runes and
// English stop words are dropped before n-grams are built.
func Terms(text string, ngramMax int) []string {
	var tokens []string
	for _, tok := range strings.Fields(Preprocess(text)) {
		if len([]rune(tok)) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	if ngramMax < 2 || len(tokens) < 2 {
		return tokens
	}

	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
		about above across after afterwards again against all almost alone along already also
		although always am among amongst an and another any anyhow anyone anything anyway
		anywhere are around as at be became because become becomes becoming been before
		beforehand behind being below beside besides between beyond both but by can cannot
		could did do does doing done down during each either else elsewhere enough etc even
		ever every everyone everything everywhere except few for former formerly from further
		had has have having he hence her here hereafter hereby herein hers herself him himself
		his how however if in indeed into is it its itself just last latter latterly least less
		many may me meanwhile might mine more moreover most mostly much must my myself namely
		neither never nevertheless next no nobody none noone nor not nothing now nowhere of off
		often on once one only onto or other others otherwise our ours ourselves out over own
		per perhaps please rather re same seem seemed seeming seems several she should since so
		some somehow someone something sometime sometimes somewhere still such than that the
		their theirs them themselves then thence there thereafter thereby therefore therein
		thereupon these they this those though through throughout thru thus to together too
		toward towards under until up upon us very via was we well were what whatever when
		whence whenever where whereafter whereas whereby wherein whereupon wherever whether which
		while whither who whoever whole whom whose why will with within without would yet you
		your yours yourself yourselves`)

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
