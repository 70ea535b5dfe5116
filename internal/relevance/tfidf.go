package relevance

import (
	"math"
	"sort"

	"NewsGenie/internal/ports"
)

// TFIDFConfig tunes the vectorizer.
type TFIDFConfig struct {
	// MaxFeatures keeps only the most frequent terms across the corpus. 0 keeps all.
	MaxFeatures int
	// MinDocumentFrequency drops terms that occur in fewer documents.
	MinDocumentFrequency int
	// NgramMax is 1 for unigrams only, 2 to add bigrams.
	NgramMax int
}

// TFIDF is a term-frequency/inverse-document-frequency vectorizer with smoothed
// IDF and L2-normalised rows. It holds no state between calls.
type TFIDF struct {
	cfg TFIDFConfig
}

var _ ports.TextVectorizer = (*TFIDF)(nil)

// NewTFIDF applies defaults: MinDocumentFrequency 1, NgramMax 2.
func NewTFIDF(cfg TFIDFConfig) *TFIDF {
	if cfg.MinDocumentFrequency <= 0 {
		cfg.MinDocumentFrequency = 1
	}
	if cfg.NgramMax <= 0 {
		cfg.NgramMax = 2
	}
	return &TFIDF{cfg: cfg}
}

// Vectorize fits the vocabulary on docs and returns one vector per document.
// Documents with no surviving terms map to an empty vector.
func (t *TFIDF) Vectorize(docs []string) []map[string]float64 {
	counts := make([]map[string]int, len(docs))
	docFreq := map[string]int{}
	corpusFreq := map[string]int{}

	for i, doc := range docs {
		tf := map[string]int{}
		for _, term := range Terms(doc, t.cfg.NgramMax) {
			tf[term]++
		}
		for term, n := range tf {
			docFreq[term]++
			corpusFreq[term] += n
		}
		counts[i] = tf
	}

	vocab := t.vocabulary(docFreq, corpusFreq)

	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for term := range vocab {
		idf[term] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	vectors := make([]map[string]float64, len(docs))
	for i, tf := range counts {
		vec := make(map[string]float64, len(tf))
		var norm float64
		for term, c := range tf {
			w, ok := idf[term]
			if !ok {
				continue
			}
			weight := float64(c) * w
			vec[term] = weight
			norm += weight * weight
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}

	return vectors
}

func (t *TFIDF) vocabulary(docFreq, corpusFreq map[string]int) map[string]struct{} {
	terms := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= t.cfg.MinDocumentFrequency {
			terms = append(terms, term)
		}
	}

	if t.cfg.MaxFeatures > 0 && len(terms) > t.cfg.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
				return corpusFreq[terms[i]] > corpusFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:t.cfg.MaxFeatures]
	}

	vocab := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		vocab[term] = struct{}{}
	}
	return vocab
}

// Cosine returns the cosine similarity of two sparse vectors, 0 when either is empty.
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, na, nb float64
	for term, w := range a {
		dot += w * b[term]
		na += w * w
	}
	for _, w := range b {
		nb += w * w
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
