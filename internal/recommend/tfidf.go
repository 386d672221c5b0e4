package recommend

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// ErrNoVocabulary is returned when the corpus tokenizes to nothing (all
// stop-words or empty documents), so no meaningful vectors can be built.
var ErrNoVocabulary = errors.New("recommend: empty vocabulary")

// vectorizer is a term-frequency/inverse-document-frequency encoder fit over
// a single call's corpus: IDF reflects only the current candidate set. Terms
// beyond maxFeatures are dropped, keeping the most frequent ones (ties break
// alphabetically). Output rows are l2-normalised so a dot product is a cosine.
type vectorizer struct {
	maxFeatures int
}

func newVectorizer(maxFeatures int) *vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = 1000
	}
	return &vectorizer{maxFeatures: maxFeatures}
}

func (v *vectorizer) fitTransform(docs []string) ([][]float64, error) {
	tokenized := make([][]string, len(docs))
	termCount := map[string]int{} // corpus-wide occurrences
	docFreq := map[string]int{}   // documents containing the term
	for i, d := range docs {
		toks := tokenize(d)
		tokenized[i] = toks
		seen := map[string]bool{}
		for _, t := range toks {
			termCount[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}
	if len(termCount) == 0 {
		return nil, ErrNoVocabulary
	}

	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}

	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1.
	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i, toks := range tokenized {
		row := make([]float64, len(terms))
		for _, t := range toks {
			if j, ok := index[t]; ok {
				row[j] += idf[j]
			}
		}
		l2Normalize(row)
		rows[i] = row
	}
	return rows, nil
}

// tokenize lowercases and splits on anything that is not a letter, digit or
// underscore; tokens shorter than two runes and english stop-words are
// dropped.
func tokenize(doc string) []string {
	fields := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func l2Normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

var stopWords = func() map[string]bool {
	list := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "cannot",
		"could", "did", "do", "does", "doing", "down", "during", "each",
		"few", "for", "from", "further", "had", "has", "have", "having", "he",
		"her", "here", "hers", "herself", "him", "himself", "his", "how", "i",
		"if", "in", "into", "is", "it", "its", "itself", "just", "me", "more",
		"most", "my", "myself", "no", "nor", "not", "now", "of", "off", "on",
		"once", "only", "or", "other", "ought", "our", "ours", "ourselves",
		"out", "over", "own", "same", "she", "should", "so", "some", "such",
		"than", "that", "the", "their", "theirs", "them", "themselves",
		"then", "there", "these", "they", "this", "those", "through", "to",
		"too", "under", "until", "up", "very", "was", "we", "were", "what",
		"when", "where", "which", "while", "who", "whom", "why", "with",
		"would", "you", "your", "yours", "yourself", "yourselves",
	}
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}()
