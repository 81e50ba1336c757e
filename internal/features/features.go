package features

import (
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const DefaultDim = 512

// Tokenize normalizes text (NFKC, case folded) and splits it on anything
// that is not a letter or digit.
func Tokenize(text string) []string {
	// A Caser is stateful, so each call gets its own.
	s := cases.Fold().String(norm.NFKC.String(text))
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
}

// Vectorizer hashes tokens into Dim binary buckets. The last slot holds the
// token count scaled down so trees can split on length.
type Vectorizer struct {
	Dim int
}

func NewVectorizer(dim int) *Vectorizer {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Vectorizer{Dim: dim}
}

func (v *Vectorizer) Width() int { return v.Dim + 1 }

func (v *Vectorizer) Vectorize(text string) []float64 {
	vec := make([]float64, v.Width())
	toks := Tokenize(text)
	for _, t := range toks {
		vec[bucket(t, v.Dim)] = 1
	}
	vec[v.Dim] = float64(len(toks)) / 10
	return vec
}

func (v *Vectorizer) VectorizeAll(texts []string) [][]float64 {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = v.Vectorize(t)
	}
	return out
}

func bucket(tok string, dim int) int {
	h := fnv.New32a()
	h.Write([]byte(tok))
	return int(h.Sum32() % uint32(dim))
}
