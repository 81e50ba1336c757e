package data

import (
	"fmt"
	"math/rand"
	"strings"
)

var identities = []string{
	"lesbian", "gay", "bisexual", "transgender", "trans", "queer", "lgbt", "homosexual",
	"straight", "heterosexual", "male", "female", "nonbinary",
	"african", "african american", "black", "white", "european", "hispanic", "latino",
	"latina", "mexican", "canadian", "american", "asian", "indian", "middle eastern",
	"chinese", "japanese", "christian", "muslim", "jewish", "buddhist", "catholic",
	"protestant", "sikh", "old", "older", "young", "younger", "teenage", "elderly",
	"blind", "deaf", "paralyzed",
}

var goodAdjectives = []string{"wonderful", "great", "fantastic", "nice", "amazing", "happy", "kind", "smart", "friendly", "fun"}
var badAdjectives = []string{"horrible", "disgusting", "ugly", "evil", "stupid", "worthless", "filthy", "nasty", "dumb", "gross"}
var goodVerbs = []string{"hug", "love", "like", "respect", "admire", "help"}
var badVerbs = []string{"kill", "murder", "hate", "destroy", "hurt", "attack"}

// GenerateMadlibs writes n template-filled probe sentences in the raw madlibs
// schema (Text, Label with BAD/NOT_BAD).
func GenerateMadlibs(n int, seed int64, outPath string) error {
	rng := rand.New(rand.NewSource(seed))
	records := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		id := identities[rng.Intn(len(identities))]
		bad := rng.Float64() < 0.5
		adj := pick(rng, goodAdjectives)
		verb := pick(rng, goodVerbs)
		if bad {
			adj = pick(rng, badAdjectives)
			verb = pick(rng, badVerbs)
		}
		var text string
		switch rng.Intn(4) {
		case 0:
			text = fmt.Sprintf("Being %s is %s.", id, adj)
		case 1:
			text = fmt.Sprintf("I am a %s %s person.", adj, id)
		case 2:
			text = fmt.Sprintf("%s people are %s.", capitalize(id), adj)
		default:
			text = fmt.Sprintf("%s %s people.", capitalize(verb), id)
		}
		label := RawLabelNotBad
		if bad {
			label = RawLabelBad
		}
		records = append(records, []string{text, label})
	}
	t, err := NewTable([]string{RawTextColumn, RawLabelColumn}, records)
	if err != nil {
		return err
	}
	return WriteCSV(outPath, t)
}

func pick(rng *rand.Rand, xs []string) string { return xs[rng.Intn(len(xs))] }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
