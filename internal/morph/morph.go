// Package morph provides the small slice of Russian morphology the bot needs:
// reducing a word to its dictionary form and declining a place name into a
// grammatical case. It is backed by a built-in lexicon of declension classes
// with suffix-based guessing for words outside it.
package morph

import (
	"strings"
)

// Case is a grammatical case, named with OpenCorpora grammemes.
type Case string

const (
	Nominative   Case = "nomn"
	Genitive     Case = "gent"
	Dative       Case = "datv"
	Accusative   Case = "accs"
	Instrumental Case = "ablt"
	Locative     Case = "loct"
)

var allCases = [6]Case{Nominative, Genitive, Dative, Accusative, Instrumental, Locative}

func caseIndex(c Case) int {
	for i, cc := range allCases {
		if cc == c {
			return i
		}
	}
	return -1
}

// Normalizer reduces words to dictionary form and inflects them.
// Results are lowercase.
type Normalizer interface {
	Normalize(word string) string
	Inflect(word string, c Case) string
}

type analysis struct {
	lemma string
	para  *paradigm
}

// Analyzer is a lexicon-backed Normalizer. It is immutable after
// construction and safe for concurrent use.
type Analyzer struct {
	forms map[string]analysis
}

// NewAnalyzer builds an analyzer from the built-in lexicon.
func NewAnalyzer() *Analyzer {
	return newAnalyzer(lexicon)
}

func newAnalyzer(entries []lexeme) *Analyzer {
	a := &Analyzer{forms: make(map[string]analysis, len(entries)*6)}
	for _, e := range entries {
		stem, ok := e.para.stem(e.lemma)
		if !ok {
			continue
		}
		for _, c := range allCases {
			f := e.para.form(stem, c)
			// First lexeme registered for a form wins.
			if _, dup := a.forms[f]; !dup {
				a.forms[f] = analysis{lemma: e.lemma, para: e.para}
			}
		}
	}
	return a
}

// Normalize returns the dictionary form of word. Unknown words are returned
// lowercased, after a suffix-based guess for common place-name endings.
func (a *Analyzer) Normalize(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	if strings.Contains(word, " ") {
		return a.mapWords(word, a.Normalize)
	}
	if head, rebuild, ok := splitHyphenated(word); ok {
		if an, found := a.forms[word]; found {
			return an.lemma
		}
		return rebuild(a.Normalize(head))
	}
	if an, ok := a.forms[word]; ok {
		return an.lemma
	}
	return guessLemma(word)
}

// Inflect declines word into case c. The word may be given in any form.
// Multi-word names are declined word by word, which keeps adjective-noun
// pairs such as "нижний новгород" in agreement.
func (a *Analyzer) Inflect(word string, c Case) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	if strings.Contains(word, " ") {
		return a.mapWords(word, func(w string) string { return a.Inflect(w, c) })
	}
	if _, found := a.forms[word]; !found {
		if head, rebuild, ok := splitHyphenated(word); ok {
			return rebuild(a.Inflect(head, c))
		}
	}

	an, ok := a.forms[word]
	if !ok {
		lemma := guessLemma(word)
		an = analysis{lemma: lemma, para: guessParadigm(lemma)}
	}
	stem, ok := an.para.stem(an.lemma)
	if !ok {
		return word
	}
	return an.para.form(stem, c)
}

func (a *Analyzer) mapWords(phrase string, fn func(string) string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		if serviceWords[w] {
			continue
		}
		words[i] = fn(w)
	}
	return strings.Join(words, " ")
}

// splitHyphenated finds the declinable part of a hyphenated name. In
// "ростов-на-дону" it is the first part, in "санкт-петербург" the last.
func splitHyphenated(word string) (head string, rebuild func(string) string, ok bool) {
	parts := strings.Split(word, "-")
	if len(parts) < 2 {
		return "", nil, false
	}
	if len(parts) >= 3 && serviceWords[parts[1]] {
		rest := strings.Join(parts[1:], "-")
		return parts[0], func(h string) string { return h + "-" + rest }, true
	}
	prefix := strings.Join(parts[:len(parts)-1], "-")
	return parts[len(parts)-1], func(h string) string { return prefix + "-" + h }, true
}

// serviceWords are prepositions and conjunctions that are never declined.
var serviceWords = map[string]bool{
	"в": true, "во": true, "на": true, "по": true, "из": true, "за": true,
	"от": true, "до": true, "об": true, "при": true, "про": true, "над": true,
	"под": true, "без": true, "для": true, "через": true, "с": true, "со": true,
	"к": true, "ко": true, "о": true, "и": true, "или": true, "но": true, "а": true,
}
