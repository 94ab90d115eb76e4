package morph

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// paradigm describes the singular declension of one noun or adjective class.
// The stem is the lemma with lemmaEnding removed; every form is stem+ending.
type paradigm struct {
	name        string
	lemmaEnding string
	endings     [6]string // indexed by caseIndex
}

func (p *paradigm) stem(lemma string) (string, bool) {
	if !strings.HasSuffix(lemma, p.lemmaEnding) {
		return "", false
	}
	return strings.TrimSuffix(lemma, p.lemmaEnding), true
}

func (p *paradigm) form(stem string, c Case) string {
	i := caseIndex(c)
	if i < 0 {
		return stem + p.lemmaEnding
	}
	return stem + p.endings[i]
}

//                                   nomn    gent    datv    accs    ablt    loct
var (
	femA         = &paradigm{"fem-a", "а", [6]string{"а", "ы", "е", "у", "ой", "е"}}
	femAVelar    = &paradigm{"fem-a-velar", "а", [6]string{"а", "и", "е", "у", "ой", "е"}}
	femJa        = &paradigm{"fem-ja", "я", [6]string{"я", "и", "е", "ю", "ей", "е"}}
	femIja       = &paradigm{"fem-ija", "ия", [6]string{"ия", "ии", "ии", "ию", "ией", "ии"}}
	femSoft      = &paradigm{"fem-soft", "ь", [6]string{"ь", "и", "и", "ь", "ью", "и"}}
	mascHard     = &paradigm{"masc-hard", "", [6]string{"", "а", "у", "", "ом", "е"}}
	mascSibilant = &paradigm{"masc-sibilant", "", [6]string{"", "а", "у", "", "ем", "е"}}
	mascSoft     = &paradigm{"masc-soft", "ь", [6]string{"ь", "я", "ю", "ь", "ем", "е"}}
	mascJ        = &paradigm{"masc-j", "й", [6]string{"й", "я", "ю", "й", "ем", "е"}}
	neutE        = &paradigm{"neut-e", "е", [6]string{"е", "я", "ю", "е", "ем", "е"}}
	pluralY      = &paradigm{"plur-y", "ы", [6]string{"ы", "", "ам", "ы", "ами", "ах"}}
	pluralI      = &paradigm{"plur-i", "и", [6]string{"и", "", "ам", "и", "ами", "ах"}}
	indeclinable = &paradigm{"indecl", "", [6]string{"", "", "", "", "", ""}}

	adjMascHard  = &paradigm{"adj-masc-hard", "ый", [6]string{"ый", "ого", "ому", "ый", "ым", "ом"}}
	adjMascO     = &paradigm{"adj-masc-o", "ой", [6]string{"ой", "ого", "ому", "ой", "ым", "ом"}}
	adjMascVelar = &paradigm{"adj-masc-velar", "ий", [6]string{"ий", "ого", "ому", "ий", "им", "ом"}}
	adjMascSoft  = &paradigm{"adj-masc-soft", "ий", [6]string{"ий", "его", "ему", "ий", "им", "ем"}}
	adjFem       = &paradigm{"adj-fem", "ая", [6]string{"ая", "ой", "ой", "ую", "ой", "ой"}}
	adjFemSoft   = &paradigm{"adj-fem-soft", "яя", [6]string{"яя", "ей", "ей", "юю", "ей", "ей"}}
	adjNeut      = &paradigm{"adj-neut", "ое", [6]string{"ое", "ого", "ому", "ое", "ым", "ом"}}
)

// guessParadigm picks a declension class for a lemma missing from the lexicon,
// going by its ending.
func guessParadigm(lemma string) *paradigm {
	last, _ := utf8.DecodeLastRuneInString(lemma)
	if last == utf8.RuneError || !unicode.Is(unicode.Cyrillic, last) {
		return indeclinable
	}

	switch {
	case strings.HasSuffix(lemma, "ый"):
		return adjMascHard
	case strings.HasSuffix(lemma, "ой"):
		return adjMascO
	case strings.HasSuffix(lemma, "кий"), strings.HasSuffix(lemma, "гий"), strings.HasSuffix(lemma, "хий"):
		return adjMascVelar
	case strings.HasSuffix(lemma, "ий"):
		return adjMascSoft
	case strings.HasSuffix(lemma, "ая"):
		return adjFem
	case strings.HasSuffix(lemma, "яя"):
		return adjFemSoft
	case strings.HasSuffix(lemma, "ое"):
		return adjNeut
	case strings.HasSuffix(lemma, "ия"):
		return femIja
	case strings.HasSuffix(lemma, "ье"):
		return neutE
	case strings.HasSuffix(lemma, "ль"):
		return mascSoft
	}

	switch last {
	case 'а':
		if isVelarOrSibilant(penultimate(lemma)) {
			return femAVelar
		}
		return femA
	case 'я':
		return femJa
	case 'ь':
		return femSoft
	case 'й':
		return mascJ
	case 'ы':
		return pluralY
	case 'ж', 'ш', 'ч', 'щ', 'ц':
		return mascSibilant
	case 'и', 'о', 'у', 'ю', 'э', 'е', 'ё':
		return indeclinable
	}
	if isVowel(last) {
		return indeclinable
	}
	return mascHard
}

// lemmaGuesses map an oblique surface ending back to a nominative ending for
// words outside the lexicon. Order matters: longer endings first.
var lemmaGuesses = []struct{ form, lemma string }{
	{"граде", "град"},
	{"бурге", "бург"},
	{"поле", "поль"},
	{"ии", "ия"},
	{"ске", "ск"},
	{"цке", "цк"},
	{"рге", "рг"},
	{"ове", "ов"},
	{"еве", "ев"},
	{"ине", "ин"},
	{"ыне", "ын"},
}

func guessLemma(word string) string {
	for _, g := range lemmaGuesses {
		if utf8.RuneCountInString(word) > utf8.RuneCountInString(g.form)+1 && strings.HasSuffix(word, g.form) {
			return strings.TrimSuffix(word, g.form) + g.lemma
		}
	}
	return word
}

func penultimate(s string) rune {
	r := []rune(s)
	if len(r) < 2 {
		return 0
	}
	return r[len(r)-2]
}

func isVelarOrSibilant(r rune) bool {
	switch r {
	case 'г', 'к', 'х', 'ж', 'ш', 'ч', 'щ':
		return true
	}
	return false
}

func isVowel(r rune) bool {
	return strings.ContainsRune("аеёиоуыэюя", r)
}
