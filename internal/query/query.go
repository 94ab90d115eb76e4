// Package query reads a city name and a target time out of a free-text
// Russian weather question.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/karfly/WeatherBletherBot/internal/dicts"
	"github.com/karfly/WeatherBletherBot/internal/morph"
)

var (
	// A word right after the standalone preposition "в".
	cityPattern = regexp.MustCompile(`(?:^|\s)[Вв]\s+([\p{L}\p{N}_]+(?:-[\p{L}\p{N}_]+)*)`)
	// "через 3" as in "через 3 дня".
	afterDaysPattern = regexp.MustCompile(`(?i)через\s+(\d+)`)
)

// Parser extracts query entities. It holds only read-only collaborators and
// can be shared between goroutines.
type Parser struct {
	dicts *dicts.Dictionaries
	morph morph.Normalizer
}

func NewParser(d *dicts.Dictionaries, m morph.Normalizer) *Parser {
	return &Parser{dicts: d, morph: m}
}

// ExtractCity returns the title-cased city named in text.
//
// Every word following "в" is a candidate; weekday names ("в четверг") are
// skipped and the last remaining candidate wins. Without candidates the first
// word of the text is used as is.
func (p *Parser) ExtractCity(text string) string {
	var city string
	for _, m := range cityPattern.FindAllStringSubmatch(text, -1) {
		word := m[1]
		lemma := p.morph.Normalize(word)
		if p.dicts.IsWeekdayForm(strings.ToLower(word)) || p.dicts.IsWeekdayForm(lemma) {
			continue
		}
		city = lemma
	}

	if city == "" {
		fields := strings.Fields(text)
		if len(fields) == 0 {
			return ""
		}
		city = fields[0]
	}
	return TitleCase(city)
}

// ResolveTime returns the moment text asks about, relative to now. Rules are
// tried in order and the first that matches decides:
//
//  1. relative term ("завтра"): now plus its hour offset
//  2. absolute term ("вечером"): today at that hour, even if already past
//  3. weekday name ("в пятницу"): the next such day, today included
//  4. "через N": now plus N days
//  5. otherwise now
func (p *Parser) ResolveTime(text string, now time.Time) time.Time {
	tokens := tokenize(text)

	for _, tok := range tokens {
		if hours, ok := p.dicts.RelativeHours(tok); ok {
			return now.Add(time.Duration(hours) * time.Hour)
		}
	}

	for _, tok := range tokens {
		if hour, ok := p.dicts.AbsoluteHour(tok); ok {
			return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		}
	}

	// With several weekdays named, the one earliest in the week wins.
	day := -1
	for _, tok := range tokens {
		if i, ok := p.dicts.WeekdayIndex(p.morph.Normalize(tok)); ok && (day < 0 || i < day) {
			day = i
		}
	}
	if day >= 0 {
		delta := (day - mondayIndex(now) + 7) % 7
		return now.AddDate(0, 0, delta)
	}

	if m := afterDaysPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return now.AddDate(0, 0, n)
		}
	}

	return now
}

// mondayIndex returns the weekday of t with Monday as 0.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		}))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// TitleCase capitalizes every word of s using Russian casing rules.
func TitleCase(s string) string {
	return cases.Title(language.Russian).String(s)
}
