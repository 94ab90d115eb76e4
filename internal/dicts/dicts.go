// Package dicts holds the lexical tables used to read dates out of queries.
package dicts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed dicts.json
var defaultJSON []byte

// Dictionaries is immutable once loaded and shared by all queries.
type Dictionaries struct {
	relative    map[string]int
	absolute    map[string]int
	weekdays    []string
	weekdayForm map[string]struct{}
}

type fileFormat struct {
	RelativeTerms      map[string]int `json:"relative_terms"`
	AbsoluteTerms      map[string]int `json:"absolute_terms"`
	DaysOfWeek         []string       `json:"days_of_week"`
	DaysOfWeekAllForms []string       `json:"days_of_week_all_forms"`
}

// Default returns the dictionaries compiled into the binary.
func Default() (*Dictionaries, error) {
	return Parse(bytes.NewReader(defaultJSON))
}

// Load reads dictionaries from a JSON file. An empty path yields Default.
func Load(path string) (*Dictionaries, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionaries: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes dictionaries from r.
func Parse(r io.Reader) (*Dictionaries, error) {
	var raw fileFormat
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dictionaries: %w", err)
	}
	if len(raw.DaysOfWeek) != 7 {
		return nil, fmt.Errorf("days_of_week: got %d entries, want 7", len(raw.DaysOfWeek))
	}
	for term, hour := range raw.AbsoluteTerms {
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("absolute_terms[%q]: hour %d out of range", term, hour)
		}
	}

	d := &Dictionaries{
		relative:    make(map[string]int, len(raw.RelativeTerms)),
		absolute:    make(map[string]int, len(raw.AbsoluteTerms)),
		weekdays:    make([]string, len(raw.DaysOfWeek)),
		weekdayForm: make(map[string]struct{}, len(raw.DaysOfWeekAllForms)),
	}
	for k, v := range raw.RelativeTerms {
		d.relative[strings.ToLower(k)] = v
	}
	for k, v := range raw.AbsoluteTerms {
		d.absolute[strings.ToLower(k)] = v
	}
	for i, day := range raw.DaysOfWeek {
		d.weekdays[i] = strings.ToLower(day)
	}
	for _, form := range raw.DaysOfWeekAllForms {
		d.weekdayForm[strings.ToLower(form)] = struct{}{}
	}
	return d, nil
}

// RelativeHours returns the hour offset for a relative term such as "завтра".
func (d *Dictionaries) RelativeHours(term string) (int, bool) {
	h, ok := d.relative[term]
	return h, ok
}

// AbsoluteHour returns the clock hour for a term such as "вечером".
func (d *Dictionaries) AbsoluteHour(term string) (int, bool) {
	h, ok := d.absolute[term]
	return h, ok
}

// WeekdayIndex returns the Monday-based index of a weekday's dictionary form.
func (d *Dictionaries) WeekdayIndex(lemma string) (int, bool) {
	for i, day := range d.weekdays {
		if day == lemma {
			return i, true
		}
	}
	return 0, false
}

// IsWeekdayForm reports whether word (lowercase) is any form of a weekday name.
func (d *Dictionaries) IsWeekdayForm(word string) bool {
	_, ok := d.weekdayForm[word]
	return ok
}
