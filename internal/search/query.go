// Package search implements the free-text filter of the admin feedback list.
//
// Text is folded before comparison: combining marks are stripped and case is
// folded, so "Café", "CAFE" and "cafe" are the same term. A record matches a
// query when every query term is a prefix of some word in the record.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-feedback-backend/internal/domain"
)

// Option adjusts how a query is parsed and matched.
type Option func(*options)

type options struct {
	reviewOnly bool
	stopwords  map[string]struct{}
}

// ReviewOnly restricts matching to the review text. By default the admin
// summary is searched too.
func ReviewOnly() Option {
	return func(o *options) { o.reviewOnly = true }
}

// WithStopwords drops the given words from queries.
func WithStopwords(words ...string) Option {
	return func(o *options) {
		for _, w := range words {
			w = fold(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if o.stopwords == nil {
				o.stopwords = make(map[string]struct{}, len(words))
			}
			o.stopwords[w] = struct{}{}
		}
	}
}

// Query is a parsed keyword query. The zero value matches everything.
type Query struct {
	terms      []string
	reviewOnly bool
}

// Parse folds and splits q into distinct terms, sorted for stable output.
func Parse(q string, opts ...Option) Query {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	seen := make(map[string]struct{})
	var terms []string
	for _, w := range words(q) {
		if _, stop := o.stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	sort.Strings(terms)
	return Query{terms: terms, reviewOnly: o.reviewOnly}
}

// Empty reports whether the query has no terms left after folding and
// stopword removal.
func (q Query) Empty() bool { return len(q.terms) == 0 }

// Terms returns the folded terms.
func (q Query) Terms() []string { return append([]string(nil), q.terms...) }

// Matches reports whether every term prefixes a word of rec.
func (q Query) Matches(rec domain.FeedbackRecord) bool {
	if q.Empty() {
		return true
	}
	text := rec.Review
	if !q.reviewOnly {
		text += " " + rec.AdminSummary
	}
	ws := words(text)
	for _, t := range q.terms {
		if !anyHasPrefix(ws, t) {
			return false
		}
	}
	return true
}

// Filter keeps the records matching query, in input order. A query with no
// terms returns records unchanged.
func Filter(records []domain.FeedbackRecord, query string, opts ...Option) []domain.FeedbackRecord {
	q := Parse(query, opts...)
	if q.Empty() {
		return records
	}
	out := make([]domain.FeedbackRecord, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

func words(s string) []string {
	return wordRE.FindAllString(fold(s), -1)
}

// fold strips combining marks and case-folds s. A transform chain keeps
// state, so each call builds its own.
func fold(s string) string {
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(strip, s); err == nil {
		s = out
	}
	return cases.Fold().String(s)
}

func anyHasPrefix(ws []string, prefix string) bool {
	for _, w := range ws {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}
