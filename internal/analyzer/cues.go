package analyzer

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonesrussell/analyzer/internal/logger"
)

// CueMatch reports the matched terms for one lexicon category.
type CueMatch struct {
	Category string   `json:"category"`
	Terms    []string `json:"terms"`
	Count    int      `json:"count"`
}

// CueEngine scans text for credibility cues in a single Aho-Corasick pass.
// Matching is case-insensitive, accent-insensitive and aligned on word
// boundaries. Matches enrich history rows, structured logs and metrics
// only; analysis responses are never derived from them.
type CueEngine struct {
	mu       sync.RWMutex
	matcher  *ahocorasick.Matcher
	terms    []string            // padded normalized terms, build order
	termCats map[string][]string // padded normalized term -> categories
	logger   logger.Logger
}

// NewCueEngine builds the matcher from a category -> terms lexicon.
func NewCueEngine(lexicon map[string][]string, log logger.Logger) *CueEngine {
	engine := &CueEngine{
		termCats: make(map[string][]string),
		logger:   log,
	}

	categories := make([]string, 0, len(lexicon))
	for cat := range lexicon {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		for _, term := range lexicon[cat] {
			normalized := padTerm(normalizeCueText(term))
			if strings.TrimSpace(normalized) == "" {
				continue
			}
			if _, seen := engine.termCats[normalized]; !seen {
				engine.terms = append(engine.terms, normalized)
			}
			engine.termCats[normalized] = append(engine.termCats[normalized], cat)
		}
	}

	if len(engine.terms) > 0 {
		engine.matcher = ahocorasick.NewStringMatcher(engine.terms)
	}

	if log != nil {
		log.Info("cue engine initialized",
			logger.Int("categories", len(categories)),
			logger.Int("terms", len(engine.terms)))
	}

	return engine
}

// Match returns per-category matches sorted by distinct term count (desc),
// then category name. Returns nil when nothing matches.
func (e *CueEngine) Match(text string) []CueMatch {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil || text == "" {
		return nil
	}

	padded := padTerm(normalizeCueText(text))
	hits := e.matcher.Match([]byte(padded))
	if len(hits) == 0 {
		return nil
	}

	perCategory := make(map[string]map[string]bool)
	for _, hitIndex := range hits {
		if hitIndex >= len(e.terms) {
			continue
		}
		term := e.terms[hitIndex]
		display := strings.TrimSpace(term)
		for _, cat := range e.termCats[term] {
			if perCategory[cat] == nil {
				perCategory[cat] = make(map[string]bool)
			}
			perCategory[cat][display] = true
		}
	}

	matches := make([]CueMatch, 0, len(perCategory))
	for cat, termSet := range perCategory {
		terms := make([]string, 0, len(termSet))
		for t := range termSet {
			terms = append(terms, t)
		}
		sort.Strings(terms)
		matches = append(matches, CueMatch{Category: cat, Terms: terms, Count: len(terms)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Count != matches[j].Count {
			return matches[i].Count > matches[j].Count
		}
		return matches[i].Category < matches[j].Category
	})

	return matches
}

// TermCount returns the number of distinct lexicon terms.
func (e *CueEngine) TermCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.terms)
}

// CueCategories flattens matches into their category names, preserving
// match order.
func CueCategories(matches []CueMatch) []string {
	if len(matches) == 0 {
		return nil
	}
	cats := make([]string, 0, len(matches))
	for _, m := range matches {
		cats = append(cats, m.Category)
	}
	return cats
}

// padTerm wraps a normalized term in spaces so automaton matches align on
// word boundaries rather than arbitrary substrings.
func padTerm(term string) string {
	return " " + term + " "
}

// normalizeCueText lowercases, strips diacritics, maps punctuation to
// spaces and collapses whitespace runs, so lexicon terms and scanned text
// normalize identically.
func normalizeCueText(text string) string {
	text = strings.ToLower(removeAccents(text))

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

// removeAccents strips diacritical marks from a string.
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
