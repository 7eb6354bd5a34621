package services

import (
	"strconv"
	"strings"

	"github.com/abrezinsky/eventvote/internal/models"
)

// ResolveStrategy identifies how a ballot token was matched to an entry
type ResolveStrategy int

const (
	// StrategyNone means the token did not resolve
	StrategyNone ResolveStrategy = iota
	// StrategyDirect matched a division whose code equals the ballot key ("P")
	StrategyDirect
	// StrategyLegacy matched a division whose code is the key plus a number ("P1")
	StrategyLegacy
	// StrategyRange matched by entry-number convention: P is 1-99, A is 100 and up
	StrategyRange
)

func (s ResolveStrategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyLegacy:
		return "legacy"
	case StrategyRange:
		return "range"
	default:
		return "none"
	}
}

// Resolution is the outcome of resolving one ballot token
type Resolution struct {
	Entry    models.Entry
	Strategy ResolveStrategy
}

// Found reports whether the token resolved to an entry
func (r Resolution) Found() bool {
	return r.Strategy != StrategyNone
}

// numberRange is an inclusive entry-number range; max 0 means unbounded
type numberRange struct {
	min, max int
}

func (nr numberRange) contains(n int) bool {
	return n >= nr.min && (nr.max == 0 || n <= nr.max)
}

// rangeConventions maps a ballot key to the entry numbers it conventionally covers
var rangeConventions = map[string]numberRange{
	"P": {min: 1, max: 99},
	"A": {min: 100},
}

// EntryResolver maps (division key, entry-number token) pairs to entries of one event.
// Only active divisions and the entries passed in are considered. Entry numbers
// that normalize to the same value are ambiguous and never resolve.
type EntryResolver struct {
	divisions  []models.Division
	byDivision map[int]map[string]models.Entry
	byNumber   map[string]models.Entry
	ambiguous  map[string]bool
}

// NewEntryResolver builds a resolver from an event's divisions and active entries
func NewEntryResolver(divisions []models.Division, entries []models.Entry) *EntryResolver {
	r := &EntryResolver{
		byDivision: make(map[int]map[string]models.Entry),
		byNumber:   make(map[string]models.Entry, len(entries)),
		ambiguous:  make(map[string]bool),
	}
	active := make(map[int]bool, len(divisions))
	for _, d := range divisions {
		if d.IsActive {
			r.divisions = append(r.divisions, d)
			active[d.ID] = true
		}
	}
	for _, e := range entries {
		if !e.IsActive || !active[e.DivisionID] {
			continue
		}
		key := NormalizeEntryNumber(e.EntryNumber)
		if _, dup := r.byNumber[key]; dup {
			r.ambiguous[key] = true
			continue
		}
		if r.byDivision[e.DivisionID] == nil {
			r.byDivision[e.DivisionID] = make(map[string]models.Entry)
		}
		r.byDivision[e.DivisionID][key] = e
		r.byNumber[key] = e
	}
	return r
}

// Resolve tries the direct, legacy and range strategies in that order
func (r *EntryResolver) Resolve(divisionKey, token string) Resolution {
	key := strings.ToUpper(strings.TrimSpace(divisionKey))
	number := NormalizeEntryNumber(token)
	if key == "" || number == "" || r.ambiguous[number] {
		return Resolution{}
	}

	if e, ok := r.inDivisions(number, func(code string) bool { return code == key }); ok {
		return Resolution{Entry: e, Strategy: StrategyDirect}
	}
	if e, ok := r.inDivisions(number, func(code string) bool { return isLegacyCode(code, key) }); ok {
		return Resolution{Entry: e, Strategy: StrategyLegacy}
	}
	if nr, ok := rangeConventions[key]; ok {
		if n, err := strconv.Atoi(number); err == nil && nr.contains(n) {
			if e, ok := r.byNumber[number]; ok {
				return Resolution{Entry: e, Strategy: StrategyRange}
			}
		}
	}
	return Resolution{}
}

func (r *EntryResolver) inDivisions(number string, match func(code string) bool) (models.Entry, bool) {
	for _, d := range r.divisions {
		if !match(strings.ToUpper(strings.TrimSpace(d.Code))) {
			continue
		}
		if e, ok := r.byDivision[d.ID][number]; ok {
			return e, true
		}
	}
	return models.Entry{}, false
}

// isLegacyCode reports whether code is key followed by one or more digits ("P1" for "P")
func isLegacyCode(code, key string) bool {
	if len(code) <= len(key) || !strings.HasPrefix(code, key) {
		return false
	}
	for _, c := range code[len(key):] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// NormalizeEntryNumber canonicalises an entry number: surrounding space is
// dropped, numbers lose leading zeros ("007" is "7") and letters are upper-cased.
// Entries are stored in this form so the per-event unique index agrees with
// ballot resolution.
func NormalizeEntryNumber(token string) string {
	t := strings.TrimSpace(token)
	if n, err := strconv.Atoi(t); err == nil {
		return strconv.Itoa(n)
	}
	return strings.ToUpper(t)
}
