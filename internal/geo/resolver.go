package geo

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// similarityThreshold is the minimum sequence-similarity ratio for a fuzzy
// field match. Resolution behaviour changes materially with this value, so
// it is a contractual constant rather than a tunable.
const similarityThreshold = 0.65

// addressFieldOrder is the fixed precedence in which candidate address
// fields are compared against the query.
var addressFieldOrder = []string{"city", "town", "village", "locality", "county", "state", "country"}

// FuzzyResolver resolves free-text queries against geocoder candidates,
// tolerating typos via substring and sequence-similarity matching.
type FuzzyResolver struct {
	geocoder Geocoder
}

func NewFuzzyResolver(geocoder Geocoder) *FuzzyResolver {
	return &FuzzyResolver{geocoder: geocoder}
}

// Resolve returns the best matching place for the query, or ErrNotFound.
// Provider failures are logged and reported as ErrNotFound; callers always
// receive a sentinel, never a raw transport error.
func (r *FuzzyResolver) Resolve(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, ErrNotFound
	}
	queryNorm := normalize(query)

	candidates, err := r.geocoder.Search(ctx, query)
	if err != nil {
		log.Printf("geo: search failed for %q: %v", query, err)
		return Place{}, ErrNotFound
	}
	if len(candidates) == 0 {
		log.Printf("geo: no results found for %q", query)
		return Place{}, ErrNotFound
	}

	// Stable sort keeps provider order for equal importance.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Importance > candidates[j].Importance
	})

	for _, cand := range candidates {
		for _, field := range candidateFields(cand) {
			fieldNorm := normalize(field)
			if strings.Contains(fieldNorm, queryNorm) {
				return placeFrom(cand), nil
			}
			if similarity(queryNorm, fieldNorm) >= similarityThreshold {
				return placeFrom(cand), nil
			}
		}
	}

	log.Printf("geo: %q not found with sufficient confidence", query)
	return Place{}, ErrNotFound
}

// candidateFields returns the populated address fields in precedence order,
// followed by the display name.
func candidateFields(cand Candidate) []string {
	fields := make([]string, 0, len(addressFieldOrder)+1)
	for _, key := range addressFieldOrder {
		if v, ok := cand.Address[key]; ok && v != "" {
			fields = append(fields, v)
		}
	}
	if cand.DisplayName != "" {
		fields = append(fields, cand.DisplayName)
	}
	return fields
}

func placeFrom(cand Candidate) Place {
	name := firstOf(cand.Address, "city", "town", "village", "locality")
	if name == "" {
		name = cand.DisplayName
	}
	region := firstOf(cand.Address, "state", "county")

	return Place{
		Lat:     cand.Lat,
		Lon:     cand.Lon,
		Name:    name,
		Region:  region,
		Country: cand.Address["country"],
	}
}

func firstOf(address map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := address[key]; v != "" {
			return v
		}
	}
	return ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// similarity computes the difflib-style sequence similarity ratio between
// two strings, comparing rune by rune.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}
