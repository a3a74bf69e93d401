package models

import (
	"sort"
	"strings"
)

// Compare orders listings by price, then by model ignoring case.
// It returns -1, 0 or +1.
func Compare(a, b Listing) int {
	if c := a.Price.Cmp(b.Price); c != 0 {
		return c
	}
	return strings.Compare(strings.ToUpper(a.Model), strings.ToUpper(b.Model))
}

// Less reports whether a sorts before b.
func Less(a, b Listing) bool {
	return Compare(a, b) < 0
}

// Equal reports whether a and b have the same sort key.
func Equal(a, b Listing) bool {
	return Compare(a, b) == 0
}

// SortListings sorts in place. Listings with equal keys keep their input order.
func SortListings(ls []Listing) {
	sort.SliceStable(ls, func(i, j int) bool { return Less(ls[i], ls[j]) })
}
