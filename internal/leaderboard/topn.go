// internal/leaderboard/topn.go
package leaderboard

import (
	"sort"
	"strconv"
)

// Entry is one ranked row. Subject is whatever id the caller ranks (a submission, an account).
type Entry struct {
	Subject string `json:"subject"`
	Label   string `json:"label"`
	Votes   int    `json:"votes"`
}

// TopN orders entries by votes, highest first, keeping the input order for ties,
// and returns at most n of them. The input slice is left untouched.
func TopN(entries []Entry, n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Ordinal renders a 1-based rank as "1st", "2nd", "3rd", "4th", ...
func Ordinal(rank int) string {
	suffix := "th"
	switch rank % 100 {
	case 11, 12, 13:
	default:
		switch rank % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(rank) + suffix
}

