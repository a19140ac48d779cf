package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopN(t *testing.T) {
	tests := []struct {
		name     string
		entries  []Entry
		n        int
		expected []string
	}{
		{
			name:     "ties keep insertion order",
			entries:  []Entry{{Subject: "A", Votes: 10}, {Subject: "B", Votes: 10}, {Subject: "C", Votes: 5}},
			n:        2,
			expected: []string{"A", "B"},
		},
		{
			name:     "higher votes first",
			entries:  []Entry{{Subject: "A", Votes: 1}, {Subject: "B", Votes: 7}, {Subject: "C", Votes: 3}},
			n:        3,
			expected: []string{"B", "C", "A"},
		},
		{
			name:     "n larger than input",
			entries:  []Entry{{Subject: "A", Votes: 1}},
			n:        5,
			expected: []string{"A"},
		},
		{
			name:     "zero n",
			entries:  []Entry{{Subject: "A", Votes: 1}},
			n:        0,
			expected: []string{},
		},
		{
			name:     "empty input",
			entries:  nil,
			n:        3,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopN(tt.entries, tt.n)
			subjects := make([]string, 0, len(got))
			for _, e := range got {
				subjects = append(subjects, e.Subject)
			}
			assert.Equal(t, tt.expected, subjects)
		})
	}
}

func TestTopNDoesNotReorderInput(t *testing.T) {
	entries := []Entry{{Subject: "A", Votes: 1}, {Subject: "B", Votes: 9}}
	_ = TopN(entries, 2)
	assert.Equal(t, "A", entries[0].Subject)
	assert.Equal(t, "B", entries[1].Subject)
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 21: "21st", 102: "102nd"}
	for rank, want := range cases {
		assert.Equal(t, want, Ordinal(rank))
	}
}
