package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompetitionStatus(t *testing.T) {
	tests := []struct {
		name         string
		threshold    int
		participants int
		expected     CompetitionStatus
	}{
		{"no participants", 2, 0, StatusPending},
		{"one short", 2, 1, StatusPending},
		{"exactly threshold", 2, 2, StatusActive},
		{"over threshold", 1, 3, StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Competition{Threshold: tt.threshold}
			for i := 0; i < tt.participants; i++ {
				c.Participants = append(c.Participants, Participation{ParticipantID: string(rune('a' + i))})
			}
			assert.Equal(t, tt.expected, c.Status())
			assert.Equal(t, tt.expected, NewCompetitionView(c).Status)
		})
	}
}

func TestTopRankBadge(t *testing.T) {
	first := TopRankBadge(1, "AI Cup")
	assert.Equal(t, "Top 1 in AI Cup", first.Name)
	assert.Equal(t, "🥇", first.Icon)
	assert.Equal(t, ActivityCompetition, first.Activity)

	assert.Equal(t, "🥉", TopRankBadge(3, "AI Cup").Icon)
	assert.Equal(t, "🏅", TopRankBadge(4, "AI Cup").Icon)
}

func TestRequestValidation(t *testing.T) {
	assert.Error(t, (&ProposeCompetitionRequest{Title: "T", Description: "d"}).Validate())
	assert.NoError(t, (&ProposeCompetitionRequest{Title: "T", Description: "d", Threshold: 1}).Validate())

	assert.Error(t, (&VoteRequest{VoterID: "a", TargetID: "b", Verdict: "maybe"}).Validate())
	assert.NoError(t, (&VoteRequest{VoterID: "a", TargetID: "b", Verdict: VerdictNo}).Validate())

	assert.Error(t, (&AccountRequest{Name: "Dan", Email: "dan"}).Validate())
	assert.Error(t, (&AccountRequest{Name: "Dan", Email: "dan@x.com", Fields: []string{""}}).Validate())
	assert.NoError(t, (&AccountRequest{Name: "Dan", Email: "dan@x.com", Fields: []string{"AI"}}).Validate())

	empty := ""
	assert.Error(t, (&SubmissionUpdate{Title: &empty}).Validate())
	assert.NoError(t, (&SubmissionUpdate{}).Validate())
}
