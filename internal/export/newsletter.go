// internal/export/newsletter.go
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shrimpsizemoose/fusionx/internal/competition"
	"github.com/shrimpsizemoose/fusionx/internal/leaderboard"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

const (
	NewsletterTitle = "FusionX Weekly Competition Newsletter"
	winnersPerIssue = 3
	unknownStudent  = "Unknown"
)

type Winner struct {
	Place        string `json:"place"`
	ProjectTitle string `json:"project"`
	StudentName  string `json:"student_name"`
	Email        string `json:"email"`
	Votes        int    `json:"votes"`
}

type NewsletterSection struct {
	Competition string   `json:"competition"`
	Winners     []Winner `json:"winners"`
}

func Place(rank int) string {
	return leaderboard.Ordinal(rank) + " Place"
}

// BuildNewsletter takes the top three of every competition's ranked vote list.
// Competitions without votes are left out.
func BuildNewsletter(s store.RecordStore) ([]NewsletterSection, error) {
	competitions, err := s.ListCompetitions()
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}

	sections := []NewsletterSection{}
	for _, c := range competitions {
		ranked, err := competition.RankedVotes(s, c.ID)
		if err != nil {
			return nil, err
		}
		ranked = leaderboard.TopN(ranked, winnersPerIssue)
		if len(ranked) == 0 {
			continue
		}

		section := NewsletterSection{Competition: c.Title}
		for i, entry := range ranked {
			w := Winner{Place: Place(i + 1), ProjectTitle: entry.Label, StudentName: unknownStudent, Votes: entry.Votes}
			sub, err := s.GetSubmission(entry.Subject)
			if err != nil {
				return nil, fmt.Errorf("failed to get submission: %w", err)
			}
			if sub != nil {
				account, err := s.GetAccount(sub.SubmitterID)
				if err != nil {
					return nil, fmt.Errorf("failed to get account: %w", err)
				}
				if account != nil {
					w.StudentName = account.Name
					w.Email = account.Email
				}
			}
			section.Winners = append(section.Winners, w)
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func WriteNewsletter(w io.Writer, sections []NewsletterSection, issued time.Time) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n", NewsletterTitle)
	ew.printf("Issued %s\n", issued.Format("2006-01-02"))

	if len(sections) == 0 {
		ew.printf("\nNo competition votes yet this week.\n")
		return ew.err
	}
	for _, section := range sections {
		ew.printf("\n== %s ==\n", section.Competition)
		for _, winner := range section.Winners {
			student := winner.StudentName
			if winner.Email != "" {
				student = fmt.Sprintf("%s (%s)", winner.StudentName, winner.Email)
			}
			ew.printf("%s: %s by %s | Votes: %d\n", winner.Place, winner.ProjectTitle, student, winner.Votes)
		}
	}
	return ew.err
}

// errWriter keeps the first write error so renderers can print freely.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
