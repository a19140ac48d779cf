package models

import (
	"fmt"
	"time"
)

const (
	ActivityPortfolio    = "Portfolio"
	ActivityProfile      = "Profile"
	ActivityCompetition  = "Competition"
	ActivityVerification = "Verification"
)

const (
	BadgeFirstPortfolio = "First Portfolio Submitted"
	BadgeMultiField     = "Multi-Field Participant"
)

type Badge struct {
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Activity  string    `json:"activity"`
	AwardedAt time.Time `json:"awarded_at"`
}

var rankIcons = []string{"🥇", "🥈", "🥉"}

func FirstPortfolioBadge() Badge {
	return Badge{Name: BadgeFirstPortfolio, Icon: "🏆", Activity: ActivityPortfolio}
}

func MultiFieldBadge() Badge {
	return Badge{Name: BadgeMultiField, Icon: "🌟", Activity: ActivityProfile}
}

// TopRankBadge builds the badge for a 1-based podium rank.
func TopRankBadge(rank int, competitionTitle string) Badge {
	icon := "🏅"
	if rank >= 1 && rank <= len(rankIcons) {
		icon = rankIcons[rank-1]
	}
	return Badge{
		Name:     fmt.Sprintf("Top %d in %s", rank, competitionTitle),
		Icon:     icon,
		Activity: ActivityCompetition,
	}
}

func VerifiedProjectBadge(projectTitle string) Badge {
	return Badge{
		Name:     fmt.Sprintf("Verified Project: %s", projectTitle),
		Icon:     "✅",
		Activity: ActivityVerification,
	}
}
