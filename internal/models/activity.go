package models

import "time"

const (
	ActivityCompetitionProposed = "competition_proposed"
	ActivityCompetitionJoined   = "competition_joined"
	ActivityCompetitionDeleted  = "competition_deleted"
	ActivityWorkSubmitted       = "work_submitted"
	ActivityWorkUpdated         = "work_updated"
	ActivityWorkDeleted         = "work_deleted"
	ActivitySubmissionVoted     = "submission_voted"
	ActivityFeedbackAdded       = "feedback_added"
	ActivityVoteCast            = "vote_cast"
	ActivityVoteChanged         = "vote_changed"
	ActivityAccountSaved        = "account_saved"
	ActivityProjectSubmitted    = "project_submitted"
	ActivityProjectVerified     = "project_verified"
	ActivityProjectCommented    = "project_commented"
	ActivityBadgeAwarded        = "badge_awarded"
	ActivityXPChanged           = "xp_changed"
	ActivityChatPosted          = "chat_posted"
)

// Activity is one fact produced by a mutating operation.
type Activity struct {
	OccurredAt int64  `db:"occurred_at" json:"occurred_at"`
	Kind       string `db:"kind" json:"kind"`
	Subject    string `db:"subject" json:"subject"`
	Actor      string `db:"actor" json:"actor"`
	Ref        string `db:"ref" json:"ref"`
	Detail     string `db:"detail" json:"detail"`
}

func NewActivity(at time.Time, kind, subject, actor, ref, detail string) Activity {
	return Activity{
		OccurredAt: at.Unix(),
		Kind:       kind,
		Subject:    subject,
		Actor:      actor,
		Ref:        ref,
		Detail:     detail,
	}
}
