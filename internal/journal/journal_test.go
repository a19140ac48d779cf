package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/fusionx/internal/models"
)

func activities() []models.Activity {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Activity{
		models.NewActivity(at, models.ActivityCompetitionProposed, "c1", "owner", "", "Robotics Bash"),
		models.NewActivity(at.Add(time.Minute), models.ActivityCompetitionJoined, "c1", "alice", "", "1"),
		models.NewActivity(at.Add(2*time.Minute), models.ActivityCompetitionJoined, "c1", "bob", "", "2"),
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"WHERE a = ? AND b = ?", "WHERE a = $1 AND b = $2"},
		{"LIMIT ?", "LIMIT $1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PostgresPlaceholders(tt.in))
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Record(ctx, activities()))

	recent, err := m.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "bob", recent[0].Actor)
	assert.Equal(t, "alice", recent[1].Actor)

	all, err := m.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var j Journal = Nop{}
	require.NoError(t, j.Record(ctx, activities()))
	recent, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestPostgresJournal(t *testing.T) {
	dsn := os.Getenv("FUSIONX_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FUSIONX_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	j, err := NewPostgresJournal(dsn, "../../migrations")
	require.NoError(t, err)
	defer j.Close()

	_, err = j.DB.Exec("TRUNCATE activities")
	require.NoError(t, err)

	require.NoError(t, j.Record(ctx, activities()))
	require.NoError(t, j.Record(ctx, nil))

	recent, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "bob", recent[0].Actor)
	assert.Equal(t, models.ActivityCompetitionJoined, recent[0].Kind)
}
