// internal/store/memory/store_test.go
package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/fusionx/internal/models"
)

type testData struct {
	store *Store
	now   time.Time
}

func setupTestData(t *testing.T) *testData {
	s := NewStore()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveCompetition(&models.Competition{
		ID:        "c1",
		Title:     "Robotics Bash",
		Threshold: 2,
		CreatedAt: now,
	}))
	require.NoError(t, s.SaveAccount(&models.Account{
		ID:    "a1",
		Email: "Dan@X.com",
		Name:  "Dan",
	}))

	return &testData{store: s, now: now}
}

func TestCompetitionOperations(t *testing.T) {
	td := setupTestData(t)

	t.Run("find by title ignores case", func(t *testing.T) {
		got, err := td.store.FindCompetitionByTitle("  ROBOTICS bash ")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "c1", got.ID)
	})

	t.Run("get non-existent competition", func(t *testing.T) {
		got, err := td.store.GetCompetition("nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("title collision is rejected", func(t *testing.T) {
		err := td.store.SaveCompetition(&models.Competition{ID: "c2", Title: "robotics BASH", Threshold: 1})
		assert.Error(t, err)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		require.NoError(t, td.store.SaveCompetition(&models.Competition{ID: "c3", Title: "Art Jam", Threshold: 1}))
		require.NoError(t, td.store.SaveCompetition(&models.Competition{ID: "c4", Title: "AI Cup", Threshold: 1}))

		list, err := td.store.ListCompetitions()
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"c1", "c3", "c4"}, []string{list[0].ID, list[1].ID, list[2].ID})
	})
}

func TestDeleteCompetitionCascades(t *testing.T) {
	td := setupTestData(t)
	require.NoError(t, td.store.SaveCompetition(&models.Competition{ID: "c2", Title: "Art Jam", Threshold: 1}))

	require.NoError(t, td.store.SaveSubmission(&models.Submission{ID: "s1", CompetitionID: "c1", Title: "Bot"}))
	require.NoError(t, td.store.SaveSubmission(&models.Submission{ID: "s2", CompetitionID: "c2", Title: "Canvas"}))
	require.NoError(t, td.store.SaveSubmission(&models.Submission{ID: "s3", CompetitionID: "c1", Title: "Arm"}))
	require.NoError(t, td.store.AppendFeedback(models.Feedback{CompetitionID: "c1", Mentor: "m", Text: "ok"}))

	require.NoError(t, td.store.DeleteCompetition("c1"))

	got, err := td.store.GetCompetition("c1")
	require.NoError(t, err)
	assert.Nil(t, got)

	subs, err := td.store.ListSubmissions("")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "s2", subs[0].ID)

	fb, err := td.store.ListFeedback("c1")
	require.NoError(t, err)
	assert.Empty(t, fb)

	// the title is free again
	require.NoError(t, td.store.SaveCompetition(&models.Competition{ID: "c5", Title: "Robotics Bash", Threshold: 1}))
}

func TestSubmissionRequiresCompetition(t *testing.T) {
	td := setupTestData(t)
	err := td.store.SaveSubmission(&models.Submission{ID: "s1", CompetitionID: "missing"})
	assert.Error(t, err)
}

func TestAccountOperations(t *testing.T) {
	td := setupTestData(t)

	t.Run("email lookup is normalized", func(t *testing.T) {
		got, err := td.store.GetAccountByEmail(" dan@x.COM ")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a1", got.ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := td.store.SaveAccount(&models.Account{ID: "a2", Email: "dan@x.com"})
		assert.Error(t, err)
	})

	t.Run("email change moves the index", func(t *testing.T) {
		a, err := td.store.GetAccount("a1")
		require.NoError(t, err)
		a.Email = "daniel@x.com"
		require.NoError(t, td.store.SaveAccount(a))

		old, err := td.store.GetAccountByEmail("dan@x.com")
		require.NoError(t, err)
		assert.Nil(t, old)

		moved, err := td.store.GetAccountByEmail("daniel@x.com")
		require.NoError(t, err)
		require.NotNil(t, moved)
	})
}

func TestProjectLookup(t *testing.T) {
	td := setupTestData(t)

	require.NoError(t, td.store.SaveProject(&models.Project{ID: "p1", AccountID: "a1", Title: "Drone"}))
	assert.Error(t, td.store.SaveProject(&models.Project{ID: "p2", AccountID: "ghost", Title: "Drone"}))

	got, err := td.store.FindProject("a1", "Drone")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)

	missing, err := td.store.FindProject("a1", "drone")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAppendOnlyLogs(t *testing.T) {
	td := setupTestData(t)

	require.NoError(t, td.store.AppendChatMessage(models.ChatMessage{Room: "ai", User: "dan", Message: "hi"}))
	require.NoError(t, td.store.AppendChatMessage(models.ChatMessage{Room: "art", User: "eve", Message: "yo"}))
	require.NoError(t, td.store.AppendChatMessage(models.ChatMessage{Room: "ai", User: "eve", Message: "hey"}))

	rooms, err := td.store.ListChatRooms()
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "art"}, rooms)

	msgs, err := td.store.ListChatMessages("ai")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hey", msgs[1].Message)

	// callers get a copy
	msgs[0].Message = "changed"
	again, err := td.store.ListChatMessages("ai")
	require.NoError(t, err)
	assert.Equal(t, "hi", again[0].Message)
}

func TestEmptyListsAreNotNil(t *testing.T) {
	td := setupTestData(t)

	subs, err := td.store.ListSubmissions("c1")
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)

	projects, err := td.store.ListProjects("a1")
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}
