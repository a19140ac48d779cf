package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store/memory"
)

type testData struct {
	book  *Book
	store *memory.Store
	now   time.Time
}

func setupTestData(t *testing.T) *testData {
	td := &testData{store: memory.NewStore(), now: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	td.book = NewBook(td.store, func() time.Time { return td.now })
	return td
}

func (td *testData) account(t *testing.T, name, email string, fields ...string) *models.Account {
	t.Helper()
	a, _, err := td.book.UpsertAccount(models.AccountRequest{Name: name, Email: email, Fields: fields})
	require.NoError(t, err)
	return a
}

func TestUpsertAccount(t *testing.T) {
	td := setupTestData(t)

	t.Run("invalid email", func(t *testing.T) {
		_, _, err := td.book.UpsertAccount(models.AccountRequest{Name: "Dan", Email: "not-an-email"})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	created := td.account(t, "Dan", " Dan@X.com ", "AI", "ai", " Robotics ")
	assert.Equal(t, "dan@x.com", created.Email)
	assert.Equal(t, []string{"AI", "Robotics"}, created.Fields)

	t.Run("same email updates in place", func(t *testing.T) {
		avatar := &models.FileRef{Name: "me.png"}
		_, _, err := td.book.UpsertAccount(models.AccountRequest{Name: "Dan", Email: "dan@x.com", Avatar: avatar})
		require.NoError(t, err)

		updated, _, err := td.book.UpsertAccount(models.AccountRequest{Name: "Daniel", Email: "DAN@x.com", Fields: []string{"Art"}})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Daniel", updated.Name)
		assert.Equal(t, []string{"Art"}, updated.Fields)
		require.NotNil(t, updated.Avatar, "avatar kept when not replaced")
		assert.Equal(t, "me.png", updated.Avatar.Name)

		all, err := td.book.Accounts()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := td.book.AccountByEmail("dan@x.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		_, err = td.book.AccountByEmail("ghost@x.com")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestSubmitProjectAppendsVersions(t *testing.T) {
	td := setupTestData(t)
	dan := td.account(t, "Dan", "dan@x.com")

	first, _, err := td.book.SubmitProject(models.ProjectRequest{AccountID: dan.ID, Title: "Drone", Field: "Robotics", Description: "v1"})
	require.NoError(t, err)
	require.Len(t, first.Versions, 1)

	td.now = td.now.Add(24 * time.Hour)
	second, acts, err := td.book.SubmitProject(models.ProjectRequest{AccountID: dan.ID, Title: "Drone", Field: "AI", Description: "v2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Versions, 2)
	assert.Equal(t, "v1", second.Versions[0].Description)
	assert.Equal(t, "v2", second.Versions[1].Description)
	assert.Equal(t, "v2", second.Description)
	assert.Equal(t, "AI", second.Field)
	require.Len(t, acts, 1)
	assert.Equal(t, "Drone v2", acts[0].Detail)

	projects, err := td.book.Projects(dan.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	_, _, err = td.book.SubmitProject(models.ProjectRequest{AccountID: "ghost", Title: "X", Field: "AI", Description: "d"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestVerifyAndComment(t *testing.T) {
	td := setupTestData(t)
	dan := td.account(t, "Dan", "dan@x.com")
	p, _, err := td.book.SubmitProject(models.ProjectRequest{AccountID: dan.ID, Title: "Drone", Field: "Robotics", Description: "d"})
	require.NoError(t, err)

	_, _, err = td.book.Verify(p.ID, "")
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, _, err = td.book.Verify("nope", "mentor@x.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	verified, acts, err := td.book.Verify(p.ID, "mentor@x.com")
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, "mentor@x.com", verified.VerifiedBy)
	assert.Len(t, acts, 1)

	_, acts, err = td.book.Verify(p.ID, "other@x.com")
	require.NoError(t, err)
	assert.Empty(t, acts, "verifying twice is a no-op")
	assert.Equal(t, "mentor@x.com", verified.VerifiedBy)

	commented, _, err := td.book.Comment(p.ID, "eve", "love it")
	require.NoError(t, err)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "love it", commented.Comments[0].Text)

	_, _, err = td.book.Comment(p.ID, "eve", "  ")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestRecommend(t *testing.T) {
	td := setupTestData(t)
	dan := td.account(t, "Dan", "dan@x.com", "AI")
	eve := td.account(t, "Eve", "eve@x.com", "Art")

	require.NoError(t, td.store.SaveCompetition(&models.Competition{ID: "c1", Title: "AI Cup", Field: "ai", Threshold: 1}))
	require.NoError(t, td.store.SaveCompetition(&models.Competition{ID: "c2", Title: "Art Jam", Field: "Art", Threshold: 1}))
	_, _, err := td.book.SubmitProject(models.ProjectRequest{AccountID: eve.ID, Title: "Net", Field: "AI", Description: "d"})
	require.NoError(t, err)
	_, _, err = td.book.SubmitProject(models.ProjectRequest{AccountID: dan.ID, Title: "Own", Field: "AI", Description: "d"})
	require.NoError(t, err)

	rec, err := td.book.Recommend(dan.ID)
	require.NoError(t, err)
	require.Len(t, rec.Competitions, 1)
	assert.Equal(t, "AI Cup", rec.Competitions[0].Title)
	require.Len(t, rec.Projects, 1)
	assert.Equal(t, "Net", rec.Projects[0].Title)
}

func TestTopPortfoliosAndBadgeFilter(t *testing.T) {
	td := setupTestData(t)
	a := td.account(t, "A", "a@x.com")
	b := td.account(t, "B", "b@x.com")
	c := td.account(t, "C", "c@x.com")
	a.YesVotes, b.YesVotes, c.YesVotes = 10, 10, 5
	b.Badges = []models.Badge{models.MultiFieldBadge()}

	top, err := td.book.TopPortfolios(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, a.ID, top[0].Subject)
	assert.Equal(t, b.ID, top[1].Subject)

	profile, err := td.book.AccountsByBadgeActivity(models.ActivityProfile)
	require.NoError(t, err)
	require.Len(t, profile, 1)
	assert.Equal(t, "B", profile[0].Name)

	none, err := td.book.AccountsByBadgeActivity(models.ActivityCompetition)
	require.NoError(t, err)
	assert.Empty(t, none)
}
