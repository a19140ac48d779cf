package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/fusionx/internal/app"
	"github.com/shrimpsizemoose/fusionx/internal/journal"
	"github.com/shrimpsizemoose/fusionx/internal/voting"
)

var issued = time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)

type client struct {
	t      *testing.T
	server *httptest.Server
}

func newClient(t *testing.T, configure func(*app.Config)) *client {
	t.Helper()
	cfg := app.DefaultConfig()
	if configure != nil {
		configure(cfg)
	}
	svc := app.New(cfg, voting.NewMemoryBudgetStore(), journal.NewMemory(), func() time.Time { return issued })
	mux := http.NewServeMux()
	NewHandler(svc).Routes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &client{t: t, server: srv}
}

func (c *client) do(method, path, actor string, body any) (int, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if actor != "" {
		req.Header.Set("X-Fusion-User", actor)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func (c *client) decode(data []byte, v any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(data, v))
}

func (c *client) account(name, email string) string {
	c.t.Helper()
	status, data := c.do("POST", "/api/v1/accounts", "", map[string]any{"name": name, "email": email})
	require.Equal(c.t, http.StatusOK, status, string(data))
	var out struct {
		ID string `json:"id"`
	}
	c.decode(data, &out)
	return out.ID
}

func TestCompetitionLifecycleOverHTTP(t *testing.T) {
	c := newClient(t, nil)
	alice := c.account("Alice", "alice@x.com")
	bob := c.account("Bob", "bob@x.com")

	status, _ := c.do("POST", "/api/v1/competitions", "", map[string]any{"title": "Robotics Bash", "description": "bots", "threshold": 2})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, data := c.do("POST", "/api/v1/competitions", "owner", map[string]any{"title": "Robotics Bash", "description": "bots", "threshold": 2})
	require.Equal(t, http.StatusCreated, status, string(data))
	var comp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	c.decode(data, &comp)
	assert.Equal(t, "PENDING", comp.Status)

	status, _ = c.do("POST", "/api/v1/competitions", "owner", map[string]any{"title": "robotics BASH", "description": "again", "threshold": 1})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = c.do("POST", "/api/v1/competitions", "owner", map[string]any{"title": "No Threshold", "description": "d", "threshold": 0})
	assert.Equal(t, http.StatusBadRequest, status)

	joinPath := fmt.Sprintf("/api/v1/competitions/%s/join", comp.ID)
	status, _ = c.do("POST", joinPath, "alice@x.com", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = c.do("POST", joinPath, alice, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = c.do("POST", joinPath, alice, nil)
	assert.Equal(t, http.StatusConflict, status)
	status, data = c.do("POST", joinPath, bob, nil)
	require.Equal(t, http.StatusOK, status)
	c.decode(data, &comp)
	assert.Equal(t, "ACTIVE", comp.Status)

	status, data = c.do("GET", "/api/v1/competitions?status=active", "", nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Rows []json.RawMessage `json:"rows"`
	}
	c.decode(data, &list)
	assert.Len(t, list.Rows, 1)

	status, _ = c.do("GET", "/api/v1/competitions/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	path := "/api/v1/competitions/" + comp.ID
	status, _ = c.do("DELETE", path, "mallory", nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do("DELETE", path, "owner", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = c.do("GET", path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubmissionsOverHTTP(t *testing.T) {
	c := newClient(t, nil)
	alice := c.account("Alice", "alice@x.com")
	bob := c.account("Bob", "bob@x.com")

	_, data := c.do("POST", "/api/v1/competitions", "owner", map[string]any{"title": "AI Cup", "description": "d", "threshold": 1})
	var comp struct {
		ID string `json:"id"`
	}
	c.decode(data, &comp)

	status, data := c.do("GET", "/api/v1/competitions/"+comp.ID+"/submissions", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"rows": []}`, string(data))

	status, data = c.do("POST", "/api/v1/competitions/"+comp.ID+"/submissions", "ghost", map[string]any{"title": "Net", "description": "d"})
	assert.Equal(t, http.StatusNotFound, status, string(data))

	status, data = c.do("POST", "/api/v1/competitions/"+comp.ID+"/submissions", alice, map[string]any{"title": "Net", "description": "d"})
	require.Equal(t, http.StatusCreated, status, string(data))
	var sub struct {
		ID      string `json:"id"`
		Ordinal int    `json:"ordinal"`
	}
	c.decode(data, &sub)
	assert.Equal(t, 1, sub.Ordinal)

	status, _ = c.do("PATCH", "/api/v1/submissions/"+sub.ID, bob, map[string]any{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.do("POST", "/api/v1/submissions/"+sub.ID+"/votes", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do("POST", "/api/v1/submissions/"+sub.ID+"/votes", "bob@x.com", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = c.do("POST", "/api/v1/submissions/"+sub.ID+"/votes", bob, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = c.do("POST", "/api/v1/submissions/"+sub.ID+"/votes", bob, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, data = c.do("GET", "/api/v1/competitions/"+comp.ID+"/ranking", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), sub.ID)

	status, _ = c.do("GET", "/api/v1/competitions/"+comp.ID+"/submissions?order=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = c.do("GET", "/api/v1/newsletter.txt", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "Issued 2024-09-02\n")
	assert.Contains(t, string(data), "1st Place: Net by Alice (alice@x.com) | Votes: 1")
}

func TestVoteBudgetOverHTTP(t *testing.T) {
	c := newClient(t, nil)
	carol := c.account("Carol", "carol@x.com")

	targets := make([]string, 6)
	for i := range targets {
		targets[i] = c.account(fmt.Sprintf("T%d", i), fmt.Sprintf("t%d@x.com", i))
	}

	for _, target := range targets[:5] {
		status, data := c.do("POST", "/api/v1/votes", carol, map[string]any{"target_id": target, "verdict": "yes"})
		require.Equal(t, http.StatusOK, status, string(data))
	}
	status, _ := c.do("POST", "/api/v1/votes", carol, map[string]any{"target_id": targets[5], "verdict": "yes"})
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, _ = c.do("POST", "/api/v1/votes", carol, map[string]any{"target_id": carol, "verdict": "yes"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do("POST", "/api/v1/votes", "carol@x.com", map[string]any{"target_id": targets[5], "verdict": "yes"})
	assert.Equal(t, http.StatusNotFound, status)

	status, data := c.do("GET", "/api/v1/votes/budget", carol, nil)
	require.Equal(t, http.StatusOK, status)
	var budget struct {
		VotesLeft int `json:"votes_left"`
	}
	c.decode(data, &budget)
	assert.Zero(t, budget.VotesLeft)

	status, data = c.do("GET", "/api/v1/leaderboard/portfolios?n=3", "", nil)
	require.Equal(t, http.StatusOK, status)
	var top struct {
		Rows []struct {
			Subject string `json:"subject"`
		} `json:"rows"`
	}
	c.decode(data, &top)
	require.Len(t, top.Rows, 3)
	assert.Equal(t, targets[0], top.Rows[0].Subject)
}

func TestPortfolioAndChatOverHTTP(t *testing.T) {
	c := newClient(t, nil)
	dan := c.account("Dan", "dan@x.com")

	status, data := c.do("GET", "/api/v1/accounts/"+dan+"/projects", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"rows": []}`, string(data))

	status, data = c.do("POST", "/api/v1/accounts/"+dan+"/projects", "", map[string]any{"title": "Drone", "field": "Robotics", "description": "flies"})
	require.Equal(t, http.StatusOK, status, string(data))
	var project struct {
		ID string `json:"id"`
	}
	c.decode(data, &project)

	status, _ = c.do("POST", "/api/v1/projects/"+project.ID+"/verify", "", map[string]any{"mentor": "m@x.com"})
	require.Equal(t, http.StatusOK, status)

	status, data = c.do("GET", "/api/v1/accounts?badge_activity=Verification", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), dan)

	status, data = c.do("GET", "/api/v1/accounts/"+dan+"/notifications", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "First Portfolio Submitted")

	status, data = c.do("GET", "/api/v1/accounts/"+dan+"/portfolio.txt", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(string(data), "Dan's Portfolio"))

	status, _ = c.do("POST", "/api/v1/chat/rooms/Data%20Science", "dan", map[string]any{"message": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = c.do("POST", "/api/v1/chat/rooms/Data%20Science", "dan", map[string]any{"message": "hello"})
	require.Equal(t, http.StatusCreated, status)

	status, data = c.do("GET", "/api/v1/chat/rooms", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "data-science")

	status, _ = c.do("GET", "/api/v1/accounts/ghost/notifications", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRequiredHeaders(t *testing.T) {
	c := newClient(t, func(cfg *app.Config) {
		cfg.API.RequiredHeaders = []app.HeaderConfig{{Name: "X-Client", Value: "fusionx"}}
	})

	status, _ := c.do("GET", "/api/v1/competitions", "", nil)
	assert.Equal(t, http.StatusForbidden, status)

	req, err := http.NewRequest("GET", c.server.URL+"/api/v1/competitions", nil)
	require.NoError(t, err)
	req.Header.Set("X-Client", "fusionx")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBadBody(t *testing.T) {
	c := newClient(t, nil)

	req, err := http.NewRequest("POST", c.server.URL+"/api/v1/accounts", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
