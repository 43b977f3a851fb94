package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"collabboard/config"
	"collabboard/routes"
	"collabboard/store"
)

// The suite runs against a real MongoDB and is skipped unless
// TEST_MONGO_URI is set, e.g. TEST_MONGO_URI=mongodb://localhost:27017.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	config.AppConfig = config.Config{
		Environment:     "development",
		MongoURI:        uri,
		MongoDBName:     "collabboard_test",
		JWTSecret:       "integration-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		RateLimitMax:    100000,
		RateLimitWindow: time.Minute,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database(config.AppConfig.MongoDBName)
	require.NoError(t, db.Drop(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	app := fiber.New()
	routes.SetupRoutes(app, store.New(db), logrus.New())
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()

	status, env := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestTeamOwnershipScenario(t *testing.T) {
	app := setupTestApp(t)

	u1 := registerUser(t, app, "Uma", "u1@example.com")
	u2 := registerUser(t, app, "Ubon", "u2@example.com")

	// U1 creates team A; the creator is auto-inserted as a member.
	status, env := doRequest(t, app, http.MethodPost, "/api/teams", u1, fiber.Map{
		"name": "Team A",
	})
	require.Equal(t, http.StatusCreated, status)

	var team struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Len(t, team.Members, 1)

	// U2 is not a member: reading the team is forbidden, not unknown.
	status, env = doRequest(t, app, http.MethodGet, "/api/teams/"+team.ID, u2, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized to access this team", env.Message)

	// U1 adds U2 by email.
	status, env = doRequest(t, app, http.MethodPost, "/api/teams/"+team.ID+"/members", u1, fiber.Map{
		"email": "u2@example.com",
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Len(t, team.Members, 2)

	// Adding the same member twice is rejected and leaves the list alone.
	status, env = doRequest(t, app, http.MethodPost, "/api/teams/"+team.ID+"/members", u1, fiber.Map{
		"email": "u2@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User is already a member of this team", env.Message)

	status, _ = doRequest(t, app, http.MethodGet, "/api/teams/"+team.ID, u2, nil)
	assert.Equal(t, http.StatusOK, status)

	// Membership does not grant mutation: U2 still cannot rename.
	status, env = doRequest(t, app, http.MethodPut, "/api/teams/"+team.ID, u2, fiber.Map{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not authorized to update this team", env.Message)

	// The owner can.
	status, env = doRequest(t, app, http.MethodPut, "/api/teams/"+team.ID, u1, fiber.Map{
		"name": "Team A Renamed",
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &team))
	assert.Equal(t, "Team A Renamed", team.Name)
}

func TestTaskDefaultsAndValidationScenario(t *testing.T) {
	app := setupTestApp(t)

	u1 := registerUser(t, app, "Uma", "u1@example.com")

	status, env := doRequest(t, app, http.MethodPost, "/api/teams", u1, fiber.Map{
		"name": "Team A",
	})
	require.Equal(t, http.StatusCreated, status)

	var team struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &team))

	// Missing teamId is a validation failure.
	status, env = doRequest(t, app, http.MethodPost, "/api/tasks", u1, fiber.Map{
		"title": "Orphan task",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Team ID is required", env.Message)

	// Defaults apply when status and priority are omitted.
	status, env = doRequest(t, app, http.MethodPost, "/api/tasks", u1, fiber.Map{
		"title":  "First task",
		"teamId": team.ID,
	})
	require.Equal(t, http.StatusCreated, status)

	var task struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, "medium", task.Priority)
}

func TestTaskFilteringAndStats(t *testing.T) {
	app := setupTestApp(t)

	u1 := registerUser(t, app, "Uma", "u1@example.com")

	status, env := doRequest(t, app, http.MethodPost, "/api/teams", u1, fiber.Map{
		"name": "Team A",
	})
	require.Equal(t, http.StatusCreated, status)

	var team struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &team))

	seed := []fiber.Map{
		{"title": "Draft report", "teamId": team.ID, "status": "todo"},
		{"title": "Ship FOO feature", "teamId": team.ID, "status": "todo", "priority": "high"},
		{"title": "Close books", "teamId": team.ID, "status": "done", "description": "contains foo inside"},
		{"title": "Audit", "teamId": team.ID, "status": "review"},
	}
	for _, body := range seed {
		status, _ = doRequest(t, app, http.MethodPost, "/api/tasks", u1, body)
		require.Equal(t, http.StatusCreated, status)
	}

	titles := func(env envelope) []string {
		var tasks []struct {
			Title string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &tasks))
		out := make([]string, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.Title)
		}
		return out
	}

	// Single filter narrows to the exact status subset.
	status, env = doRequest(t, app, http.MethodGet, "/api/tasks?status=done", u1, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, env.Count)
	assert.ElementsMatch(t, []string{"Close books"}, titles(env))

	// Combined filters narrow to the intersection.
	status, env = doRequest(t, app, http.MethodGet, "/api/tasks?status=todo&priority=high", u1, nil)
	require.Equal(t, http.StatusOK, status)
	assert.ElementsMatch(t, []string{"Ship FOO feature"}, titles(env))

	// Search is case-insensitive across title and description.
	status, env = doRequest(t, app, http.MethodGet, "/api/tasks?search=foo", u1, nil)
	require.Equal(t, http.StatusOK, status)
	assert.ElementsMatch(t, []string{"Ship FOO feature", "Close books"}, titles(env))

	// Stats count by status; absent statuses have no key.
	status, env = doRequest(t, app, http.MethodGet, "/api/tasks/stats?teamId="+team.ID, u1, nil)
	require.Equal(t, http.StatusOK, status)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, map[string]int{"todo": 2, "done": 1, "review": 1}, stats)
	_, present := stats["in_progress"]
	assert.False(t, present)
}

func TestUnauthenticatedAccessRejected(t *testing.T) {
	app := setupTestApp(t)

	status, env := doRequest(t, app, http.MethodGet, "/api/teams", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized to access this route", env.Message)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	app := setupTestApp(t)

	registerUser(t, app, "Uma", "dup@example.com")

	status, env := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Umbra",
		"email":    "dup@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", env.Message)
}
