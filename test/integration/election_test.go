package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/events"
	handler "github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/handler/http"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/oauth/google"
	repo "github.com/DemocracyEarth/vote-forge-planet-sub000/internal/adapters/repository/postgres"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
	stopLive    context.CancelFunc
}

func setupTestApp(t *testing.T) *TestApp {
	os.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)
	electionRepo := repo.NewElectionRepository(db)
	delegationRepo := repo.NewDelegationRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	commentRepo := repo.NewCommentRepository(db)
	notificationRepo := repo.NewNotificationRepository(db)
	resultRepo := repo.NewResultRepository(db)

	bus := events.NewBus()

	authSvc := services.NewAuthService(userRepo, authRepo, google.NewVerifier())
	userSvc := services.NewUserService(userRepo)
	electionSvc := services.NewElectionService(electionRepo)
	eligibilitySvc := services.NewEligibilityService(electionRepo, userRepo)
	notificationSvc := services.NewNotificationService(notificationRepo, userRepo, nil)
	delegationSvc := services.NewDelegationService(delegationRepo, eligibilitySvc, notificationSvc)
	voteSvc := services.NewVoteService(electionRepo, voteRepo, eligibilitySvc, delegationSvc, bus, notificationSvc)
	tallySvc := services.NewTallyService(electionRepo, voteRepo, resultRepo)
	discussionSvc := services.NewDiscussionService(electionRepo, commentRepo)
	liveResults := services.NewLiveResults(electionRepo, tallySvc, bus)

	liveCtx, stopLive := context.WithCancel(ctx)
	go liveResults.Run(liveCtx)

	router := handler.NewHandler(handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, "/", "", http.SameSiteLaxMode),
		User:         handler.NewUserHandler(userSvc),
		Election:     handler.NewElectionHandler(electionSvc),
		Vote:         handler.NewVoteHandler(voteSvc, eligibilitySvc),
		Delegation:   handler.NewDelegationHandler(delegationSvc),
		Results:      handler.NewResultsHandler(tallySvc, liveResults),
		Discussion:   handler.NewDiscussionHandler(discussionSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
	})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
		stopLive:    stopLive,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.stopLive()
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) createElection(t *testing.T, token string, payload map[string]interface{}) domain.Election {
	t.Helper()

	resp := app.doJSON(t, http.MethodPost, "/api/elections", token, payload)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var election domain.Election
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&election))
	return election
}

func openElectionPayload(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":          title,
		"description":    "integration fixture",
		"identity_config": map[string]interface{}{"restriction_type": "open"},
		"voting_config": map[string]interface{}{
			"model":            "liquid",
			"ballot_type":      "single",
			"winning_criteria": "plurality",
		},
		"ballot_options": []string{"Yes", "No"},
		"is_ongoing":     true,
		"is_public":      true,
	}
}

// TestElectionFlow tests the basic lifecycle: Create -> Get -> List
func TestElectionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := createUserAndToken(t, app.DB)

	// Step 1: Create an election
	election := app.createElection(t, token, openElectionPayload("Integration Election"))
	assert.Equal(t, "Integration Election", election.Title)
	assert.True(t, election.IsOngoing)
	require.NotEqual(t, uuid.Nil, election.ID)

	// Step 2: Get it back, no auth needed
	resp := app.doJSON(t, http.MethodGet, "/api/elections/"+election.ID.String(), "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched domain.Election
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, election.ID, fetched.ID)
	assert.Equal(t, []string{"Yes", "No"}, fetched.BallotOptions)

	// Step 3: It shows up in the public listing
	resp = app.doJSON(t, http.MethodGet, "/api/elections", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []domain.Election
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)

	// Step 4: And in the creator's own listing
	resp = app.doJSON(t, http.MethodGet, "/api/elections/mine", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateElectionRequiresAuth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := app.doJSON(t, http.MethodPost, "/api/elections", "", openElectionPayload("No Auth"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateElectionValidationErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := createUserAndToken(t, app.DB)

	payload := openElectionPayload("x")
	payload["ballot_options"] = []string{"only one"}

	resp := app.doJSON(t, http.MethodPost, "/api/elections", token, payload)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	fields, ok := body["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "ballot_options")
}

func TestGetUnknownElection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/elections/%s", uuid.New()), "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
