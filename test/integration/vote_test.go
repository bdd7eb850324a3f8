package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
)

// TestVoteFlow tests the ledger lifecycle: can-vote probe -> cast ->
// my-vote -> re-cast updates in place -> results reflect the change.
func TestVoteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorToken := createUserAndToken(t, app.DB)
	election := app.createElection(t, creatorToken, openElectionPayload("Vote Flow"))

	// 1. Anonymous eligibility probe answers 200 with canVote false
	resp := app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/elections/%s/can-vote", election.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var eligibility domain.Eligibility
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eligibility))
	resp.Body.Close()
	assert.False(t, eligibility.Eligible)

	// 2. Authenticated probe on an open election is eligible
	_, voterToken := createUserAndToken(t, app.DB)
	resp = app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/elections/%s/can-vote", election.ID), voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eligibility))
	resp.Body.Close()
	assert.True(t, eligibility.Eligible)

	// 3. My vote before voting -> 404
	resp = app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/elections/%s/my-vote", election.ID), voterToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// 4. Cast a vote
	resp = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/elections/%s/votes", election.ID), voterToken,
		map[string]interface{}{"options": []string{"Yes"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var vote domain.Vote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vote))
	resp.Body.Close()
	assert.Equal(t, "Yes", vote.Value)
	assert.Equal(t, 1, vote.Weight)

	// 5. Re-cast switches the value without adding ledger rows
	resp = app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/elections/%s/votes", election.ID), voterToken,
		map[string]interface{}{"options": []string{"No"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var ledgerRows int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM anonymous_votes WHERE election_id=$1", election.ID).Scan(&ledgerRows)
	require.NoError(t, err)
	assert.Equal(t, 1, ledgerRows)

	var registryRows int
	err = app.DB.QueryRow("SELECT COUNT(*) FROM voter_registry WHERE election_id=$1", election.ID).Scan(&registryRows)
	require.NoError(t, err)
	assert.Equal(t, 1, registryRows)

	// 6. My vote reflects the switch
	resp = app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/elections/%s/my-vote", election.ID), voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vote))
	resp.Body.Close()
	assert.Equal(t, "No", vote.Value)

	// 7. Results aggregate the ledger
	resp = app.doJSON(t, http.MethodGet, fmt.Sprintf("/api/elections/%s/results", election.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results domain.TallyResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	resp.Body.Close()
	assert.Equal(t, int64(1), results.Totals["No"])
	assert.Equal(t, int64(0), results.Totals["Yes"])
}

func TestVoteOnClosedElection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := createUserAndToken(t, app.DB)

	payload := openElectionPayload("Closed Already")
	payload["is_ongoing"] = false
	payload["end_date"] = time.Now().Add(-time.Hour).Format(time.RFC3339)
	election := app.createElection(t, token, payload)

	resp := app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/elections/%s/votes", election.ID), token,
		map[string]interface{}{"options": []string{"Yes"}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestVoteIneligibleUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := createUserAndToken(t, app.DB)

	payload := openElectionPayload("Members Only")
	payload["identity_config"] = map[string]interface{}{
		"restriction_type": "email-list",
		"allow_list":       []string{"member@club.org"},
	}
	election := app.createElection(t, token, payload)

	resp := app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/elections/%s/votes", election.ID), token,
		map[string]interface{}{"options": []string{"Yes"}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestVoteAnonymousRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, token := createUserAndToken(t, app.DB)
	election := app.createElection(t, token, openElectionPayload("Auth Required"))

	resp := app.doJSON(t, http.MethodPost, fmt.Sprintf("/api/elections/%s/votes", election.ID), "",
		map[string]interface{}{"options": []string{"Yes"}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
