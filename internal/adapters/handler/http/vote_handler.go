package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type VoteHandler struct {
	service     ports.VoteService
	eligibility ports.EligibilityService
}

func NewVoteHandler(service ports.VoteService, eligibility ports.EligibilityService) *VoteHandler {
	return &VoteHandler{
		service:     service,
		eligibility: eligibility,
	}
}

type voteRequest struct {
	// Selected ballot options, joined in order for ranked ballots.
	Options []string `json:"options"`
	// Free-text answer when the ballot has no fixed options.
	Value string `json:"value"`
}

// CastVote godoc
// @Summary      Casts or updates a vote
// @Description  Records one vote per user; while the election is ongoing a repeat cast updates the existing vote in place
// @Tags         votes
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      401
// @Failure      403
// @Failure      409
// @Router       /elections/{id}/votes [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	value := req.Value
	if len(req.Options) > 0 {
		value = strings.Join(req.Options, ",")
	}
	if value == "" {
		http.Error(w, "empty vote", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	vote, err := h.service.CastOrUpdate(r.Context(), ports.CastVoteInput{
		ElectionID: electionID,
		UserID:     userID,
		Value:      value,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotEligible) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrElectionClosed) || errors.Is(err, domain.ErrAlreadyVoted) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if errors.Is(err, domain.ErrElectionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(vote); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// MyVote godoc
// @Summary      Returns the caller's vote in an election
// @Tags         votes
// @Produce      json
// @Success      200
// @Failure      401
// @Failure      404
// @Router       /elections/{id}/my-vote [get]
func (h *VoteHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	vote, err := h.service.MyVote(r.Context(), electionID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrVoteNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(vote); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// CanVote godoc
// @Summary      Checks whether the caller may vote in an election
// @Description  Always answers 200; an unauthenticated caller gets canVote:false rather than an error status
// @Tags         votes
// @Produce      json
// @Success      200
// @Router       /elections/{id}/can-vote [get]
func (h *VoteHandler) CanVote(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	eligibility, err := h.eligibility.CanVote(r.Context(), electionID, callerID(r))
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(eligibility); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
