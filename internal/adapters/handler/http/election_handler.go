package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type ElectionHandler struct {
	service ports.ElectionService
}

func NewElectionHandler(service ports.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		service: service,
	}
}

type createElectionRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Identity      domain.IdentityConfig `json:"identity_config"`
	Voting        domain.VotingConfig   `json:"voting_config"`
	BallotOptions []string              `json:"ballot_options"`
	StartDate     *string               `json:"start_date"`
	EndDate       *string               `json:"end_date"`
	IsOngoing     bool                  `json:"is_ongoing"`
	IsPublic      bool                  `json:"is_public"`
}

// CreateElection godoc
// @Summary      Creates an election
// @Description  Validates and persists a new election owned by the authenticated user
// @Tags         elections
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      401
// @Router       /elections [post]
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req createElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	input := ports.CreateElectionInput{
		CreatorID:     userID,
		Title:         req.Title,
		Description:   req.Description,
		Identity:      req.Identity,
		Voting:        req.Voting,
		BallotOptions: req.BallotOptions,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsOngoing:     req.IsOngoing,
		IsPublic:      req.IsPublic,
	}

	election, err := h.service.Create(r.Context(), input)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": "validation failed", "fields": verr.Fields})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(election); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// GetElection godoc
// @Summary      Fetches one election
// @Tags         elections
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /elections/{id} [get]
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing election id", http.StatusBadRequest)
		return
	}

	election, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidElectionID) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.Contains(err.Error(), "election not found") {
			http.Error(w, "election not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(election); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// ListElections godoc
// @Summary      Lists public elections
// @Tags         elections
// @Produce      json
// @Success      200
// @Router       /elections [get]
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	elections, err := h.service.ListPublic(r.Context(), ports.ListElectionsInput{Page: page})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if elections == nil {
		elections = []*domain.Election{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(elections); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// ListMine godoc
// @Summary      Lists the caller's elections
// @Tags         elections
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /elections/mine [get]
func (h *ElectionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	elections, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if elections == nil {
		elections = []*domain.Election{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(elections); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
