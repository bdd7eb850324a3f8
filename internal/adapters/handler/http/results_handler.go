package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type ResultsHandler struct {
	tally  ports.TallyService
	stream ports.ResultStream
}

func NewResultsHandler(tally ports.TallyService, stream ports.ResultStream) *ResultsHandler {
	return &ResultsHandler{
		tally:  tally,
		stream: stream,
	}
}

// GetResults godoc
// @Summary      Returns the current tally for an election
// @Tags         results
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /elections/{id}/results [get]
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	result, err := h.tally.ComputeResults(r.Context(), electionID)
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// StreamResults godoc
// @Summary      Streams live tallies for an ongoing election
// @Description  Server-sent events; each vote pushes a freshly computed tally. Only ongoing elections can be streamed.
// @Tags         results
// @Produce      text/event-stream
// @Success      200
// @Failure      404
// @Failure      409
// @Router       /elections/{id}/results/stream [get]
func (h *ResultsHandler) StreamResults(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	results, cancel, err := h.stream.SubscribeResults(r.Context(), electionID)
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrElectionClosed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case result, open := <-results:
			if !open {
				return
			}
			payload, err := json.Marshal(result)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: results\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
