package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"carbrand-quiz/internal/app"
	"carbrand-quiz/internal/domain"
)

// DefaultLeaderboardLimit is used when /scores is called without a limit.
const DefaultLeaderboardLimit = 10

// ClueResolver turns a clue reference into image bytes.
type ClueResolver interface {
	Resolve(ref domain.ClueRef) ([]byte, error)
}

type rankedEntry struct {
	Rank       int    `json:"rank"`
	Ordinal    string `json:"ordinal"`
	PlayerName string `json:"playerName"`
	BestScore  int    `json:"bestScore"`
}

// NewRouter wires the websocket presenter and the read-only HTTP endpoints.
func NewRouter(service *app.GameService, clues ClueResolver) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", NewWSHandler(service).ServeWS)
	mux.HandleFunc("GET /scores", scoresHandler(service))
	mux.HandleFunc("GET /clues/{ref}", cluesHandler(clues))
	return mux
}

func scoresHandler(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := DefaultLeaderboardLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "limit must be an integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		entries, err := service.Leaderboard(r.Context(), limit)
		if errors.Is(err, domain.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Printf("leaderboard failed: %v", err)
			http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
			return
		}

		ranked := make([]rankedEntry, 0, len(entries))
		for i, e := range entries {
			ranked = append(ranked, rankedEntry{
				Rank:       i + 1,
				Ordinal:    domain.Ordinal(i + 1),
				PlayerName: e.PlayerName,
				BestScore:  e.BestScore,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ranked)
	}
}

func cluesHandler(clues ClueResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := clues.Resolve(domain.ClueRef(r.PathValue("ref")))
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, domain.ErrClueNotFound):
			http.NotFound(w, r)
			return
		case err != nil:
			log.Printf("resolve clue failed: %v", err)
			http.Error(w, "clue unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(data))
		_, _ = w.Write(data)
	}
}
