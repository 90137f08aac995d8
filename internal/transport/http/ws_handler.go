package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"carbrand-quiz/internal/app"
	"carbrand-quiz/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type questionPayload struct {
	SessionID          string `json:"sessionId"`
	QuestionID         int64  `json:"questionId"`
	Prompt             string `json:"prompt"`
	Score              int    `json:"score"`
	QuestionsAnswered  int    `json:"questionsAnswered"`
	QuestionsRemaining int    `json:"questionsRemaining"`
}

type cluePayload struct {
	Clue  domain.ClueRef `json:"clue"`
	URL   string         `json:"url"`
	Score int            `json:"score"`
}

type gameOverPayload struct {
	Player     string   `json:"player"`
	Score      int      `json:"score"`
	Message    string   `json:"message"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	BestStreak int      `json:"bestStreak"`
	Recorded   bool     `json:"recorded"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz session per connection.
// Closing the connection before the last answer abandons the session unrecorded.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		http.Error(w, "missing player", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session, err := h.service.StartSession(ctx, player)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	finished := false
	defer func() {
		if !finished {
			h.service.Abandon(ctx, session.ID())
		}
	}()

	send := func(msg any) bool {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error: %v", err)
			return false
		}
		return true
	}

	if !send(questionMessage(session)) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "clue":
			ref, err := h.service.RevealClue(ctx, session.ID())
			if err != nil {
				if !send(errorMessage(err)) {
					return
				}
				continue
			}
			if !send(outboundMessage[cluePayload]{Type: "clue", Payload: cluePayload{
				Clue:  ref,
				URL:   "/clues/" + url.PathEscape(string(ref)),
				Score: session.State().Score,
			}}) {
				return
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				if !send(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}) {
					return
				}
				continue
			}
			result, err := h.service.SubmitAnswer(ctx, session.ID(), payload.Text)
			if err != nil && !errors.Is(err, domain.ErrPersistence) {
				if !send(errorMessage(err)) {
					return
				}
				continue
			}
			if !send(outboundMessage[domain.AnswerResult]{Type: "answerResult", Payload: result}) {
				return
			}
			if a, ok := session.NewAchievement(); ok {
				if !send(outboundMessage[domain.Achievement]{Type: "achievement", Payload: a}) {
					return
				}
			}
			if result.Ended {
				finished = true
				send(gameOverMessage(session, err == nil))
				return
			}
			if !send(questionMessage(session)) {
				return
			}
		default:
			if !send(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}) {
				return
			}
		}
	}
}

func questionMessage(session *app.Session) outboundMessage[questionPayload] {
	state := session.State()
	payload := questionPayload{
		SessionID:          session.ID(),
		Score:              state.Score,
		QuestionsAnswered:  state.QuestionsAnswered,
		QuestionsRemaining: state.QuestionsRemaining,
	}
	if q := state.CurrentQuestion; q != nil {
		payload.QuestionID = q.ID
		payload.Prompt = q.Prompt
	}
	return outboundMessage[questionPayload]{Type: "question", Payload: payload}
}

func gameOverMessage(session *app.Session, recorded bool) outboundMessage[gameOverPayload] {
	state := session.State()
	payload := gameOverPayload{
		Player:     state.PlayerName,
		Score:      state.Score,
		Message:    domain.GameOverMessage(state.PlayerName, state.Score),
		BestStreak: state.BestStreak,
		Recorded:   recorded,
	}
	if acc, ok := session.Accuracy(); ok {
		payload.Accuracy = &acc
	}
	return outboundMessage[gameOverPayload]{Type: "gameOver", Payload: payload}
}

func errorMessage(err error) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
