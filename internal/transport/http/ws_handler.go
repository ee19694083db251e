package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/app"
	"nursing-album-service/internal/domain"
)

// WSHandler runs a quiz play session over a websocket. The connection owns
// the current round and the streak counter; the live leaderboard is pushed
// as it changes.
type WSHandler struct {
	accounts *app.AccountService
	game     *app.GameService
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(accounts *app.AccountService, game *app.GameService, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		accounts: accounts,
		game:     game,
		log:      log,
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

type nextPayload struct {
	Topic   string `json:"topic"`
	Endless bool   `json:"endless"`
}

type answerPayload struct {
	Choice int `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type joinedPayload struct {
	User   domain.UserProfile `json:"user"`
	Streak int                `json:"streak"`
}

// questionView is a round as shown to the player, without the answer.
type questionView struct {
	ID         string            `json:"id"`
	Question   string            `json:"question"`
	Options    []string          `json:"options"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Topic      string            `json:"topic"`
	Endless    bool              `json:"endless"`
	Streak     int               `json:"streak"`
}

// ServeWS authenticates via ?token= (or a bearer header), upgrades, and
// serves next/answer messages.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	session, err := h.accounts.Resolve(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	user, err := h.accounts.Me(r.Context(), session)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.game.Hub().Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	out := outbox{send: send, writerDone: writerDone}
	emit := out.emit
	fail := func(err error) bool {
		return emit("error", errorPayload{Message: publicMessage(err)})
	}

	var (
		current *app.Round
		streak  int
	)
	alive := emit("joined", joinedPayload{User: user})

	for alive {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "next":
			var payload nextPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					alive = fail(domain.ErrInvalidInput)
					continue
				}
			}
			round, err := h.game.NextQuestion(r.Context(), session.Email, payload.Topic, payload.Endless)
			if err != nil {
				alive = fail(err)
				continue
			}
			current = &round
			alive = emit("question", viewOf(round, streak))
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				alive = fail(domain.ErrInvalidInput)
				continue
			}
			if current == nil {
				alive = fail(domain.ErrQuestionNotFound)
				continue
			}
			outcome, err := h.game.Answer(r.Context(), session.Email, *current, payload.Choice, streak)
			if err != nil {
				alive = fail(err)
				continue
			}
			current = nil
			streak = outcome.Streak
			alive = emit("answerResult", outcome)
		default:
			alive = emit("error", errorPayload{Message: "unsupported message type"})
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// outbox queues messages for the single writer goroutine.
type outbox struct {
	send       chan<- outboundMessage[any]
	writerDone <-chan struct{}
}

// emit reports false once the writer has stopped, so a dead connection
// never blocks the read loop on a full buffer.
func (o outbox) emit(typ string, payload any) bool {
	select {
	case o.send <- outboundMessage[any]{Type: typ, Payload: payload}:
		return true
	case <-o.writerDone:
		return false
	}
}

func viewOf(round app.Round, streak int) questionView {
	q := round.Question
	return questionView{
		ID:         q.ID,
		Question:   q.Question,
		Options:    append([]string(nil), q.Options...),
		Difficulty: q.Difficulty,
		Topic:      q.Topic,
		Endless:    round.Endless,
		Streak:     streak,
	}
}
