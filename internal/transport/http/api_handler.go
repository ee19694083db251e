package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"nursing-album-service/internal/app"
	"nursing-album-service/internal/domain"
)

// APIHandler serves the JSON REST surface.
type APIHandler struct {
	accounts *app.AccountService
	game     *app.GameService
	admin    *app.AdminService
	log      logrus.FieldLogger
}

func NewAPIHandler(accounts *app.AccountService, game *app.GameService, admin *app.AdminService, log logrus.FieldLogger) *APIHandler {
	return &APIHandler{accounts: accounts, game: game, admin: admin, log: log}
}

// Register mounts the REST routes on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", h.register)
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/me", h.authed(h.me))

	mux.HandleFunc("GET /api/topics", h.authed(h.topics))
	mux.HandleFunc("GET /api/album", h.authed(h.album))
	mux.HandleFunc("GET /api/packs", h.authed(h.packs))
	mux.HandleFunc("POST /api/packs/{id}/buy", h.authed(h.buyPack))
	mux.HandleFunc("POST /api/duplicates/{id}/sell", h.authed(h.sellDuplicate))
	mux.HandleFunc("GET /api/leaderboard", h.authed(h.leaderboard))

	mux.HandleFunc("POST /api/admin/stickers", h.authed(h.saveSticker))
	mux.HandleFunc("POST /api/admin/questions", h.authed(h.saveQuestion))
	mux.HandleFunc("POST /api/admin/questions/generate", h.authed(h.generateQuestion))
	mux.HandleFunc("DELETE /api/admin/questions/{id}", h.authed(h.deleteQuestion))
	mux.HandleFunc("POST /api/admin/topics", h.authed(h.saveTopic))
	mux.HandleFunc("DELETE /api/admin/topics/{id}", h.authed(h.deleteTopic))
	mux.HandleFunc("POST /api/admin/packs", h.authed(h.savePack))
	mux.HandleFunc("GET /api/admin/users", h.authed(h.users))
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, session app.Session)

// authed resolves the bearer token before calling next.
func (h *APIHandler) authed(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.accounts.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		next(w, r, session)
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string             `json:"token"`
	User  domain.UserProfile `json:"user"`
}

func (h *APIHandler) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := decode(r, &reg); err != nil {
		writeError(w, h.log, err)
		return
	}
	session, user, err := h.accounts.Register(r.Context(), reg)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: session.Token, User: user})
}

func (h *APIHandler) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	session, user, err := h.accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: session.Token, User: user})
}

func (h *APIHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) me(w http.ResponseWriter, r *http.Request, session app.Session) {
	user, err := h.accounts.Me(r.Context(), session)
	respond(w, h.log, user, err)
}

func (h *APIHandler) topics(w http.ResponseWriter, r *http.Request, session app.Session) {
	board, err := h.game.Topics(r.Context(), session.Email)
	respond(w, h.log, board, err)
}

func (h *APIHandler) album(w http.ResponseWriter, r *http.Request, session app.Session) {
	album, err := h.game.Album(r.Context(), session.Email)
	respond(w, h.log, album, err)
}

func (h *APIHandler) packs(w http.ResponseWriter, r *http.Request, _ app.Session) {
	packs, err := h.game.Packs(r.Context())
	respond(w, h.log, packs, err)
}

func (h *APIHandler) buyPack(w http.ResponseWriter, r *http.Request, session app.Session) {
	opening, err := h.game.BuyPack(r.Context(), session.Email, r.PathValue("id"))
	respond(w, h.log, opening, err)
}

func (h *APIHandler) sellDuplicate(w http.ResponseWriter, r *http.Request, session app.Session) {
	sale, err := h.game.SellDuplicate(r.Context(), session.Email, r.PathValue("id"))
	respond(w, h.log, sale, err)
}

func (h *APIHandler) leaderboard(w http.ResponseWriter, r *http.Request, _ app.Session) {
	lb, err := h.game.Leaderboard(r.Context())
	respond(w, h.log, lb, err)
}

func (h *APIHandler) saveSticker(w http.ResponseWriter, r *http.Request, session app.Session) {
	var draft app.StickerDraft
	if err := decode(r, &draft); err != nil {
		writeError(w, h.log, err)
		return
	}
	sticker, err := h.admin.SaveSticker(r.Context(), session.Email, draft)
	respond(w, h.log, sticker, err)
}

func (h *APIHandler) saveQuestion(w http.ResponseWriter, r *http.Request, session app.Session) {
	var q domain.QuizQuestion
	if err := decode(r, &q); err != nil {
		writeError(w, h.log, err)
		return
	}
	saved, err := h.admin.SaveQuestion(r.Context(), session.Email, q)
	respond(w, h.log, saved, err)
}

type generateRequest struct {
	Topic      string            `json:"topic"`
	Difficulty domain.Difficulty `json:"difficulty"`
}

func (h *APIHandler) generateQuestion(w http.ResponseWriter, r *http.Request, session app.Session) {
	var in generateRequest
	if err := decode(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	draft, err := h.admin.GenerateQuestion(r.Context(), session.Email, in.Topic, in.Difficulty)
	respond(w, h.log, draft, err)
}

func (h *APIHandler) deleteQuestion(w http.ResponseWriter, r *http.Request, session app.Session) {
	deleted(w, h.log, h.admin.DeleteQuestion(r.Context(), session.Email, r.PathValue("id")))
}

func (h *APIHandler) saveTopic(w http.ResponseWriter, r *http.Request, session app.Session) {
	var t domain.QuizTopic
	if err := decode(r, &t); err != nil {
		writeError(w, h.log, err)
		return
	}
	saved, err := h.admin.SaveTopic(r.Context(), session.Email, t)
	respond(w, h.log, saved, err)
}

func (h *APIHandler) deleteTopic(w http.ResponseWriter, r *http.Request, session app.Session) {
	deleted(w, h.log, h.admin.DeleteTopic(r.Context(), session.Email, r.PathValue("id")))
}

func (h *APIHandler) savePack(w http.ResponseWriter, r *http.Request, session app.Session) {
	var p domain.StorePack
	if err := decode(r, &p); err != nil {
		writeError(w, h.log, err)
		return
	}
	saved, err := h.admin.SavePack(r.Context(), session.Email, p)
	respond(w, h.log, saved, err)
}

func (h *APIHandler) users(w http.ResponseWriter, r *http.Request, session app.Session) {
	users, err := h.admin.Users(r.Context(), session.Email)
	respond(w, h.log, users, err)
}

func respond(w http.ResponseWriter, log logrus.FieldLogger, v any, err error) {
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func deleted(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	if err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed json body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter used by websocket clients.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}
