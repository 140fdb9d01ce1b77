package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/PabloGalante/innerguide/internal/adapters/notify"
	"github.com/PabloGalante/innerguide/internal/app/breathing"
	"github.com/PabloGalante/innerguide/internal/app/companion"
	"github.com/PabloGalante/innerguide/internal/app/conversation"
	"github.com/PabloGalante/innerguide/internal/app/helplines"
	journalapp "github.com/PabloGalante/innerguide/internal/app/journal"
	"github.com/PabloGalante/innerguide/internal/app/recommend"
	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

// Deps are the services the HTTP API exposes.
type Deps struct {
	Companions    *companion.Registry
	Journal       *journalapp.Service
	Helplines     *helplines.Directory
	Notifications *notify.Feed
	Categories    []domain.ActivityCategory

	Identity  domain.IdentityProvider
	DevUserID domain.UserID

	// MessageRate limits POST /messages per user. Zero disables the limit.
	MessageRate  rate.Limit
	MessageBurst int

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	Now func() time.Time
}

type Server struct {
	deps Deps
}

func NewServer(deps Deps) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.DevUserID == "" {
		deps.DevUserID = domain.DevUserID
	}
	s := &Server{deps: deps}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// mood & activities
	mux.HandleFunc("GET /activities", s.handleListActivities)
	mux.HandleFunc("POST /mood", s.handleSetMood)
	mux.HandleFunc("DELETE /mood", s.handleClearMood)
	mux.HandleFunc("POST /activities/{id}/start", s.handleStartActivity)
	mux.HandleFunc("POST /activities/{id}/complete", s.handleCompleteActivity)
	mux.HandleFunc("GET /journal", s.handleGetJournal)

	// conversation
	mux.Handle("POST /messages", withRateLimit(deps.MessageRate, deps.MessageBurst)(http.HandlerFunc(s.handleSendMessage)))
	mux.HandleFunc("GET /messages", s.handleGetMessages)
	mux.HandleFunc("DELETE /messages", s.handleClearMessages)
	mux.HandleFunc("GET /personalities", s.handleListPersonalities)
	mux.HandleFunc("PUT /personality", s.handleChangePersonality)
	mux.HandleFunc("GET /notifications", s.handleListNotifications)
	mux.HandleFunc("DELETE /notifications/{id}", s.handleDismissNotification)

	// static support content
	mux.HandleFunc("GET /helplines", s.handleListHelplines)
	mux.HandleFunc("GET /breathing/{mode}", s.handleBreathing)

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}

	return chainMiddlewares(mux,
		withIdentity(deps.Identity, deps.DevUserID),
		withCORS,
		withLogging,
	)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type moodRequest struct {
	Valence *float64 `json:"valence"`
	Arousal *float64 `json:"arousal"`
	Notes   string   `json:"notes,omitempty"`
}

type moodResponse struct {
	Valence   float64   `json:"valence"`
	Arousal   float64   `json:"arousal"`
	Label     string    `json:"label"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type rankedActivityResponse struct {
	domain.Activity
	Priority int `json:"priority"`
}

type activitiesResponse struct {
	Mood       *moodResponse             `json:"mood"`
	Strategy   string                    `json:"strategy"`
	Featured   *rankedActivityResponse   `json:"featured,omitempty"`
	Activities []rankedActivityResponse  `json:"activities"`
	Categories []domain.ActivityCategory `json:"categories,omitempty"`
}

type startActivityResponse struct {
	Activity     domain.Activity `json:"activity"`
	NeedsCheckIn bool            `json:"needs_check_in"`
	LaunchVR     bool            `json:"launch_vr"`
}

type journalResponse struct {
	Entries []*domain.JournalEntry `json:"entries"`
	Shifts  []journalapp.MoodShift `json:"shifts"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
	Source           string          `json:"source"`
	CrisisDetected   bool            `json:"crisis_detected"`
}

type conversationResponse struct {
	UserID         string            `json:"user_id"`
	Personality    string            `json:"personality"`
	Loading        bool              `json:"loading"`
	CrisisDetected bool              `json:"crisis_detected"`
	Messages       []messageResponse `json:"messages"`
}

type personalityResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

type personalitiesResponse struct {
	Active        string                `json:"active"`
	Personalities []personalityResponse `json:"personalities"`
}

type changePersonalityRequest struct {
	ID string `json:"id"`
}

type helplinesResponse struct {
	Emergency domain.EmergencyNumbers `json:"emergency"`
	Helplines []domain.Helpline       `json:"helplines"`
}

type breathingResponse struct {
	Mode         string            `json:"mode"`
	CycleSeconds float64           `json:"cycle_seconds"`
	Phases       []breathing.Phase `json:"phases"`
}

// ─────────────────────────────────────────────
// Mood & activity handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) companion(r *http.Request) *companion.Companion {
	return s.deps.Companions.Get(r.Context(), userFromContext(r.Context()))
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.toActivitiesResponse(s.companion(r).Tracker.Snapshot()))
}

func (s *Server) handleSetMood(w http.ResponseWriter, r *http.Request) {
	mood, ok := decodeMood(w, r)
	if !ok {
		return
	}

	tracker := s.companion(r).Tracker
	if err := tracker.SetMood(&mood); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.toActivitiesResponse(tracker.Snapshot()))
}

func (s *Server) handleClearMood(w http.ResponseWriter, r *http.Request) {
	tracker := s.companion(r).Tracker
	_ = tracker.SetMood(nil)
	writeJSON(w, http.StatusOK, s.toActivitiesResponse(tracker.Snapshot()))
}

func (s *Server) handleStartActivity(w http.ResponseWriter, r *http.Request) {
	out, err := s.companion(r).Tracker.StartActivity(r.Context(), domain.ActivityID(r.PathValue("id")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, startActivityResponse{
		Activity:     out.Activity,
		NeedsCheckIn: out.NeedsCheckIn,
		LaunchVR:     out.LaunchVR,
	})
}

func (s *Server) handleCompleteActivity(w http.ResponseWriter, r *http.Request) {
	mood, ok := decodeMood(w, r)
	if !ok {
		return
	}

	c := s.companion(r)
	entry, err := c.Tracker.CompleteActivity(r.Context(), domain.ActivityID(r.PathValue("id")), mood)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if s.deps.Notifications != nil {
		err := s.deps.Notifications.Notify(r.Context(), c.UserID, domain.Notification{
			Type:    domain.NotificationSuccess,
			Title:   "Activity Completed",
			Message: "Great job completing " + entry.ActivityTitle + "!",
		})
		if err != nil {
			observability.LoggerFromContext(r.Context()).Error("completion notification failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.deps.Journal.GetUserJournal(r.Context(), userFromContext(r.Context()), limit)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journalResponse{
		Entries: entries,
		Shifts:  journalapp.Shifts(entries),
	})
}

// ─────────────────────────────────────────────
// Conversation handlers
// ─────────────────────────────────────────────

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toConversationResponse(s.companion(r).Conversation.Snapshot()))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	conv := s.companion(r).Conversation
	out, err := conv.SendMessage(r.Context(), req.Text)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage:      toMessageResponse(out.User),
		AssistantMessage: toMessageResponse(out.Assistant),
		Source:           out.Source,
		CrisisDetected:   conv.CrisisDetected(),
	})
}

func (s *Server) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	s.companion(r).Conversation.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPersonalities(w http.ResponseWriter, r *http.Request) {
	conv := s.companion(r).Conversation
	writeJSON(w, http.StatusOK, toPersonalitiesResponse(conv.Snapshot().Personality, conv.Personalities()))
}

func (s *Server) handleChangePersonality(w http.ResponseWriter, r *http.Request) {
	var req changePersonalityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	conv := s.companion(r).Conversation
	active := conv.ChangePersonality(req.ID)
	writeJSON(w, http.StatusOK, toPersonalitiesResponse(active, conv.Personalities()))
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	list := []domain.Notification{}
	if s.deps.Notifications != nil {
		if got := s.deps.Notifications.List(userFromContext(r.Context())); got != nil {
			list = got
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if s.deps.Notifications == nil || !s.deps.Notifications.Dismiss(userFromContext(r.Context()), r.PathValue("id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "notification not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Support content handlers
// ─────────────────────────────────────────────

func (s *Server) handleListHelplines(w http.ResponseWriter, r *http.Request) {
	dir := s.deps.Helplines
	q := r.URL.Query()

	var lines []domain.Helpline
	if avail, _ := strconv.ParseBool(q.Get("available")); avail {
		lines = dir.Available(s.deps.Now())
	} else {
		lines = dir.All()
	}

	if t := strings.TrimSpace(q.Get("type")); t != "" {
		filtered := lines[:0:0]
		for _, h := range lines {
			if h.Type == domain.HelplineType(t) {
				filtered = append(filtered, h)
			}
		}
		lines = filtered
	}
	if lines == nil {
		lines = []domain.Helpline{}
	}

	writeJSON(w, http.StatusOK, helplinesResponse{
		Emergency: dir.Emergency(),
		Helplines: lines,
	})
}

func (s *Server) handleBreathing(w http.ResponseWriter, r *http.Request) {
	mode := breathing.ParseMode(r.PathValue("mode"))
	writeJSON(w, http.StatusOK, breathingResponse{
		Mode:         string(mode),
		CycleSeconds: breathing.CycleDuration(mode).Seconds(),
		Phases:       breathing.Pattern(mode),
	})
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func decodeMood(w http.ResponseWriter, r *http.Request) (domain.MoodSample, bool) {
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return domain.MoodSample{}, false
	}
	if req.Valence == nil || req.Arousal == nil {
		badRequest(w, "valence and arousal are required")
		return domain.MoodSample{}, false
	}
	return domain.MoodSample{Valence: *req.Valence, Arousal: *req.Arousal, Notes: req.Notes}, true
}

func toMoodResponse(m *domain.MoodSample) *moodResponse {
	if m == nil {
		return nil
	}
	return &moodResponse{
		Valence:   m.Valence,
		Arousal:   m.Arousal,
		Label:     m.Label(),
		Notes:     m.Notes,
		Timestamp: m.Timestamp,
	}
}

func toRanked(a domain.RankedActivity) rankedActivityResponse {
	return rankedActivityResponse{Activity: a.Activity, Priority: a.Priority}
}

func (s *Server) toActivitiesResponse(snap recommend.Snapshot) activitiesResponse {
	resp := activitiesResponse{
		Mood:       toMoodResponse(snap.Mood),
		Strategy:   snap.Strategy.String(),
		Activities: make([]rankedActivityResponse, 0, len(snap.Activities)),
		Categories: s.deps.Categories,
	}
	for _, a := range snap.Activities {
		resp.Activities = append(resp.Activities, toRanked(a))
	}
	if snap.Featured != nil {
		f := toRanked(*snap.Featured)
		resp.Featured = &f
	}
	return resp
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func toConversationResponse(snap conversation.Snapshot) conversationResponse {
	msgs := make([]messageResponse, 0, len(snap.Messages))
	for _, m := range snap.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}
	return conversationResponse{
		UserID:         string(snap.UserID),
		Personality:    snap.Personality.ID,
		Loading:        snap.Loading,
		CrisisDetected: snap.CrisisDetected,
		Messages:       msgs,
	}
}

func toPersonalitiesResponse(active domain.Personality, all []domain.Personality) personalitiesResponse {
	out := personalitiesResponse{Active: active.ID}
	for _, p := range all {
		out.Personalities = append(out.Personalities, personalityResponse{
			ID:          p.ID,
			Name:        p.Name,
			Model:       p.ModelID,
			Temperature: p.Temperature,
		})
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidMood), errors.Is(err, domain.ErrEmptyMessage):
		badRequest(w, err.Error())
	default:
		internalError(w, r, err)
	}
}
