// Package testhelpers provides an in-memory stand-in for the meditation API
// so package tests can exercise the clients against real HTTP.
package testhelpers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"StillFM/model"

	"github.com/gorilla/mux"
)

// AdminKey is the shared secret the fake server accepts in admin-key mode.
const AdminKey = "test-admin-key"

type userRecord struct {
	user     model.User
	password string
	token    string
}

// Server emulates the meditation API. Admin routes accept either the
// AdminKey header or any registered bearer token, mirroring the two
// deployment modes. Call counters record endpoint hits.
type Server struct {
	httpServer *httptest.Server

	mu            sync.Mutex
	nextTrackID   int64
	nextSessionID int64
	nextUserID    int64
	tracks        map[int64]*model.Track
	order         []int64
	sessions      map[int64]*model.Session
	users         map[string]*userRecord

	// Force failure responses per endpoint.
	FailCreate   bool
	FailUpdate   bool
	FailUpload   bool
	FailStart    bool
	FailComplete bool

	ListCalls     int
	CreateCalls   int
	UpdateCalls   int
	DeleteCalls   int
	UploadCalls   int
	StartCalls    int
	CompleteCalls int

	// LastUploadFilename records the filename of the most recent upload.
	LastUploadFilename string
}

// NewServer starts the fake API.
func NewServer() *Server {
	s := &Server{
		tracks:   make(map[int64]*model.Track),
		sessions: make(map[int64]*model.Session),
		users:    make(map[string]*userRecord),
	}

	router := mux.NewRouter()
	router.HandleFunc("/meditations", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/meditations/{id}", s.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/admin/meditations/", s.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/admin/meditations/{id}", s.handleUpdate).Methods(http.MethodPatch)
	router.HandleFunc("/admin/meditations/{id}", s.handleDelete).Methods(http.MethodDelete)
	router.HandleFunc("/admin/meditations/{id}/upload-audio", s.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/sessions/start", s.handleStart).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}/complete", s.handleComplete).Methods(http.MethodPost)
	router.HandleFunc("/sessions/stats/{deviceID}", s.handleStats).Methods(http.MethodGet)
	router.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	s.httpServer = httptest.NewServer(router)
	return s
}

// URL is the base URL clients should target.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the fake API down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// AddTrack seeds a track and returns a copy of it.
func (s *Server) AddTrack(title, category string, durationSec int, level string, audioURL *string) model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTrackID++
	track := &model.Track{
		ID:          s.nextTrackID,
		Title:       title,
		Category:    category,
		DurationSec: durationSec,
		Level:       level,
		AudioURL:    audioURL,
		IsPublished: true,
	}
	s.tracks[track.ID] = track
	s.order = append(s.order, track.ID)
	return *track
}

// AddUser seeds an account and returns its bearer token.
func (s *Server) AddUser(email, password string, isAdmin bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	token := "tok-" + email
	s.users[email] = &userRecord{
		user:     model.User{ID: s.nextUserID, Email: email, IsAdmin: isAdmin},
		password: password,
		token:    token,
	}
	return token
}

// Track returns a copy of the stored track, if present.
func (s *Server) Track(id int64) (model.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, ok := s.tracks[id]
	if !ok {
		return model.Track{}, false
	}
	return *track, true
}

// Uploads returns the upload call count; safe to poll while requests are
// still arriving.
func (s *Server) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UploadCalls
}

// Session returns a copy of the stored session, if present.
func (s *Server) Session(id int64) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.Session{}, false
	}
	return *session, true
}

func (s *Server) authorized(r *http.Request) bool {
	if r.Header.Get("X-Admin-Key") == AdminKey {
		return true
	}
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if bearer == "" || bearer == r.Header.Get("Authorization") {
		return false
	}
	for _, record := range s.users {
		if record.token == bearer {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	tracks := make([]model.Track, 0, len(s.order))
	for _, id := range s.order {
		if track, ok := s.tracks[id]; ok && track.IsPublished {
			tracks = append(tracks, *track)
		}
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	track, found := s.tracks[id]
	if !ok || !found {
		writeDetail(w, http.StatusNotFound, "Meditation not found")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeDetail(w, http.StatusUnauthorized, "Invalid admin API key")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++

	if s.FailCreate {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	var payload struct {
		Title       string  `json:"title"`
		Category    string  `json:"category"`
		DurationSec int     `json:"duration_sec"`
		Level       string  `json:"level"`
		AudioURL    *string `json:"audio_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.nextTrackID++
	track := &model.Track{
		ID:          s.nextTrackID,
		Title:       payload.Title,
		Category:    payload.Category,
		DurationSec: payload.DurationSec,
		Level:       payload.Level,
		AudioURL:    payload.AudioURL,
		IsPublished: true,
	}
	s.tracks[track.ID] = track
	s.order = append(s.order, track.ID)
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeDetail(w, http.StatusUnauthorized, "Invalid admin API key")
		return
	}

	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++

	if s.FailUpdate {
		writeDetail(w, http.StatusInternalServerError, "update failed")
		return
	}

	track, ok := s.tracks[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Meditation not found")
		return
	}

	var payload struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		DurationSec int    `json:"duration_sec"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	track.Title = payload.Title
	track.Category = payload.Category
	track.DurationSec = payload.DurationSec
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeDetail(w, http.StatusUnauthorized, "Invalid admin API key")
		return
	}

	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++

	if _, ok := s.tracks[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Meditation not found")
		return
	}

	delete(s.tracks, id)
	for i, trackID := range s.order {
		if trackID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeDetail(w, http.StatusUnauthorized, "Invalid admin API key")
		return
	}

	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UploadCalls++

	if s.FailUpload {
		writeDetail(w, http.StatusInternalServerError, "upload failed")
		return
	}

	track, ok := s.tracks[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Meditation not found")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "missing file field")
		return
	}
	defer file.Close()
	io.Copy(io.Discard, file)
	s.LastUploadFilename = header.Filename

	audioURL := fmt.Sprintf("https://cdn.example.com/audio/%d.mp3", id)
	track.AudioURL = &audioURL
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StartCalls++

	if s.FailStart {
		writeDetail(w, http.StatusInternalServerError, "start failed")
		return
	}

	var payload struct {
		MeditationID int64 `json:"meditation_id"`
		DeviceID     int64 `json:"device_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.nextSessionID++
	session := &model.Session{
		ID:           s.nextSessionID,
		MeditationID: payload.MeditationID,
		DeviceID:     payload.DeviceID,
		StartedAt:    time.Now().UTC(),
	}
	s.sessions[session.ID] = session
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CompleteCalls++

	if s.FailComplete {
		writeDetail(w, http.StatusInternalServerError, "complete failed")
		return
	}

	session, ok := s.sessions[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Session not found")
		return
	}

	var payload struct {
		SecondsListened int `json:"seconds_listened"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	now := time.Now().UTC()
	session.SecondsListened = payload.SecondsListened
	session.CompletedAt = &now
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	deviceID, _ := pathID(r, "deviceID")
	s.mu.Lock()
	defer s.mu.Unlock()

	totalSeconds := 0
	streak := 0
	for _, session := range s.sessions {
		if session.DeviceID != deviceID {
			continue
		}
		totalSeconds += session.SecondsListened
		if session.CompletedAt != nil {
			streak++
		}
	}
	writeJSON(w, http.StatusOK, model.DeviceStats{
		TotalMinutes: (totalSeconds + 30) / 60,
		Streak:       streak,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[payload.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	s.nextUserID++
	s.users[payload.Email] = &userRecord{
		user:     model.User{ID: s.nextUserID, Email: payload.Email},
		password: payload.Password,
		token:    "tok-" + payload.Email,
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[payload.Email]
	if !ok || record.password != payload.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": record.token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.users {
		if record.token == bearer && bearer != "" {
			writeJSON(w, http.StatusOK, record.user)
			return
		}
	}
	writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}
