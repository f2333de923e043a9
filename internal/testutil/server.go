package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Route names of the fake server, usable with Server.Fail.
const (
	RouteSignin     = "signin"
	RouteSignup     = "signup"
	RouteListTasks  = "listTasks"
	RouteCreateTask = "createTask"
	RouteToggleTask = "toggleTask"
	RouteDeleteTask = "deleteTask"
)

// ServerTask is a task as stored by the fake server.
type ServerTask struct {
	ID         int        `json:"id"`
	Desc       string     `json:"desc"`
	EstimateAt time.Time  `json:"estimateAt"`
	DoneAt     *time.Time `json:"doneAt"`
}

// Request is a request seen by the fake server.
type Request struct {
	Route         string
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          string
}

type account struct {
	name  string
	email string
	hash  []byte
}

// Server fakes the to-do HTTP API on an httptest server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	tasks    []ServerTask
	accounts map[string]account
	tokens   map[string]string // token id -> email
	secret   []byte
	requests []Request
	fail     map[string]int
}

// NewServer starts a fake server that is closed when t finishes.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		nextID:   1,
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		secret:   []byte(uuid.NewString()),
		fail:     make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/signin", s.handleSignin).Methods(http.MethodPost).Name(RouteSignin)
	r.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost).Name(RouteSignup)

	tasks := r.PathPrefix("/tasks").Subrouter()
	tasks.Use(s.requireToken)
	tasks.HandleFunc("", s.handleList).Methods(http.MethodGet).Name(RouteListTasks)
	tasks.HandleFunc("", s.handleCreate).Methods(http.MethodPost).Name(RouteCreateTask)
	tasks.HandleFunc("/{id:[0-9]+}/toggle", s.handleToggle).Methods(http.MethodPut).Name(RouteToggleTask)
	tasks.HandleFunc("/{id:[0-9]+}", s.handleDelete).Methods(http.MethodDelete).Name(RouteDeleteTask)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddAccount registers an account that can sign in.
func (s *Server) AddAccount(name, email, password string) {
	if err := s.addAccount(name, email, password); err != nil {
		panic(err)
	}
}

func (s *Server) addAccount(name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = account{name: name, email: email, hash: hash}
	return nil
}

// IssueToken returns a valid token for email without a signin request.
// Tokens are HS256 JWTs whose id must still be known to the server.
func (s *Server) IssueToken(email string) string {
	claims := jwt.StandardClaims{
		Id:       uuid.NewString(),
		Subject:  email,
		IssuedAt: time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[claims.Id] = email
	return tok
}

// validToken reports whether tok is signed by this server and not revoked.
func (s *Server) validToken(tok string) bool {
	var claims jwt.StandardClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[claims.Id]
	return ok && email == claims.Subject
}

// AddTask stores a task and returns its ID.
func (s *Server) AddTask(desc string, estimateAt time.Time, doneAt *time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTaskLocked(desc, estimateAt, doneAt)
}

func (s *Server) addTaskLocked(desc string, estimateAt time.Time, doneAt *time.Time) int {
	id := s.nextID
	s.nextID++
	s.tasks = append(s.tasks, ServerTask{ID: id, Desc: desc, EstimateAt: estimateAt, DoneAt: doneAt})
	return id
}

// Tasks returns a copy of the stored tasks.
func (s *Server) Tasks() []ServerTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ServerTask(nil), s.tasks...)
}

// Requests returns every request received, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Fail makes every request to route answer with status.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[route] = status
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:         name,
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          string(body),
		})
		status, failing := s.fail[name]
		s.mu.Unlock()

		if failing {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		tok, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || !s.validToken(tok) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "user not found", http.StatusBadRequest)
		return
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"name":  acc.name,
		"email": acc.email,
		"token": s.IssueToken(acc.email),
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := s.addAccount(req.Name, req.Email, req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	bound, err := time.ParseInLocation("2006-01-02 15:04:05", r.URL.Query().Get("date"), time.Local)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := []ServerTask{}
	for _, t := range s.tasks {
		if !t.EstimateAt.After(bound) {
			result = append(result, t)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Desc       string    `json:"desc"`
		EstimateAt time.Time `json:"estimateAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Desc) == "" {
		http.Error(w, "desc required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.addTaskLocked(req.Desc, req.EstimateAt, nil)
	task := s.tasks[len(s.tasks)-1]
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID != id {
			continue
		}
		if t.DoneAt == nil {
			now := time.Now()
			s.tasks[i].DoneAt = &now
		} else {
			s.tasks[i].DoneAt = nil
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Error(w, "task not found", http.StatusNotFound)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "task not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
