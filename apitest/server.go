// Package apitest runs a fake engpro API over httptest for client and
// store tests. Handlers respond in the production envelope and every hit
// is counted per route so tests can assert exactly how many network calls
// an operation made.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

type Server struct {
	*httptest.Server
	router *mux.Router

	mu    sync.Mutex
	calls map[string]int
}

func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		router: mux.NewRouter(),
		calls:  make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Handle(method, path string, h http.HandlerFunc) {
	key := method + " " + path
	counted := func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[key]++
		s.mu.Unlock()
		h(w, r)
	}
	s.router.HandleFunc(path, counted).Methods(method)
}

// Calls reports how many requests hit the given route.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// TotalCalls reports how many requests the server saw across all routes.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func Param(r *http.Request, key string) string {
	return mux.Vars(r)[key]
}

type envelope struct {
	Data    any    `json:"data"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Respond writes data in the production envelope.
func Respond(w http.ResponseWriter, data any, statusCode int) {
	write(w, envelope{Data: data}, statusCode)
}

// RespondError writes an enveloped error code.
func RespondError(w http.ResponseWriter, code, message string, statusCode int) {
	write(w, envelope{Code: code, Message: message}, statusCode)
}

func write(w http.ResponseWriter, env envelope, statusCode int) {
	jsonData, err := json.Marshal(env)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonData)
}

// Decode reads a JSON request body into val.
func Decode(r *http.Request, val any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(val)
}
