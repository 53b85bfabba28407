// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulsetest

import (
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

	"github.com/bureau-foundation/pulse/lib/clock"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
)

// Route names one endpoint of the API, for failure injection, holds,
// and request counts.
type Route string

const (
	RouteListPosts     Route = "GET posts/"
	RouteCreatePost    Route = "POST posts/"
	RouteGetPost       Route = "GET posts/{id}/"
	RouteLikePost      Route = "POST posts/{id}/like/"
	RouteCreateComment Route = "POST posts/{id}/comments/"
	RouteLikeComment   Route = "POST comments/{id}/like/"
	RouteLeaderboard   Route = "GET leaderboard/"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password"

// KarmaWindow bounds which likes count toward the leaderboard.
const KarmaWindow = 24 * time.Hour

// LeaderboardSize is the number of entries the leaderboard returns.
const LeaderboardSize = 5

// Config holds server construction parameters.
type Config struct {
	// Users is the number of seeded users (user0, user1, ...). Defaults
	// to 10.
	Users int

	// PageSize is the number of posts per feed page. Defaults to 10.
	PageSize int

	// Clock stamps created_at and like times. Defaults to a fake clock
	// at 2026-01-01T12:00:00Z so timestamps are deterministic.
	Clock clock.Clock
}

// Request is one recorded API request.
type Request struct {
	Route    Route
	Method   string
	Path     string
	Username string
	Body     string
}

type user struct {
	id       int64
	username string
	password string
}

type post struct {
	id        int64
	content   string
	author    *user
	createdAt time.Time
}

type comment struct {
	id        int64
	postID    int64
	parent    *int64
	content   string
	author    *user
	createdAt time.Time
}

type failure struct {
	status    int
	remaining int // -1 means until Recover
}

// Server is a running fake API.
type Server struct {
	// URL is the API base URL, ending in "/api/".
	URL string

	httpServer *httptest.Server
	clock      clock.Clock
	pageSize   int

	mu           sync.Mutex
	nextID       int64
	users        map[string]*user
	userOrder    []*user
	posts        []*post // newest first
	postsByID    map[int64]*post
	comments     map[int64]*comment
	commentOrder []*comment
	postLikes    map[int64]map[int64]time.Time // post ID -> user ID -> liked at
	commentLikes map[int64]map[int64]time.Time
	failures     map[Route]*failure
	holds        map[Route]chan struct{}
	requests     []Request
}

// New starts a server and stops it when the test ends.
func New(t testing.TB, config Config) *Server {
	t.Helper()
	if config.Users <= 0 {
		config.Users = 10
	}
	if config.PageSize <= 0 {
		config.PageSize = 10
	}
	if config.Clock == nil {
		config.Clock = clock.Fake(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	}

	server := &Server{
		clock:        config.Clock,
		pageSize:     config.PageSize,
		users:        make(map[string]*user),
		postsByID:    make(map[int64]*post),
		comments:     make(map[int64]*comment),
		postLikes:    make(map[int64]map[int64]time.Time),
		commentLikes: make(map[int64]map[int64]time.Time),
		failures:     make(map[Route]*failure),
		holds:        make(map[Route]chan struct{}),
	}
	for index := range config.Users {
		server.AddUser(fmt.Sprintf("user%d", index), DefaultPassword)
	}

	mux := http.NewServeMux()
	server.handle(mux, "GET /api/posts/{$}", RouteListPosts, server.handleListPosts)
	server.handle(mux, "POST /api/posts/{$}", RouteCreatePost, server.handleCreatePost)
	server.handle(mux, "GET /api/posts/{id}/{$}", RouteGetPost, server.handleGetPost)
	server.handle(mux, "POST /api/posts/{id}/like/{$}", RouteLikePost, server.handleLikePost)
	server.handle(mux, "POST /api/posts/{id}/comments/{$}", RouteCreateComment, server.handleCreateComment)
	server.handle(mux, "POST /api/comments/{id}/like/{$}", RouteLikeComment, server.handleLikeComment)
	server.handle(mux, "GET /api/leaderboard/{$}", RouteLeaderboard, server.handleLeaderboard)

	server.httpServer = httptest.NewServer(mux)
	server.URL = server.httpServer.URL + "/api/"
	t.Cleanup(server.Close)
	return server
}

// Close releases held requests and stops the server.
func (server *Server) Close() {
	server.mu.Lock()
	for route, hold := range server.holds {
		close(hold)
		delete(server.holds, route)
	}
	server.mu.Unlock()
	server.httpServer.Close()
}

// Client returns an API client for this server, authenticated as
// username with the default password, or anonymous when username is
// empty.
func (server *Server) Client(t testing.TB, username string) *pulseapi.Client {
	t.Helper()
	config := pulseapi.Config{BaseURL: server.URL}
	if username != "" {
		config.Credentials = &pulseapi.Credentials{Username: username, Password: DefaultPassword}
	}
	client, err := pulseapi.NewClient(config)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return client
}

// handlerFunc serves one route for an authenticated or anonymous user.
type handlerFunc func(writer http.ResponseWriter, request *http.Request, caller *user, body []byte)

func (server *Server) handle(mux *http.ServeMux, pattern string, route Route, handler handlerFunc) {
	mux.HandleFunc(pattern, func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)
		username, _, _ := request.BasicAuth()

		server.mu.Lock()
		server.requests = append(server.requests, Request{
			Route:    route,
			Method:   request.Method,
			Path:     request.URL.Path,
			Username: username,
			Body:     string(body),
		})
		hold := server.holds[route]
		server.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-request.Context().Done():
				return
			}
		}

		if status, failed := server.takeFailure(route); failed {
			writeJSON(writer, status, map[string]string{"detail": http.StatusText(status)})
			return
		}

		caller, ok := server.authenticate(request)
		if !ok {
			writeJSON(writer, http.StatusUnauthorized, map[string]string{
				"detail": "Invalid username/password.",
			})
			return
		}
		handler(writer, request, caller, body)
	})
}

// authenticate resolves Basic credentials. A request without an
// Authorization header is anonymous (nil user, ok); a request with
// wrong credentials is rejected.
func (server *Server) authenticate(request *http.Request) (*user, bool) {
	if request.Header.Get("Authorization") == "" {
		return nil, true
	}
	username, password, ok := request.BasicAuth()
	if !ok {
		return nil, false
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	account, exists := server.users[username]
	if !exists || account.password != password {
		return nil, false
	}
	return account, true
}

func (server *Server) takeFailure(route Route) (int, bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	injected, ok := server.failures[route]
	if !ok {
		return 0, false
	}
	if injected.remaining > 0 {
		injected.remaining--
		if injected.remaining == 0 {
			delete(server.failures, route)
		}
	}
	return injected.status, true
}

// FailNext makes the next request on route answer with status.
func (server *Server) FailNext(route Route, status int) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.failures[route] = &failure{status: status, remaining: 1}
}

// FailAlways makes every request on route answer with status until
// Recover is called.
func (server *Server) FailAlways(route Route, status int) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.failures[route] = &failure{status: status, remaining: -1}
}

// Recover clears injected failures on route.
func (server *Server) Recover(route Route) {
	server.mu.Lock()
	defer server.mu.Unlock()
	delete(server.failures, route)
}

// Hold parks every request on route until the returned release function
// is called. Held requests are recorded before they park, so Count
// observes them. Calling release more than once is safe.
func (server *Server) Hold(route Route) (release func()) {
	gate := make(chan struct{})
	server.mu.Lock()
	server.holds[route] = gate
	server.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			server.mu.Lock()
			if server.holds[route] == gate {
				delete(server.holds, route)
				close(gate)
			}
			server.mu.Unlock()
		})
	}
}

// Requests returns every recorded request in arrival order.
func (server *Server) Requests() []Request {
	server.mu.Lock()
	defer server.mu.Unlock()
	return append([]Request(nil), server.requests...)
}

// Count returns the number of recorded requests on route.
func (server *Server) Count(route Route) int {
	server.mu.Lock()
	defer server.mu.Unlock()
	count := 0
	for _, recorded := range server.requests {
		if recorded.Route == route {
			count++
		}
	}
	return count
}

func writeJSON(writer http.ResponseWriter, status int, value any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(value)
}

func pathID(request *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(request.PathValue("id"), 10, 64)
	return id, err == nil
}

func notFound(writer http.ResponseWriter) {
	writeJSON(writer, http.StatusNotFound, map[string]string{"detail": "No Post matches the given query."})
}

func requireUser(writer http.ResponseWriter, caller *user) bool {
	if caller == nil {
		writeJSON(writer, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return false
	}
	return true
}

// decodeContent reads {"content": ...} and rejects blank content the
// way the backend's serializer does.
func decodeContent(writer http.ResponseWriter, body []byte, target any, content func() string) bool {
	if err := json.Unmarshal(body, target); err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]string{"detail": "JSON parse error - " + err.Error()})
		return false
	}
	if strings.TrimSpace(content()) == "" {
		writeJSON(writer, http.StatusBadRequest, map[string][]string{
			"content": {"This field may not be blank."},
		})
		return false
	}
	return true
}
