// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, server *httptest.Server, credentials *Credentials) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:     server.URL + "/api/",
		Credentials: credentials,
		HTTPClient:  server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	for _, baseURL := range []string{"", "ftp://pulse.example/api/", "localhost:8000", "http:///api/"} {
		if _, err := NewClient(Config{BaseURL: baseURL}); err == nil {
			t.Errorf("NewClient(%q) succeeded, want error", baseURL)
		}
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost:8000/api/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
}

func TestClient_NoAuthorizationBeforeLogin(t *testing.T) {
	var receivedAuth string
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAuth, sawAuth = request.Header.Get("Authorization"), request.Header.Get("Authorization") != ""
		writer.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	if _, err := client.ListPosts(context.Background(), 1); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if sawAuth {
		t.Errorf("anonymous client sent Authorization %q", receivedAuth)
	}
	if client.Authenticated() {
		t.Error("Authenticated() = true for anonymous client")
	}
}

func TestClient_WithCredentials(t *testing.T) {
	var receivedAuth, receivedRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAuth = request.Header.Get("Authorization")
		receivedRequestID = request.Header.Get("X-Request-ID")
		writer.Write([]byte(`[]`))
	}))
	defer server.Close()

	anonymous := newTestClient(t, server, nil)
	authenticated, err := anonymous.WithCredentials(Credentials{Username: "user0", Password: "password"})
	if err != nil {
		t.Fatalf("WithCredentials: %v", err)
	}
	if _, err := authenticated.ListPosts(context.Background(), 1); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}

	// base64("user0:password")
	if want := "Basic dXNlcjA6cGFzc3dvcmQ="; receivedAuth != want {
		t.Errorf("Authorization = %q, want %q", receivedAuth, want)
	}
	if len(receivedRequestID) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", receivedRequestID)
	}
	if anonymous.Authenticated() {
		t.Error("WithCredentials mutated the original client")
	}
	if authenticated.Username() != "user0" {
		t.Errorf("Username() = %q, want user0", authenticated.Username())
	}
}

func TestCredentials_Validate(t *testing.T) {
	cases := []struct {
		name        string
		credentials Credentials
		wantError   bool
	}{
		{"valid", Credentials{Username: "user0", Password: "password"}, false},
		{"empty username", Credentials{Password: "password"}, true},
		{"colon in username", Credentials{Username: "a:b", Password: "password"}, true},
		{"empty password", Credentials{Username: "user0"}, true},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.credentials.Validate()
			if (err != nil) != testCase.wantError {
				t.Fatalf("Validate() = %v, wantError %v", err, testCase.wantError)
			}
		})
	}
	if got := (Credentials{Username: "user0", Password: "hunter2"}).String(); strings.Contains(got, "hunter2") {
		t.Errorf("String() leaks password: %q", got)
	}
}

func TestListPosts_PagedEnvelope(t *testing.T) {
	var receivedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/posts/" {
			t.Errorf("path = %q, want /api/posts/", request.URL.Path)
		}
		receivedQuery = request.URL.RawQuery
		writer.Write([]byte(`{
			"count": 3,
			"next": "http://example/api/posts/?page=3",
			"previous": "http://example/api/posts/",
			"results": [{"id": 7, "content": "hello", "author": {"id": 1, "username": "user0"},
				"created_at": "2026-02-01T10:00:00.123456Z", "likes_count": 3, "is_liked": true}]
		}`))
	}))
	defer server.Close()

	page, err := newTestClient(t, server, nil).ListPosts(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if receivedQuery != "page=2" {
		t.Errorf("query = %q, want page=2", receivedQuery)
	}
	if !page.HasNext() || page.Count != 3 || len(page.Results) != 1 {
		t.Fatalf("page = %+v", page)
	}
	post := page.Results[0]
	if post.ID != 7 || post.Author.Username != "user0" || post.LikesCount != 3 || !post.IsLiked {
		t.Errorf("post = %+v", post)
	}
	if post.CreatedAt.IsZero() {
		t.Error("CreatedAt not decoded")
	}
}

func TestListPosts_BareList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(` [{"id": 1, "content": "a"}, {"id": 2, "content": "b"}]`))
	}))
	defer server.Close()

	page, err := newTestClient(t, server, nil).ListPosts(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.HasNext() || len(page.Results) != 2 {
		t.Fatalf("page = %+v, want 2 results and no next", page)
	}
}

func TestGetPost_CommentTree(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/posts/9/" {
			t.Errorf("path = %q", request.URL.Path)
		}
		writer.Write([]byte(`{"id": 9, "content": "root", "comments": [
			{"id": 1, "content": "top", "parent": null, "replies": [
				{"id": 2, "content": "reply", "parent": 1, "replies": []}
			]}
		]}`))
	}))
	defer server.Close()

	post, err := newTestClient(t, server, nil).GetPost(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if len(post.Comments) != 1 || !post.Comments[0].IsTopLevel() {
		t.Fatalf("comments = %+v", post.Comments)
	}
	reply := post.Comments[0].Replies[0]
	if reply.Parent == nil || *reply.Parent != 1 {
		t.Errorf("reply.Parent = %v, want 1", reply.Parent)
	}
}

func TestCreateComment_Body(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost || request.URL.Path != "/api/posts/4/comments/" {
			t.Errorf("%s %s", request.Method, request.URL.Path)
		}
		body, _ := io.ReadAll(request.Body)
		received = nil
		json.Unmarshal(body, &received)
		writer.WriteHeader(http.StatusCreated)
		writer.Write([]byte(`{"id": 50, "content": "hi", "parent": 12}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, &Credentials{Username: "user0", Password: "password"})

	parent := int64(12)
	comment, err := client.CreateComment(context.Background(), 4, "hi", &parent)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if comment.ID != 50 {
		t.Errorf("comment.ID = %d", comment.ID)
	}
	if received["content"] != "hi" || received["parent"] != float64(12) {
		t.Errorf("body = %v", received)
	}

	if _, err := client.CreateComment(context.Background(), 4, "top", nil); err != nil {
		t.Fatalf("CreateComment top-level: %v", err)
	}
	if _, present := received["parent"]; present {
		t.Errorf("top-level comment sent parent: %v", received)
	}
}

func TestLikeEndpoints(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		paths = append(paths, request.Method+" "+request.URL.Path)
		writer.Write([]byte(`{"liked": true, "likes_count": 4}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, &Credentials{Username: "user0", Password: "password"})
	result, err := client.LikePost(context.Background(), 3)
	if err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if !result.Liked || result.LikesCount != 4 {
		t.Errorf("LikePost result = %+v", result)
	}
	if _, err := client.LikeComment(context.Background(), 8); err != nil {
		t.Fatalf("LikeComment: %v", err)
	}
	want := []string{"POST /api/posts/3/like/", "POST /api/comments/8/like/"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestHTTPError_Parsing(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantFields  int
	}{
		{"error field", 401, `{"error": "Authentication required"}`, "Authentication required", 0},
		{"detail field", 404, `{"detail": "Not found."}`, "Not found.", 0},
		{"field errors", 400, `{"content": ["This field may not be blank."]}`, "", 1},
		{"html page", 502, "<html>Bad Gateway</html>\n", "<html>Bad Gateway</html>", 0},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(testCase.status)
				writer.Write([]byte(testCase.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server, nil).GetPost(context.Background(), 1)
			var httpError *HTTPError
			if !errors.As(err, &httpError) {
				t.Fatalf("error = %v (%T), want *HTTPError", err, err)
			}
			if httpError.StatusCode != testCase.status {
				t.Errorf("StatusCode = %d, want %d", httpError.StatusCode, testCase.status)
			}
			if httpError.Message != testCase.wantMessage {
				t.Errorf("Message = %q, want %q", httpError.Message, testCase.wantMessage)
			}
			if len(httpError.Fields) != testCase.wantFields {
				t.Errorf("Fields = %v", httpError.Fields)
			}
		})
	}
}

func TestErrorClassifiers(t *testing.T) {
	notFound := &HTTPError{StatusCode: 404}
	if !IsNotFound(notFound) || IsUnauthorized(notFound) || IsServerError(notFound) {
		t.Error("404 misclassified")
	}
	if !IsUnauthorized(&HTTPError{StatusCode: 401}) || !IsUnauthorized(&HTTPError{StatusCode: 403}) {
		t.Error("401/403 not classified as unauthorized")
	}
	if !IsServerError(&HTTPError{StatusCode: 500}) {
		t.Error("500 not classified as server error")
	}
	if got := (&HTTPError{StatusCode: 400, Fields: map[string][]string{"content": {"blank"}}}).Error(); got != "pulseapi: HTTP 400: Bad Request; content: blank" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNetworkError_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: baseURL + "/api/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Leaderboard(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("error = %v (%T), want *NetworkError", err, err)
	}
}

func TestNetworkError_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	httpClient := server.Client()
	httpClient.Timeout = 50 * time.Millisecond
	client, err := NewClient(Config{BaseURL: server.URL + "/api/", HTTPClient: httpClient})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Leaderboard(context.Background())
	var networkError *NetworkError
	if !errors.As(err, &networkError) {
		t.Fatalf("error = %v (%T), want *NetworkError", err, err)
	}
	if !networkError.Timeout {
		t.Errorf("Timeout = false for %v", networkError)
	}
}
