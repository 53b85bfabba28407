// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bureau-foundation/pulse/cmd/pulse/cli"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/pulsetest"
	"github.com/bureau-foundation/pulse/lib/testutil"
)

// execute runs the CLI against server and returns stdout.
func execute(t *testing.T, server *pulsetest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PULSE_CONFIG", "")

	var stdout bytes.Buffer
	root := Root(&stdout)
	root.Logger = func() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
	root.HelpOutput = io.Discard

	if server != nil {
		args = append(args, "--base-url", server.URL)
	}
	err := root.Execute(context.Background(), args)
	return stdout.String(), err
}

// asUser returns the login flags for a seeded user.
func asUser(t *testing.T, username string) []string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte(pulsetest.DefaultPassword+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return []string{"--user", username, "--password-file", path}
}

func category(err error) cli.ErrorCategory {
	var toolError *cli.ToolError
	if errors.As(err, &toolError) {
		return toolError.Category
	}
	return ""
}

func TestFeed(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	first := server.AddPost("user1", "first post")
	server.AddPost("user2", "second\npost with   spacing")
	server.LikePost("user3", first.ID)
	server.AddComment("user4", first.ID, nil, "hi")

	output, err := execute(t, server, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	for _, want := range []string{"user1", "♡ 1", "1 comment", "first post", "second post with spacing", "2 of 2 posts"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Index(output, "second") > strings.Index(output, "first post") {
		t.Errorf("feed not newest first:\n%s", output)
	}
}

func TestFeed_EmptyAndPaging(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{PageSize: 2})

	output, err := execute(t, server, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !strings.Contains(output, "No posts yet.") {
		t.Errorf("empty feed output = %q", output)
	}

	for index := range 5 {
		server.AddPost("user0", strings.Repeat("x", index+1))
	}
	output, err = execute(t, server, "feed")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !strings.Contains(output, "2 of 5 posts (more with --pages or --all)") {
		t.Errorf("first page footer wrong:\n%s", output)
	}

	output, err = execute(t, server, "feed", "--all", "--json")
	if err != nil {
		t.Fatalf("feed --all --json: %v", err)
	}
	var result struct {
		Count int             `json:"count"`
		More  bool            `json:"more"`
		Posts []pulseapi.Post `json:"posts"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if result.Count != 5 || result.More || len(result.Posts) != 5 {
		t.Errorf("result = count %d more %v posts %d", result.Count, result.More, len(result.Posts))
	}

	if _, err := execute(t, server, "feed", "--pages", "0"); category(err) != cli.CategoryValidation {
		t.Errorf("--pages 0 error = %v", err)
	}
}

func TestPost(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})

	content := testutil.UniqueID("post")
	args := append([]string{"post", "hello", content}, asUser(t, "user0")...)
	output, err := execute(t, server, args...)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if !strings.HasPrefix(output, "Created post #") {
		t.Errorf("output = %q", output)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(output, "Created post #")), 10, 64)
	if err != nil {
		t.Fatalf("parsing %q: %v", output, err)
	}
	post, ok := server.Post("", id)
	if !ok || post.Content != "hello "+content {
		t.Errorf("stored post = %+v, %v", post, ok)
	}
}

func TestPost_Stdin(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	previous := stdin
	stdin = strings.NewReader("# Title\n\nbody text\n")
	t.Cleanup(func() { stdin = previous })

	args := append([]string{"post", "-", "--json"}, asUser(t, "user0")...)
	output, err := execute(t, server, args...)
	if err != nil {
		t.Fatalf("post -: %v", err)
	}
	var post pulseapi.Post
	if err := json.Unmarshal([]byte(output), &post); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if post.Content != "# Title\n\nbody text\n" || post.Author.Username != "user0" {
		t.Errorf("post = %+v", post)
	}
}

func TestPost_Rejected(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})

	if _, err := execute(t, server, "post", "anonymous"); category(err) != cli.CategoryForbidden {
		t.Errorf("anonymous post error = %v, want forbidden", err)
	}

	args := append([]string{"post", "   "}, asUser(t, "user0")...)
	if _, err := execute(t, server, args...); category(err) != cli.CategoryValidation {
		t.Errorf("blank post error = %v, want validation", err)
	}

	previous := stdin
	stdin = strings.NewReader("\n\t\n")
	t.Cleanup(func() { stdin = previous })
	args = append([]string{"post", "-"}, asUser(t, "user0")...)
	if _, err := execute(t, server, args...); category(err) != cli.CategoryValidation {
		t.Errorf("blank stdin post error = %v, want validation", err)
	}

	if requests := server.Requests(); len(requests) != 0 {
		t.Errorf("blank posts sent %d requests: %+v", len(requests), requests)
	}
}

func TestComment_BlankSendsNothing(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "thread root")
	login := asUser(t, "user0")

	if _, err := execute(t, server, append([]string{"comment", formatID(post.ID), "  "}, login...)...); category(err) != cli.CategoryValidation {
		t.Errorf("blank comment error = %v, want validation", err)
	}
	if _, err := execute(t, server, append([]string{"comment", formatID(post.ID), "--reply-to", "5", " \t "}, login...)...); category(err) != cli.CategoryValidation {
		t.Errorf("blank reply error = %v, want validation", err)
	}
	if server.Count(pulsetest.RouteListPosts) != 0 || server.Count(pulsetest.RouteCreateComment) != 0 {
		t.Errorf("blank comments reached the server: %+v", server.Requests())
	}
}

func TestLike(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "likeable")
	comment := server.AddComment("user2", post.ID, nil, "also likeable")
	login := asUser(t, "user0")

	output, err := execute(t, server, append([]string{"like", formatID(post.ID)}, login...)...)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if want := "Liked post #" + formatID(post.ID) + " (1 like)\n"; output != want {
		t.Errorf("output = %q, want %q", output, want)
	}

	output, err = execute(t, server, append([]string{"like", formatID(post.ID)}, login...)...)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if !strings.HasPrefix(output, "Unliked post #") || !strings.Contains(output, "(0 likes)") {
		t.Errorf("output = %q", output)
	}

	output, err = execute(t, server, append([]string{"like", formatID(post.ID), "--comment", formatID(comment.ID), "--json"}, login...)...)
	if err != nil {
		t.Fatalf("like comment: %v", err)
	}
	var result pulseapi.LikeResult
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if !result.Liked || result.LikesCount != 1 {
		t.Errorf("result = %+v", result)
	}

	if _, err := execute(t, server, append([]string{"like", "999"}, login...)...); category(err) != cli.CategoryNotFound {
		t.Errorf("missing post error = %v, want not_found", err)
	}
	if _, err := execute(t, server, append([]string{"like", "abc"}, login...)...); category(err) != cli.CategoryValidation {
		t.Errorf("bad ID error = %v, want validation", err)
	}
}

func TestComments(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "thread root")

	output, err := execute(t, server, "comments", formatID(post.ID))
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if !strings.Contains(output, "Comments (0)") || !strings.Contains(output, "No comments yet.") {
		t.Errorf("empty thread output:\n%s", output)
	}

	top := server.AddComment("user2", post.ID, nil, "top level")
	server.AddComment("user3", post.ID, &top.ID, "nested reply")

	output, err = execute(t, server, "comments", formatID(post.ID))
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	for _, want := range []string{"thread root", "Comments (2)", "user2", "    top level", "│ #", "│     nested reply"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	if _, err := execute(t, server, "comments", "999"); category(err) != cli.CategoryNotFound {
		t.Errorf("missing post error = %v, want not_found", err)
	}
}

func TestComment(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "thread root")
	login := asUser(t, "user0")

	output, err := execute(t, server, append([]string{"comment", formatID(post.ID), "first", "comment"}, login...)...)
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if !strings.HasPrefix(output, "Created comment #") || !strings.HasSuffix(output, "on post #"+formatID(post.ID)+"\n") {
		t.Errorf("output = %q", output)
	}

	top := server.AddComment("user2", post.ID, nil, "parent")
	output, err = execute(t, server, append([]string{"comment", formatID(post.ID), "--reply-to", formatID(top.ID), "a reply"}, login...)...)
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !strings.Contains(output, "to comment #"+formatID(top.ID)) {
		t.Errorf("output = %q", output)
	}
	if server.CommentCount() != 3 {
		t.Errorf("CommentCount = %d, want 3", server.CommentCount())
	}

	if _, err := execute(t, server, append([]string{"comment", formatID(post.ID)}, login...)...); category(err) != cli.CategoryValidation {
		t.Errorf("missing content error = %v, want validation", err)
	}
}

func TestLeaderboard(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})

	output, err := execute(t, server, "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if output != "Top Karma (Last 24h)\nNo activity yet.\n" {
		t.Errorf("empty leaderboard = %q", output)
	}

	post := server.AddPost("user1", "popular")
	server.LikePost("user0", post.ID)
	server.LikePost("user2", post.ID)
	comment := server.AddComment("user3", post.ID, nil, "mild")
	server.LikeComment("user0", comment.ID)

	output, err = execute(t, server, "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("leaderboard lines = %q", lines)
	}
	if fields := strings.Fields(lines[1]); len(fields) != 3 || fields[1] != "user1" || fields[2] != "10" {
		t.Errorf("first entry = %q", lines[1])
	}
	if fields := strings.Fields(lines[2]); len(fields) != 3 || fields[1] != "user3" || fields[2] != "1" {
		t.Errorf("second entry = %q", lines[2])
	}
}

func TestLogin(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})

	output, err := execute(t, server, append([]string{"login", "--json"}, asUser(t, "user5")...)...)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	var result struct {
		Username string `json:"username"`
		BaseURL  string `json:"base_url"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if result.Username != "user5" || result.BaseURL != server.URL {
		t.Errorf("result = %+v", result)
	}

	if _, err := execute(t, server, "login"); category(err) != cli.CategoryForbidden {
		t.Errorf("login without user error = %v, want forbidden", err)
	}
}

func TestUnreachableServerIsTransient(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	url := server.URL
	server.Close()

	t.Setenv("PULSE_CONFIG", "")
	var stdout bytes.Buffer
	root := Root(&stdout)
	root.Logger = func() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
	err := root.Execute(context.Background(), []string{"feed", "--base-url", url})
	if category(err) != cli.CategoryTransient {
		t.Errorf("error = %v, want transient", err)
	}
}

func TestVersion(t *testing.T) {
	output, err := execute(t, nil, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(output, "pulse ") {
		t.Errorf("output = %q", output)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
