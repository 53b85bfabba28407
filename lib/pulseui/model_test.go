// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/pulse/lib/clock"
	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulsetest"
	"github.com/bureau-foundation/pulse/lib/testutil"
	"github.com/bureau-foundation/pulse/lib/thread"
)

var testTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

const testTimeout = 5 * time.Second

// newTestModel builds a sized model over a store whose feed and
// leaderboard are already cached, so the first view has content
// without running Init's commands.
func newTestModel(t *testing.T, server *pulsetest.Server, username string) Model {
	t.Helper()
	store, err := pulse.NewStore(pulse.Config{
		Client: server.Client(t, username),
		Clock:  clock.Fake(testTime),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(store.Cache().Close)

	ctx := context.Background()
	if _, err := store.Feed(ctx); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if _, err := store.Leaderboard(ctx); err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}

	model := NewModel(Config{Store: store, LeaderboardInterval: -1})
	t.Cleanup(model.Close)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func sendKey(t *testing.T, model Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var command tea.Cmd
	for _, name := range keys {
		var message tea.KeyMsg
		switch name {
		case "enter":
			message = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			message = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+d":
			message = tea.KeyMsg{Type: tea.KeyCtrlD}
		default:
			message = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
		}
		var updated tea.Model
		updated, command = model.Update(message)
		model = updated.(Model)
	}
	return model, command
}

// run executes a command and feeds its message back into the model.
func run(t *testing.T, model Model, command tea.Cmd) Model {
	t.Helper()
	if command == nil {
		t.Fatal("expected a command")
	}
	updated, _ := model.Update(command())
	return updated.(Model)
}

func viewText(model Model) string {
	return ansi.Strip(model.View())
}

func TestModel_LoadingBeforeSize(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	store, err := pulse.NewStore(pulse.Config{Client: server.Client(t, "")})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(store.Cache().Close)
	model := NewModel(Config{Store: store, LeaderboardInterval: -1})
	defer model.Close()
	if got := model.View(); got != "Loading..." {
		t.Errorf("View before size = %q", got)
	}
}

func TestModel_FeedView(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	server.AddPost("user1", "first post")
	server.AddPost("user2", "second post")
	model := newTestModel(t, server, "")

	view := viewText(model)
	for _, want := range []string{"first post", "second post", "user1", "user2", "Top Karma (Last 24h)", "anonymous", "2 of 2 posts"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "second post") > strings.Index(view, "first post") {
		t.Error("newest post should render first")
	}
}

func TestModel_EmptyFeed(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "")

	view := viewText(model)
	if !strings.Contains(view, "No posts yet.") {
		t.Errorf("empty feed view:\n%s", view)
	}
	if !strings.Contains(view, "No activity yet.") {
		t.Errorf("empty leaderboard view:\n%s", view)
	}
}

func TestModel_Quit(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "")

	_, command := sendKey(t, model, "q")
	if command == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModel_LikeOptimisticThenConfirmed(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	server.AddPost("user1", "likeable")
	model := newTestModel(t, server, "user0")

	release := server.Hold(pulsetest.RouteLikePost)
	model, command := sendKey(t, model, "l")
	if command == nil {
		t.Fatal("like returned no command")
	}
	results := make(chan tea.Msg, 1)
	go func() { results <- command() }()
	testutil.Eventually(t, testTimeout, func() bool { return server.Count(pulsetest.RouteLikePost) == 1 },
		"waiting for like request")

	updated, _ := model.Update(cacheChangedMsg{subscription: model.feedSub})
	model = updated.(Model)
	if view := viewText(model); !strings.Contains(view, "♥ 1") {
		t.Errorf("in-flight like not shown:\n%s", view)
	}

	release()
	updated, _ = model.Update(testutil.RequireReceive(t, results, testTimeout, "like result"))
	model = updated.(Model)
	view := viewText(model)
	if !strings.Contains(view, "♥ 1") || strings.Contains(view, "Like failed") {
		t.Errorf("confirmed like:\n%s", view)
	}
}

func TestModel_LikeFailureRollsBack(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	server.AddPost("user1", "likeable")
	model := newTestModel(t, server, "user0")

	server.FailNext(pulsetest.RouteLikePost, http.StatusInternalServerError)
	model, command := sendKey(t, model, "l")
	model = run(t, model, command)

	view := viewText(model)
	if !strings.Contains(view, "♡ 0") {
		t.Errorf("like not rolled back:\n%s", view)
	}
	if !strings.Contains(view, "Like failed") {
		t.Errorf("inline like error missing:\n%s", view)
	}

	// Liking again clears the error.
	model, command = sendKey(t, model, "l")
	model = run(t, model, command)
	view = viewText(model)
	if strings.Contains(view, "Like failed") || !strings.Contains(view, "♥ 1") {
		t.Errorf("second like:\n%s", view)
	}
}

func TestModel_LikeAnonymousAsksForLogin(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	server.AddPost("user1", "likeable")
	model := newTestModel(t, server, "")

	model, command := sendKey(t, model, "l")
	model = run(t, model, command)
	if view := viewText(model); !strings.Contains(view, "Log in to like (L)") {
		t.Errorf("anonymous like:\n%s", view)
	}
}

func TestModel_ComposePost(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "user0")

	model, _ = sendKey(t, model, "n")
	if model.compose == nil || model.focusRegion != FocusCompose {
		t.Fatal("n did not open the compose modal")
	}
	model, command := sendKey(t, model, "h", "e", "l", "l", "o", "ctrl+d")
	if model.compose != nil {
		t.Error("modal still open after submit")
	}
	model = run(t, model, command)

	if server.PostCount() != 1 {
		t.Errorf("server has %d posts, want 1", server.PostCount())
	}
	view := viewText(model)
	if !strings.Contains(view, "hello") || strings.Contains(view, "No posts yet.") {
		t.Errorf("created post missing:\n%s", view)
	}
}

func TestModel_ComposePostFailureRestoresDraft(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "user0")

	server.FailNext(pulsetest.RouteCreatePost, http.StatusInternalServerError)
	model, command := sendKey(t, model, "n", "d", "r", "a", "f", "t", "ctrl+d")
	model = run(t, model, command)

	if model.compose == nil {
		t.Fatal("modal not reopened after failure")
	}
	if got := model.compose.Value(); got != "draft" {
		t.Errorf("restored draft = %q, want %q", got, "draft")
	}
	if !strings.Contains(model.compose.Error(), "Failed to send") {
		t.Errorf("compose error = %q", model.compose.Error())
	}
	if posts := model.feed.pages.Posts(); len(posts) != 0 {
		t.Errorf("optimistic post not rolled back: %+v", posts)
	}
}

func TestModel_ComposeBlankSendsNothing(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "user0")

	model, command := sendKey(t, model, "n", " ", " ", "ctrl+d")
	if command != nil {
		t.Error("blank submit returned a command")
	}
	if model.compose == nil || model.compose.Error() == "" {
		t.Error("blank submit should keep the modal open with an error")
	}
	if got := server.Count(pulsetest.RouteCreatePost); got != 0 {
		t.Errorf("sent %d create requests, want 0", got)
	}

	model, _ = sendKey(t, model, "esc")
	if model.compose != nil || model.focusRegion != FocusMain {
		t.Error("esc did not close the modal")
	}
}

func TestModel_ThreadErrorPanelAndRetry(t *testing.T) {
	for _, test := range []struct {
		status int
		hint   string
	}{
		{http.StatusInternalServerError, "(Server Error)"},
		{http.StatusNotFound, "(Post not found)"},
	} {
		t.Run(test.hint, func(t *testing.T) {
			server := pulsetest.New(t, pulsetest.Config{})
			post := server.AddPost("user1", "the post")
			server.AddComment("user2", post.ID, nil, "first!")
			model := newTestModel(t, server, "")

			model, _ = sendKey(t, model, "enter")
			if model.Screen() != ScreenThread {
				t.Fatal("enter did not open the thread")
			}
			if view := viewText(model); !strings.Contains(view, "Loading comments") {
				t.Errorf("thread before load:\n%s", view)
			}

			server.FailNext(pulsetest.RouteGetPost, test.status)
			model = run(t, model, model.loadThread(post.ID, false))
			view := viewText(model)
			for _, want := range []string{"Failed to load comments", test.hint, "Press r to retry"} {
				if !strings.Contains(view, want) {
					t.Errorf("error panel missing %q:\n%s", want, view)
				}
			}

			model, command := sendKey(t, model, "r")
			model = run(t, model, command)
			view = viewText(model)
			for _, want := range []string{"the post", "Comments (1)", "first!"} {
				if !strings.Contains(view, want) {
					t.Errorf("retried thread missing %q:\n%s", want, view)
				}
			}

			model, _ = sendKey(t, model, "esc")
			if model.Screen() != ScreenFeed || model.thread != nil {
				t.Error("esc did not return to the feed")
			}
		})
	}
}

// openLoadedThread opens the first post's thread with its comments
// already cached.
func openLoadedThread(t *testing.T, model Model, postID int64) Model {
	t.Helper()
	if _, err := model.store.Post(context.Background(), postID); err != nil {
		t.Fatalf("Post: %v", err)
	}
	model, _ = sendKey(t, model, "enter")
	if model.thread == nil || !model.thread.hasPost {
		t.Fatal("thread not loaded")
	}
	return model
}

func TestModel_CommentOnThread(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "the post")
	model := newTestModel(t, server, "user0")
	model = openLoadedThread(t, model, post.ID)

	if view := viewText(model); !strings.Contains(view, "No comments yet.") {
		t.Errorf("empty thread:\n%s", view)
	}

	model, command := sendKey(t, model, "c", "n", "i", "c", "e", "ctrl+d")
	if model.compose != nil {
		t.Error("comment modal still open after submit")
	}
	model = run(t, model, command)
	view := viewText(model)
	if !strings.Contains(view, "nice") || !strings.Contains(view, "Comments (1)") {
		t.Errorf("comment missing:\n%s", view)
	}
}

func TestModel_ReplyFailureKeepsFormOpen(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	post := server.AddPost("user1", "the post")
	parent := server.AddComment("user2", post.ID, nil, "parent comment")
	model := newTestModel(t, server, "user0")
	model = openLoadedThread(t, model, post.ID)

	model, _ = sendKey(t, model, "j", "a")
	if model.compose == nil || model.composeTarget.kind != composeReply || model.composeTarget.parentID != parent.ID {
		t.Fatalf("reply modal target = %+v", model.composeTarget)
	}

	server.FailNext(pulsetest.RouteCreateComment, http.StatusInternalServerError)
	model, command := sendKey(t, model, "h", "i", "ctrl+d")
	if !model.composePending {
		t.Error("reply not pending while in flight")
	}
	model = run(t, model, command)
	if model.compose == nil {
		t.Fatal("reply form closed after failure")
	}
	if model.composePending {
		t.Error("reply still pending after failure")
	}
	if got := model.compose.Value(); got != "hi" {
		t.Errorf("reply text = %q, want %q", got, "hi")
	}
	if model.compose.Error() == "" {
		t.Error("reply failure not shown")
	}

	model, command = sendKey(t, model, "ctrl+d")
	model = run(t, model, command)
	if model.compose != nil {
		t.Error("reply form still open after success")
	}
	reply, ok := thread.Find(model.thread.post.Comments, thread.Comments, model.thread.order[len(model.thread.order)-1])
	if !ok || reply.Content != "hi" || reply.Parent == nil || *reply.Parent != parent.ID {
		t.Errorf("reply in tree = %+v", reply)
	}
}

func TestModel_Login(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "")
	if view := viewText(model); !strings.Contains(view, "anonymous") {
		t.Errorf("header before login should show anonymous:\n%s", view)
	}

	model, _ = sendKey(t, model, "L")
	if model.Screen() != ScreenLogin {
		t.Fatal("L did not open the login screen")
	}
	view := viewText(model)
	if !strings.Contains(view, "Browsing anonymously.") || !strings.Contains(view, defaultLoginUsername) {
		t.Errorf("login form:\n%s", view)
	}

	model, _ = sendKey(t, model, "enter")
	model, command := sendKey(t, model, "enter")
	if !model.login.pending {
		t.Error("login not pending after submit")
	}
	model = run(t, model, command)

	if model.Screen() != ScreenFeed {
		t.Error("successful login did not return to the feed")
	}
	if got := model.store.Username(); got != defaultLoginUsername {
		t.Errorf("store user = %q, want %q", got, defaultLoginUsername)
	}
	if view := viewText(model); !strings.Contains(view, defaultLoginUsername) {
		t.Errorf("header does not show the user:\n%s", view)
	}
}

func TestModel_LoginRejected(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "")

	model, _ = sendKey(t, model, "L")
	model.login.password.SetValue("wrong")
	model.login.setFocus(1)
	model, command := sendKey(t, model, "enter")
	model = run(t, model, command)

	if model.Screen() != ScreenLogin {
		t.Error("rejected login left the login screen")
	}
	if view := viewText(model); !strings.Contains(view, "Invalid username or password.") {
		t.Errorf("rejected login:\n%s", view)
	}
	if model.store.Username() != "" {
		t.Errorf("store user = %q after rejected login", model.store.Username())
	}
}

func TestModel_Filter(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	server.AddPost("user1", "golang tips")
	server.AddPost("user2", "rust news")
	model := newTestModel(t, server, "")

	model, _ = sendKey(t, model, "/", "g", "o", "q")
	if model.focusRegion != FocusFilter {
		t.Fatal("filter lost focus")
	}
	if model.feed.filter.Input != "goq" {
		t.Errorf("filter input = %q; q should type, not quit", model.feed.filter.Input)
	}
	model, _ = sendKey(t, model, "esc")
	if model.feed.filter.Input != "" {
		t.Fatal("esc did not clear the filter")
	}

	model, _ = sendKey(t, model, "/", "g", "o")
	view := viewText(model)
	if !strings.Contains(view, "golang tips") || strings.Contains(view, "rust news") {
		t.Errorf("filtered view:\n%s", view)
	}

	model, _ = sendKey(t, model, "enter")
	if model.focusRegion != FocusMain || model.feed.filter.Input != "go" {
		t.Error("enter should keep the filter and return focus")
	}
	model, _ = sendKey(t, model, "esc")
	if view := viewText(model); !strings.Contains(view, "rust news") {
		t.Errorf("clearing the filter did not restore posts:\n%s", view)
	}
}

func TestModel_LeaderboardTopEntries(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	first := server.AddPost("user1", "popular")
	second := server.AddPost("user2", "less popular")
	server.LikePost("user3", first.ID)
	server.LikePost("user4", first.ID)
	server.LikePost("user3", second.ID)
	model := newTestModel(t, server, "")

	view := viewText(model)
	top := strings.Index(view, "1. user1")
	runnerUp := strings.Index(view, "2. user2")
	if top < 0 || runnerUp < 0 {
		t.Fatalf("leaderboard rows missing:\n%s", view)
	}
	if !strings.Contains(view, "10") {
		t.Errorf("karma missing:\n%s", view)
	}

	model, _ = sendKey(t, model, "b")
	if view := viewText(model); strings.Contains(view, "Top Karma") {
		t.Error("b did not hide the leaderboard")
	}
}

func TestModel_LogRecordsShowInStatusBar(t *testing.T) {
	server := pulsetest.New(t, pulsetest.Config{})
	model := newTestModel(t, server, "")

	updated, command := model.Update(logRecordMsg{Summary: "refresh failed", Level: slog.LevelWarn})
	model = updated.(Model)
	if command == nil {
		t.Fatal("log record scheduled no fade")
	}
	if view := viewText(model); !strings.Contains(view, "refresh failed") {
		t.Errorf("status missing:\n%s", view)
	}
	updated, _ = model.Update(logRecordFadeMsg{seq: model.statusSeq})
	model = updated.(Model)
	if view := viewText(model); strings.Contains(view, "refresh failed") {
		t.Error("status did not fade")
	}
}
