// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/pulse/lib/clock"
	"github.com/bureau-foundation/pulse/lib/pulse"
	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/query"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// Screen identifies the active top-level view.
type Screen int

const (
	// ScreenFeed is the post list with the leaderboard beside it.
	ScreenFeed Screen = iota
	// ScreenThread is one post with its comment tree.
	ScreenThread
	// ScreenLogin is the credentials form.
	ScreenLogin
)

// FocusRegion identifies where keystrokes go.
type FocusRegion int

const (
	// FocusMain routes keys to the active screen's navigation.
	FocusMain FocusRegion = iota
	// FocusFilter routes keys to the feed filter input.
	FocusFilter
	// FocusCompose routes keys to the compose modal.
	FocusCompose
)

// composeKind is what a compose modal submission creates.
type composeKind int

const (
	composePost composeKind = iota
	composeComment
	composeReply
)

// composeTarget records what the open compose modal will create.
type composeTarget struct {
	kind     composeKind
	postID   int64
	parentID int64
}

// Wide terminals show the leaderboard beside the feed.
const sideBySideMinWidth = 90

// Chrome rows: header line, bottom separator, help line.
const chromeRows = 3

// cacheChangedMsg reports a notification on a cache subscription.
type cacheChangedMsg struct {
	subscription *query.Subscription
}

// heatTickMsg drives the change highlight animation.
type heatTickMsg struct{}

// feedLoadedMsg is the result of a feed fetch, refresh, or page load.
type feedLoadedMsg struct {
	more bool
	err  error
}

// threadLoadedMsg is the result of fetching a post's comment tree.
type threadLoadedMsg struct {
	postID int64
	err    error
}

// postCreatedMsg is the result of submitting a new post. draft is the
// submitted text, restored into the compose modal on failure.
type postCreatedMsg struct {
	draft string
	err   error
}

// commentCreatedMsg is the result of submitting a comment or reply.
type commentCreatedMsg struct {
	target composeTarget
	draft  string
	err    error
}

// likeResultMsg is the result of toggling a like. commentID is zero
// for post likes.
type likeResultMsg struct {
	postID    int64
	commentID int64
	err       error
}

// loginResultMsg is the result of a login attempt.
type loginResultMsg struct {
	session pulse.Session
	err     error
}

// Config holds Model construction parameters.
type Config struct {
	// Store is the feed's state and operations. Required.
	Store *pulse.Store

	// LeaderboardInterval overrides pulse.LeaderboardInterval. Zero
	// keeps the default; negative disables polling.
	LeaderboardInterval time.Duration

	// Clock defaults to the store's clock.
	Clock clock.Clock

	// Logger receives warnings from failed background work. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

// Model is the top-level bubbletea model for the pulse TUI.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	store  *pulse.Store
	clock  clock.Clock
	logger *slog.Logger
	poller *pulse.Poller

	theme tui.Theme
	keys  KeyMap

	width  int
	height int
	ready  bool

	screen      Screen
	focusRegion FocusRegion

	feed            FeedView
	feedSub         *query.Subscription
	leaderboard     query.State
	leaderboardSub  *query.Subscription
	showLeaderboard bool

	thread *CommentSection

	login LoginForm

	compose        *tui.ComposeModal
	composeTarget  composeTarget
	composePending bool

	heat        *tui.HeatTracker[int64]
	tickRunning bool

	// Status bar message from the log handler or a mutation.
	status      string
	statusLevel slog.Level
	statusSeq   int
}

// NewModel creates a Model over the store's cache. Call Close after the
// program exits.
func NewModel(config Config) Model {
	if config.Clock == nil {
		config.Clock = config.Store.Clock()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cache := config.Store.Cache()

	var poller *pulse.Poller
	if config.LeaderboardInterval >= 0 {
		poller = config.Store.LeaderboardPoller()
		if config.LeaderboardInterval > 0 {
			poller.Interval = config.LeaderboardInterval
		}
	}

	model := Model{
		ctx:             ctx,
		cancel:          cancel,
		store:           config.Store,
		clock:           config.Clock,
		logger:          config.Logger,
		poller:          poller,
		theme:           tui.DefaultTheme,
		keys:            DefaultKeyMap,
		feed:            newFeedView(tui.DefaultTheme),
		feedSub:         cache.Subscribe(query.PostsKey),
		leaderboardSub:  cache.Subscribe(query.LeaderboardKey),
		showLeaderboard: true,
		login:           newLoginForm(tui.DefaultTheme),
		heat:            tui.NewHeatTracker[int64](),
	}
	model.feed.sync(cache)
	model.leaderboard = cache.Peek(query.LeaderboardKey)
	return model
}

// Close cancels in-flight work and releases cache subscriptions.
func (model Model) Close() {
	model.cancel()
	model.feedSub.Close()
	model.leaderboardSub.Close()
	if model.thread != nil {
		model.thread.close()
	}
}

// Screen returns the active screen.
func (model Model) Screen() Screen { return model.screen }

// Init implements tea.Model: loads the feed and leaderboard, starts
// listening for cache changes, and starts the leaderboard poller.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{
		model.loadFeed(false),
		model.loadLeaderboard(),
		listenForChange(model.feedSub),
		listenForChange(model.leaderboardSub),
		model.feed.spinner.Tick,
	}
	if model.poller != nil {
		poller, ctx := model.poller, model.ctx
		commands = append(commands, func() tea.Msg {
			_ = poller.Run(ctx)
			return nil
		})
	}
	return tea.Batch(commands...)
}

// listenForChange blocks until the subscription fires or closes.
func listenForChange(subscription *query.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-subscription.Changes():
			return cacheChangedMsg{subscription: subscription}
		case <-subscription.Done():
			return nil
		}
	}
}

func (model Model) loadFeed(refresh bool) tea.Cmd {
	ctx, store := model.ctx, model.store
	return func() tea.Msg {
		var err error
		if refresh {
			_, err = store.RefreshFeed(ctx)
		} else {
			_, err = store.Feed(ctx)
		}
		return feedLoadedMsg{err: err}
	}
}

func (model Model) loadMore() tea.Cmd {
	ctx, store := model.ctx, model.store
	return func() tea.Msg {
		_, err := store.LoadMore(ctx)
		return feedLoadedMsg{more: true, err: err}
	}
}

func (model Model) loadLeaderboard() tea.Cmd {
	ctx, store := model.ctx, model.store
	return func() tea.Msg {
		// Failures show in the panel from the cache state.
		_, _ = store.Leaderboard(ctx)
		return nil
	}
}

func (model Model) loadThread(postID int64, refresh bool) tea.Cmd {
	ctx, store := model.ctx, model.store
	return func() tea.Msg {
		var err error
		if refresh {
			_, err = store.RefreshPost(ctx, postID)
		} else {
			_, err = store.Post(ctx, postID)
		}
		return threadLoadedMsg{postID: postID, err: err}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		switch {
		case model.focusRegion == FocusCompose:
			return model.handleComposeKeys(message)
		case model.focusRegion == FocusFilter:
			return model.handleFilterKeys(message)
		case model.screen == ScreenLogin:
			return model.handleLoginKeys(message)
		case model.screen == ScreenThread:
			return model.handleThreadKeys(message)
		default:
			return model.handleFeedKeys(message)
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.resizeThread()

	case cacheChangedMsg:
		return model.handleCacheChanged(message)

	case feedLoadedMsg:
		if message.more {
			model.feed.loadingMore = false
			if message.err != nil {
				model.feed.loadMoreError = describeError(message.err)
			}
		}
		model.syncFeed(model.clock.Now())

	case threadLoadedMsg:
		if model.thread != nil && model.thread.PostID == message.postID {
			model.thread.sync(model.store.Cache(), model.clock.Now())
			model.thread.render(model.theme, model.clock.Now())
		}

	case likeResultMsg:
		return model.handleLikeResult(message)

	case postCreatedMsg:
		return model.handlePostCreated(message)

	case commentCreatedMsg:
		return model.handleCommentCreated(message)

	case loginResultMsg:
		return model.handleLoginResult(message)

	case spinner.TickMsg:
		var commands []tea.Cmd
		var command tea.Cmd
		model.feed.spinner, command = model.feed.spinner.Update(message)
		commands = append(commands, command)
		if model.thread != nil {
			model.thread.spinner, command = model.thread.spinner.Update(message)
			commands = append(commands, command)
		}
		return model, tea.Batch(commands...)

	case heatTickMsg:
		now := model.clock.Now()
		threadHot := model.thread != nil && model.thread.heat.HasHot(now)
		if model.heat.HasHot(now) || threadHot {
			if threadHot {
				model.thread.render(model.theme, now)
			}
			return model, scheduleHeatTick()
		}
		model.tickRunning = false

	case logRecordMsg:
		return model.showStatus(message.Summary, message.Level)

	case logRecordFadeMsg:
		if message.seq == model.statusSeq {
			model.status = ""
		}
	}
	return model, nil
}

// handleCacheChanged re-reads the key behind a subscription and
// re-arms the listener, unless the subscription has been replaced.
func (model Model) handleCacheChanged(message cacheChangedMsg) (tea.Model, tea.Cmd) {
	cache := model.store.Cache()
	now := model.clock.Now()
	var commands []tea.Cmd

	switch {
	case message.subscription == model.feedSub:
		model.syncFeed(now)
		commands = append(commands, listenForChange(model.feedSub), model.startHeatTick())

	case message.subscription == model.leaderboardSub:
		model.leaderboard = cache.Peek(query.LeaderboardKey)
		commands = append(commands, listenForChange(model.leaderboardSub))

	case model.thread != nil && message.subscription == model.thread.subscription:
		model.thread.sync(cache, now)
		model.thread.render(model.theme, now)
		commands = append(commands, listenForChange(model.thread.subscription), model.startHeatTick())

	default:
		return model, nil
	}
	return model, tea.Batch(commands...)
}

// syncFeed re-reads the feed, lighting up posts that appeared or
// changed like state.
func (model *Model) syncFeed(now time.Time) {
	before := model.feed.snapshot()
	model.feed.sync(model.store.Cache())
	if len(before) == 0 {
		return
	}
	for id, liked := range model.feed.snapshot() {
		previous, seen := before[id]
		switch {
		case !seen:
			model.heat.Ignite(id, tui.HeatArrived, now)
		case previous != liked:
			model.heat.Ignite(id, tui.HeatLiked, now)
		}
	}
}

// syncAll catches the screens up with the cache after a mutation
// settles, without waiting for the subscription listeners.
func (model *Model) syncAll() {
	now := model.clock.Now()
	model.syncFeed(now)
	if model.thread != nil {
		model.thread.sync(model.store.Cache(), now)
		model.thread.render(model.theme, now)
	}
}

func (model *Model) startHeatTick() tea.Cmd {
	if model.tickRunning {
		return nil
	}
	model.tickRunning = true
	return scheduleHeatTick()
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

func (model Model) showStatus(text string, level slog.Level) (tea.Model, tea.Cmd) {
	model.status = text
	model.statusLevel = level
	model.statusSeq++
	seq := model.statusSeq
	return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
		return logRecordFadeMsg{seq: seq}
	})
}

// --- Feed screen ---

func (model Model) handleFeedKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Up):
		model.feed.move(-1)
	case key.Matches(message, model.keys.Down):
		model.feed.move(1)
	case key.Matches(message, model.keys.PageUp):
		model.feed.move(-5)
	case key.Matches(message, model.keys.PageDown):
		model.feed.move(5)
	case key.Matches(message, model.keys.Home):
		model.feed.move(-len(model.feed.results))
	case key.Matches(message, model.keys.End):
		model.feed.move(len(model.feed.results))

	case key.Matches(message, model.keys.FilterActivate):
		model.focusRegion = FocusFilter
		model.feed.filter.Active = true
		model.feed.cursor = 0
		model.feed.selectedID = 0
		model.feed.applyFilter()

	case key.Matches(message, model.keys.FilterClear):
		if model.feed.filter.Input != "" {
			model.feed.filter.Clear()
			model.feed.applyFilter()
		}

	case key.Matches(message, model.keys.Like):
		if post, ok := model.feed.selected(); ok {
			return model.likePost(post.ID)
		}

	case key.Matches(message, model.keys.Open):
		if post, ok := model.feed.selected(); ok {
			return model.openThread(post.ID)
		}

	case key.Matches(message, model.keys.NewPost):
		model.openCompose(composeTarget{kind: composePost}, "New post")

	case key.Matches(message, model.keys.LoadMore):
		if model.feed.pages.HasMore() && !model.feed.loadingMore {
			model.feed.loadingMore = true
			model.feed.loadMoreError = ""
			return model, tea.Batch(model.loadMore(), model.feed.spinner.Tick)
		}

	case key.Matches(message, model.keys.Refresh):
		return model, model.loadFeed(true)

	case key.Matches(message, model.keys.ToggleLeaderboard):
		model.showLeaderboard = !model.showLeaderboard

	case key.Matches(message, model.keys.Login):
		model.screen = ScreenLogin
	}
	return model, nil
}

func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		if model.feed.filter.Input != "" {
			model.feed.filter.Clear()
		} else {
			model.feed.filter.Active = false
		}
		model.focusRegion = FocusMain
	case tea.KeyEnter:
		model.feed.filter.Active = false
		model.focusRegion = FocusMain
		return model, nil
	case tea.KeyBackspace:
		if !model.feed.filter.HandleBackspace() {
			return model, nil
		}
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			model.feed.filter.HandleRune(character)
		}
	default:
		return model, nil
	}
	model.feed.cursor = 0
	model.feed.selectedID = 0
	model.feed.applyFilter()
	return model, nil
}

// likePost toggles a like. The store applies the optimistic flip to the
// cache before sending, so the change shows through the subscription
// while the request is in flight.
func (model Model) likePost(postID int64) (tea.Model, tea.Cmd) {
	delete(model.feed.errors, postID)
	if model.thread != nil && model.thread.PostID == postID {
		model.thread.postError = ""
	}
	ctx, store := model.ctx, model.store
	return model, func() tea.Msg {
		_, err := store.TogglePostLike(ctx, postID)
		return likeResultMsg{postID: postID, err: err}
	}
}

func (model Model) likeComment(postID, commentID int64) (tea.Model, tea.Cmd) {
	delete(model.thread.errors, commentID)
	ctx, store := model.ctx, model.store
	return model, func() tea.Msg {
		_, err := store.ToggleCommentLike(ctx, postID, commentID)
		return likeResultMsg{postID: postID, commentID: commentID, err: err}
	}
}

func (model Model) handleLikeResult(message likeResultMsg) (tea.Model, tea.Cmd) {
	model.syncAll()
	if message.err == nil {
		return model, nil
	}
	text := likeErrorText(message.err)
	switch {
	case message.commentID != 0:
		if model.thread != nil && model.thread.PostID == message.postID {
			model.thread.errors[message.commentID] = text
			model.thread.render(model.theme, model.clock.Now())
		}
	default:
		model.feed.errors[message.postID] = text
		if model.thread != nil && model.thread.PostID == message.postID {
			model.thread.postError = text
			model.thread.render(model.theme, model.clock.Now())
		}
	}
	return model, nil
}

func likeErrorText(err error) string {
	switch {
	case errors.Is(err, pulse.ErrPending):
		return "Still posting, try again in a moment"
	case pulseapi.IsUnauthorized(err):
		return "Log in to like (L)"
	default:
		return "Like failed: " + describeError(err)
	}
}

// --- Thread screen ---

func (model Model) openThread(postID int64) (tea.Model, tea.Cmd) {
	if pulse.IsLocalID(postID) {
		model.feed.errors[postID] = "Still posting, try again in a moment"
		return model, nil
	}
	if model.thread != nil {
		model.thread.close()
	}
	cache := model.store.Cache()
	section := newCommentSection(postID, cache.Subscribe(query.PostKey(postID)), model.theme)
	model.thread = section
	model.screen = ScreenThread
	model.resizeThread()
	now := model.clock.Now()
	section.sync(cache, now)
	section.render(model.theme, now)
	return model, tea.Batch(
		model.loadThread(postID, false),
		listenForChange(section.subscription),
		section.spinner.Tick,
	)
}

func (model *Model) closeThread() {
	if model.thread != nil {
		model.thread.close()
		model.thread = nil
	}
	model.screen = ScreenFeed
}

func (model *Model) resizeThread() {
	if model.thread != nil {
		model.thread.setSize(model.width, max(model.height-chromeRows, 1))
		model.thread.render(model.theme, model.clock.Now())
	}
}

func (model Model) handleThreadKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	section := model.thread
	now := model.clock.Now()
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Back):
		model.closeThread()
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		// Doubles as the retry affordance on the error panel.
		return model, model.loadThread(section.PostID, true)
	}

	if !section.hasPost {
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Up):
		section.move(-1)
	case key.Matches(message, model.keys.Down):
		section.move(1)
	case key.Matches(message, model.keys.PageUp):
		section.viewport.HalfViewUp()
		return model, nil
	case key.Matches(message, model.keys.PageDown):
		section.viewport.HalfViewDown()
		return model, nil
	case key.Matches(message, model.keys.Home):
		section.move(-len(section.order))
	case key.Matches(message, model.keys.End):
		section.move(len(section.order))

	case key.Matches(message, model.keys.Like):
		if comment, ok := section.selectedComment(); ok {
			return model.likeComment(section.PostID, comment.ID)
		}
		return model.likePost(section.PostID)

	case key.Matches(message, model.keys.Comment):
		model.openCompose(composeTarget{kind: composeComment, postID: section.PostID}, "Comment on "+section.post.Author.Username+"'s post")

	case key.Matches(message, model.keys.Reply):
		comment, ok := section.selectedComment()
		if !ok {
			model.openCompose(composeTarget{kind: composeComment, postID: section.PostID}, "Comment on "+section.post.Author.Username+"'s post")
			break
		}
		if pulse.IsLocalID(comment.ID) {
			section.errors[comment.ID] = "Still sending, try again in a moment"
			break
		}
		model.openCompose(composeTarget{kind: composeReply, postID: section.PostID, parentID: comment.ID}, "Reply to "+comment.Author.Username)
	}
	section.render(model.theme, now)
	return model, nil
}

// --- Compose modal ---

func (model *Model) openCompose(target composeTarget, title string) {
	modal := tui.NewComposeModal(title, model.theme)
	switch target.kind {
	case composePost:
		modal.Placeholder = "What's happening?"
	default:
		modal.Placeholder = "Write a comment…"
	}
	model.compose = &modal
	model.composeTarget = target
	model.composePending = false
	model.focusRegion = FocusCompose
}

func (model *Model) closeCompose() {
	model.compose = nil
	model.composePending = false
	model.focusRegion = FocusMain
}

// handleComposeKeys edits the draft or submits it. Posts and top-level
// comments close the modal on submit and reopen it with the draft if
// the request fails. Replies keep the modal open until the server
// confirms.
func (model Model) handleComposeKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.composePending {
		return model, nil
	}
	switch model.compose.Update(message) {
	case tui.ComposeCancel:
		model.closeCompose()
		return model, nil

	case tui.ComposeSubmit:
		draft := model.compose.Value()
		target := model.composeTarget
		if model.compose.Empty() {
			model.compose.SetError("Write something first.")
			return model, nil
		}
		ctx, store := model.ctx, model.store

		switch target.kind {
		case composePost:
			model.closeCompose()
			return model, func() tea.Msg {
				_, err := store.CreatePost(ctx, draft)
				return postCreatedMsg{draft: draft, err: err}
			}
		case composeComment:
			model.closeCompose()
			return model, func() tea.Msg {
				_, err := store.AddComment(ctx, target.postID, draft)
				return commentCreatedMsg{target: target, draft: draft, err: err}
			}
		default:
			model.composePending = true
			model.compose.SetError("")
			return model, func() tea.Msg {
				_, err := store.Reply(ctx, target.postID, target.parentID, draft)
				return commentCreatedMsg{target: target, draft: draft, err: err}
			}
		}
	}
	return model, nil
}

func (model Model) handlePostCreated(message postCreatedMsg) (tea.Model, tea.Cmd) {
	model.syncAll()
	if message.err == nil {
		return model.showStatus("Posted.", slog.LevelInfo)
	}
	model.reopenCompose(composeTarget{kind: composePost}, "New post", message.draft, message.err)
	return model, nil
}

func (model Model) handleCommentCreated(message commentCreatedMsg) (tea.Model, tea.Cmd) {
	model.syncAll()
	target := message.target
	if target.kind == composeReply {
		if message.err == nil {
			if model.compose != nil && model.composeTarget == target {
				model.closeCompose()
			}
			return model, nil
		}
		if model.compose != nil && model.composeTarget == target {
			model.composePending = false
			model.compose.SetValue(message.draft)
			model.compose.SetError(submitErrorText(message.err))
			return model, nil
		}
	}
	if message.err == nil {
		return model, nil
	}
	if model.thread == nil || model.thread.PostID != target.postID {
		return model.showStatus("Comment failed: "+describeError(message.err), slog.LevelWarn)
	}
	title := "Comment on " + model.thread.post.Author.Username + "'s post"
	if target.kind == composeReply {
		title = "Reply"
	}
	model.reopenCompose(target, title, message.draft, message.err)
	return model, nil
}

// reopenCompose brings a failed submission back with its text. A modal
// opened since then is left alone.
func (model *Model) reopenCompose(target composeTarget, title, draft string, err error) {
	if model.compose != nil {
		return
	}
	model.openCompose(target, title)
	model.compose.SetValue(draft)
	model.compose.SetError(submitErrorText(err))
}

func submitErrorText(err error) string {
	switch {
	case pulse.IsValidation(err):
		return err.Error()
	case pulseapi.IsUnauthorized(err):
		return "Authentication required. Log in with L."
	default:
		return "Failed to send: " + describeError(err)
	}
}

// --- Login screen ---

func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if message.Type == tea.KeyEsc {
		model.screen = ScreenFeed
		return model, nil
	}
	if model.login.pending {
		return model, nil
	}
	form, command, submit := model.login.update(message)
	model.login = form
	if !submit {
		return model, command
	}

	model.login.pending = true
	model.login.failed = false
	model.login.notice = ""
	credentials := model.login.Credentials()
	ctx, store := model.ctx, model.store
	return model, func() tea.Msg {
		session, err := store.Login(ctx, credentials)
		return loginResultMsg{session: session, err: err}
	}
}

func (model Model) handleLoginResult(message loginResultMsg) (tea.Model, tea.Cmd) {
	model.login.pending = false
	if message.err != nil {
		model.login.failed = true
		switch {
		case pulse.IsValidation(message.err):
			model.login.notice = "Enter a username and password."
		case pulseapi.IsUnauthorized(message.err):
			model.login.notice = "Invalid username or password."
		default:
			model.login.notice = "Login failed: " + describeError(message.err)
		}
		return model, nil
	}
	model.login.failed = false
	model.login.notice = "Logged in as " + message.session.Username + "."
	model.screen = ScreenFeed
	model.feed.errors = make(map[int64]string)
	// Like flags are per viewer, so reload what is on screen.
	return model, tea.Batch(model.loadFeed(true), model.loadLeaderboard())
}

// --- View ---

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}
	bodyHeight := max(model.height-chromeRows, 1)
	now := model.clock.Now()

	var header, body string
	switch model.screen {
	case ScreenLogin:
		header = model.renderHeader("Log in")
		body = model.login.view(model.theme, model.store.Username(), model.width, bodyHeight)
	case ScreenThread:
		header = model.renderHeader("Comments")
		body = model.thread.view(model.theme)
	default:
		header = model.renderHeader("Feed")
		if filterBar := model.feed.filter.View(model.theme, model.width); filterBar != "" {
			header = filterBar
		}
		body = model.renderFeed(bodyHeight, now)
	}

	separator := lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", model.width))
	body = lipgloss.NewStyle().Width(model.width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	output := strings.Join([]string{header, body, separator, model.renderHelp()}, "\n")

	if model.compose != nil {
		lines, anchorX, anchorY := model.compose.Render(model.width, model.height)
		output = tui.SpliceOverlay(output, lines, anchorX, anchorY)
	}
	return output
}

func (model Model) renderFeed(height int, now time.Time) string {
	if !model.showLeaderboard {
		return model.feed.render(model.theme, model.width, height, model.heat, now)
	}
	if model.width < sideBySideMinWidth {
		board := renderLeaderboard(model.theme, model.leaderboard, model.width)
		boardHeight := min(lipgloss.Height(board)+1, height/2)
		feed := model.feed.render(model.theme, model.width, height-boardHeight, model.heat, now)
		return lipgloss.NewStyle().Height(boardHeight).MaxHeight(boardHeight).Render(board) + "\n" + feed
	}
	feedWidth := model.width - leaderboardWidth - 1
	feed := model.feed.render(model.theme, feedWidth, height, model.heat, now)
	divider := lipgloss.NewStyle().Foreground(model.theme.BorderColor).
		Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
	board := renderLeaderboard(model.theme, model.leaderboard, leaderboardWidth-1)
	return lipgloss.JoinHorizontal(lipgloss.Top, feed, divider, " "+strings.ReplaceAll(board, "\n", "\n "))
}

func (model Model) renderHeader(section string) string {
	user := "anonymous"
	if client := model.store.Client(); client.Authenticated() {
		user = client.Username()
	}
	brand := lipgloss.NewStyle().Foreground(model.theme.Accent).Bold(true).Render(" Pulse")
	rule := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	text := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground)
	line := brand + rule.Render(" ── ") + text.Render(section) + rule.Render(" ── ") +
		lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(user)
	return lipgloss.NewStyle().Width(model.width).MaxWidth(model.width).Render(line)
}

func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	var help string
	switch {
	case model.focusRegion == FocusCompose:
		help = " Ctrl+D send  Esc cancel"
		if model.composePending {
			help = " Sending…"
		}
	case model.focusRegion == FocusFilter:
		help = " type to filter  Enter keep  Esc clear"
	case model.screen == ScreenThread:
		help = " q quit  Esc back  ↑↓ move  l like  c comment  a reply  r refresh"
	case model.screen == ScreenLogin:
		help = " Tab switch field  Enter log in  Esc back"
	default:
		help = " q quit  ↑↓ move  ⏎ comments  l like  n post  m more  / filter  b board  L login  r refresh"
	}

	if model.status != "" {
		statusStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		if model.statusLevel >= slog.LevelWarn {
			statusStyle = lipgloss.NewStyle().Foreground(model.theme.ErrorText).Bold(true)
		}
		help += "  " + statusStyle.Render(model.status)
	} else if model.screen == ScreenFeed && len(model.feed.results) > 0 {
		help += fmt.Sprintf("  %d/%d", model.feed.cursor+1, len(model.feed.results))
	}
	return lipgloss.NewStyle().MaxWidth(model.width).Render(style.Render(help))
}
