// Package orchestrator runs one routine per user intent: call the
// gateway, fold the outcome into the stores, and after any mutation
// kick off the full-list refresh that restores consistency.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"

	"microblog-lite/internal/gateway"
	"microblog-lite/internal/model"
	"microblog-lite/internal/session"
	"microblog-lite/internal/state"
)

const (
	authFallbackMessage = "Error occurred during login"
	postFallbackMessage = "Error"
)

type Orchestrator struct {
	gw      *gateway.Gateway
	posts   *state.PostStore
	session *state.SessionStore
	tokens  *session.File
	log     *slog.Logger

	// tracks in-flight follow-up refreshes so tests can await convergence
	refreshes sync.WaitGroup
}

func New(gw *gateway.Gateway, posts *state.PostStore, sess *state.SessionStore, tokens *session.File) *Orchestrator {
	return &Orchestrator{
		gw:      gw,
		posts:   posts,
		session: sess,
		tokens:  tokens,
		log:     slog.Default(),
	}
}

// Refresh replaces the whole collection with the backend's list. Stale
// responses overtaken by a newer completed request are dropped.
func (o *Orchestrator) Refresh(ctx context.Context) {
	seq := o.posts.BeginList()

	posts, err := o.gw.ListPosts(ctx)
	if err != nil {
		o.posts.FailList(seq, gateway.Message(err, postFallbackMessage))
		o.log.Warn("list posts failed", "error", err)
		return
	}

	if !o.posts.CompleteList(seq, posts) {
		o.log.Debug("discarded stale list response", "seq", seq)
	}
}

func (o *Orchestrator) Create(ctx context.Context, title, description string) {
	o.posts.Begin(state.OpCreate)

	post, err := o.gw.CreatePost(ctx, title, description, o.session.Username())
	if err != nil {
		o.posts.Fail(state.OpCreate, gateway.Message(err, postFallbackMessage))
		o.log.Warn("create post failed", "error", err)
		return
	}

	o.posts.CompleteCreate(post)
	o.refreshAsync(ctx)
}

func (o *Orchestrator) Update(ctx context.Context, id, title, description string) {
	o.posts.Begin(state.OpUpdate)

	post, err := o.gw.UpdatePost(ctx, id, title, description, o.session.Username())
	if err != nil {
		o.posts.Fail(state.OpUpdate, gateway.Message(err, postFallbackMessage))
		o.log.Warn("update post failed", "id", id, "error", err)
		return
	}

	o.posts.CompleteUpdate(post)
	o.refreshAsync(ctx)
}

func (o *Orchestrator) Delete(ctx context.Context, id string) {
	o.posts.Begin(state.OpDelete)

	// the local filter trusts the request id, not the echoed response
	_, err := o.gw.DeletePost(ctx, id, o.session.Username())
	if err != nil {
		o.posts.Fail(state.OpDelete, gateway.Message(err, postFallbackMessage))
		o.log.Warn("delete post failed", "id", id, "error", err)
		return
	}

	o.posts.CompleteDelete(id)
	o.refreshAsync(ctx)
}

func (o *Orchestrator) Login(ctx context.Context, username, password string) {
	o.session.Begin()

	token, user, err := o.gw.Login(ctx, username, password)
	if err != nil {
		o.session.Failed(gateway.Message(err, authFallbackMessage))
		o.log.Warn("login failed", "username", username, "error", err)
		return
	}

	if err := o.tokens.SetToken(token); err != nil {
		o.log.Warn("persisting session token failed", "error", err)
	}
	o.session.LoginSucceeded(user)
}

func (o *Orchestrator) Register(ctx context.Context, reg model.Registration) {
	o.session.Begin()

	user, err := o.gw.Register(ctx, reg)
	if err != nil {
		o.session.Failed(gateway.Message(err, authFallbackMessage))
		o.log.Warn("register failed", "username", reg.Username, "error", err)
		return
	}

	o.session.RegisterSucceeded(user)
}

// Logout awaits the server call, then clears the local session no
// matter what came back. Server-side failures are logged, not surfaced.
func (o *Orchestrator) Logout(ctx context.Context) {
	o.session.Begin()

	if err := o.gw.Logout(ctx); err != nil {
		o.log.Warn("server logout failed, clearing local session anyway", "error", err)
	}

	if err := o.tokens.Clear(); err != nil {
		o.log.Warn("clearing session token failed", "error", err)
	}
	o.session.LoggedOut()
}

func (o *Orchestrator) FetchUser(ctx context.Context) {
	user, err := o.gw.GetUser(ctx)
	if err != nil {
		o.log.Warn("fetch user failed", "error", err)
		return
	}
	o.session.SetUser(user)
}

func (o *Orchestrator) refreshAsync(ctx context.Context) {
	// the refresh outlives the request that triggered it, so it must
	// not die with that request's context
	ctx = context.WithoutCancel(ctx)

	o.refreshes.Add(1)
	go func() {
		defer o.refreshes.Done()
		o.Refresh(ctx)
	}()
}

// Wait blocks until all follow-up refreshes kicked off so far settle.
func (o *Orchestrator) Wait() {
	o.refreshes.Wait()
}
