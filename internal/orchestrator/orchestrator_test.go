package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"microblog-lite/internal/auth"
	"microblog-lite/internal/gateway"
	"microblog-lite/internal/model"
	"microblog-lite/internal/server"
	"microblog-lite/internal/session"
	"microblog-lite/internal/state"
	"microblog-lite/internal/store"
)

type fixture struct {
	orch    *Orchestrator
	posts   *state.PostStore
	session *state.SessionStore
	tokens  *session.File
	backend *httptest.Server
}

func newFixture(t *testing.T, policy state.UpdatePolicy) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := server.NewRouter(server.Deps{
		Store:       store.New(),
		TokenConfig: auth.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"},
	})
	backend := httptest.NewServer(router)
	t.Cleanup(backend.Close)

	tokens, err := session.Open("")
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}

	gw := gateway.New(backend.URL, tokens)
	t.Cleanup(func() { _ = gw.Close() })

	posts := state.NewPostStore(policy, true)
	sess := state.NewSessionStore(tokens.Token() != "")

	return &fixture{
		orch:    New(gw, posts, sess, tokens),
		posts:   posts,
		session: sess,
		tokens:  tokens,
		backend: backend,
	}
}

func (f *fixture) signUp(t *testing.T, username string) {
	t.Helper()
	ctx := context.Background()

	f.orch.Register(ctx, model.Registration{
		Name: "A", Surname: "B", Email: username + "@example.com",
		Username: username, Password: "pw123",
	})
	if f.session.Status() != state.StatusSucceeded {
		t.Fatalf("register failed: %q", f.session.Error())
	}

	f.orch.Login(ctx, username, "pw123")
	if !f.session.Authenticated() {
		t.Fatalf("login failed: %q", f.session.Error())
	}
}

func TestLogin_ValidAndInvalid(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	ctx := context.Background()

	f.orch.Register(ctx, model.Registration{
		Name: "A", Surname: "B", Email: "alice@example.com",
		Username: "alice", Password: "pw123",
	})

	f.orch.Login(ctx, "alice", "wrong")
	if f.session.Authenticated() {
		t.Fatalf("expected authenticated=false for bad credentials")
	}
	if f.session.Error() != "Invalid username or password" {
		t.Fatalf("expected backend message, got %q", f.session.Error())
	}
	if f.tokens.Token() != "" {
		t.Fatalf("expected no token after failed login")
	}

	f.orch.Login(ctx, "alice", "pw123")
	if !f.session.Authenticated() {
		t.Fatalf("expected authenticated=true")
	}
	if f.tokens.Token() == "" {
		t.Fatalf("expected session token stored")
	}
	if u, ok := f.session.User(); !ok || u.Username != "alice" {
		t.Fatalf("expected user profile, got %+v ok=%v", u, ok)
	}
}

func TestLogout_ClearsSessionEvenOnBackendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// backend that rejects logout with a 500
	router := server.NewRouter(server.Deps{
		Store:       store.New(),
		TokenConfig: auth.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"},
	})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/logout") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		router.ServeHTTP(w, r)
	}))
	defer backend.Close()

	tokens, _ := session.Open("")
	gw := gateway.New(backend.URL, tokens)
	defer gw.Close()
	sess := state.NewSessionStore(false)
	orch := New(gw, state.NewPostStore(state.UpdateAppend, true), sess, tokens)

	ctx := context.Background()
	orch.Register(ctx, model.Registration{
		Name: "A", Surname: "B", Email: "alice@example.com",
		Username: "alice", Password: "pw123",
	})
	orch.Login(ctx, "alice", "pw123")
	if !sess.Authenticated() {
		t.Fatalf("login failed: %q", sess.Error())
	}

	orch.Logout(ctx)
	if sess.Authenticated() {
		t.Fatalf("expected anonymous after logout despite backend error")
	}
	if tokens.Token() != "" {
		t.Fatalf("expected token cleared despite backend error")
	}
}

func TestCreateThenRefresh_ExactList(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	f.signUp(t, "alice")
	ctx := context.Background()

	f.orch.Create(ctx, "Hello", "World")
	if st := f.posts.StatusOf(state.OpCreate); st != state.StatusSucceeded {
		t.Fatalf("create failed: %q", f.posts.ErrorOf(state.OpCreate))
	}
	f.orch.Wait()

	items := f.posts.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one post after refresh, got %+v", items)
	}
	p := items[0]
	if p.Title != "Hello" || p.Description != "World" || p.Author != "alice" || p.ID == "" {
		t.Fatalf("unexpected post: %+v", p)
	}
	if st := f.posts.StatusOf(state.OpList); st != state.StatusSucceeded {
		t.Fatalf("expected list succeeded after refresh")
	}
}

// A mutation's context is typically an HTTP request's and gets canceled
// as soon as the handler returns; the follow-up refresh must be immune.
func TestCreateRefreshSurvivesCanceledContext(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	f.signUp(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())
	f.orch.Create(ctx, "Hello", "World")
	cancel()
	f.orch.Wait()

	if st := f.posts.StatusOf(state.OpList); st != state.StatusSucceeded {
		t.Fatalf("expected refresh to survive cancellation, got %s (%q)",
			st, f.posts.ErrorOf(state.OpList))
	}
	if items := f.posts.Items(); len(items) != 1 || items[0].Title != "Hello" {
		t.Fatalf("expected converged list, got %+v", items)
	}
}

func TestDeleteThenRefresh_Excluded(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	f.signUp(t, "alice")
	ctx := context.Background()

	f.orch.Create(ctx, "keep", "d")
	f.orch.Create(ctx, "drop", "d")
	f.orch.Wait()

	var dropID string
	for _, p := range f.posts.Items() {
		if p.Title == "drop" {
			dropID = p.ID
		}
	}
	if dropID == "" {
		t.Fatalf("missing post to delete: %+v", f.posts.Items())
	}

	f.orch.Delete(ctx, dropID)
	f.orch.Wait()

	for _, p := range f.posts.Items() {
		if p.ID == dropID {
			t.Fatalf("deleted id still present after refresh: %+v", f.posts.Items())
		}
	}
	if len(f.posts.Items()) != 1 {
		t.Fatalf("expected one remaining post, got %+v", f.posts.Items())
	}
}

func TestConcurrentDeletes_BothConverge(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	f.signUp(t, "alice")
	ctx := context.Background()

	f.orch.Create(ctx, "a", "d")
	f.orch.Create(ctx, "b", "d")
	f.orch.Create(ctx, "c", "d")
	f.orch.Wait()

	var ids []string
	for _, p := range f.posts.Items() {
		if p.Title != "c" {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) != 2 {
		t.Fatalf("expected two deletable posts, got %+v", f.posts.Items())
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			f.orch.Delete(ctx, id)
		}(id)
	}
	wg.Wait()
	f.orch.Wait()

	items := f.posts.Items()
	if len(items) != 1 || items[0].Title != "c" {
		t.Fatalf("expected only c to survive, got %+v", items)
	}
}

// Documents the update policies: under replace the collection converges
// without ever duplicating; the append policy's transient duplicate is
// covered at the store level.
func TestUpdate_ReplacePolicyConverges(t *testing.T) {
	f := newFixture(t, state.UpdateReplace)
	f.signUp(t, "alice")
	ctx := context.Background()

	f.orch.Create(ctx, "before", "d")
	f.orch.Wait()
	id := f.posts.Items()[0].ID

	f.orch.Update(ctx, id, "after", "d2")
	if st := f.posts.StatusOf(state.OpUpdate); st != state.StatusSucceeded {
		t.Fatalf("update failed: %q", f.posts.ErrorOf(state.OpUpdate))
	}
	f.orch.Wait()

	items := f.posts.Items()
	if len(items) != 1 || items[0].Title != "after" {
		t.Fatalf("expected single updated entry, got %+v", items)
	}
}

func TestUpdate_AppendPolicyConvergesAfterRefresh(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	f.signUp(t, "alice")
	ctx := context.Background()

	f.orch.Create(ctx, "before", "d")
	f.orch.Wait()
	id := f.posts.Items()[0].ID

	f.orch.Update(ctx, id, "after", "d2")
	f.orch.Wait()

	// the interim duplicate is superseded by the refresh
	items := f.posts.Items()
	if len(items) != 1 || items[0].Title != "after" {
		t.Fatalf("expected convergence to single updated entry, got %+v", items)
	}
}

func TestFailedMutation_NoLocalChange(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	f.signUp(t, "alice")
	ctx := context.Background()

	f.orch.Create(ctx, "keep", "d")
	f.orch.Wait()

	f.orch.Delete(ctx, "no-such-id")
	if st := f.posts.StatusOf(state.OpDelete); st != state.StatusFailed {
		t.Fatalf("expected delete failed, got %s", st)
	}
	if f.posts.ErrorOf(state.OpDelete) != "Post not found" {
		t.Fatalf("expected backend message, got %q", f.posts.ErrorOf(state.OpDelete))
	}
	f.orch.Wait()

	if len(f.posts.Items()) != 1 {
		t.Fatalf("failed delete must not change the collection: %+v", f.posts.Items())
	}
}

func TestRefresh_Unauthenticated_Fails(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	ctx := context.Background()

	f.orch.Refresh(ctx)
	if st := f.posts.StatusOf(state.OpList); st != state.StatusFailed {
		t.Fatalf("expected list failed without credentials, got %s", st)
	}
	if f.posts.ErrorOf(state.OpList) == "" {
		t.Fatalf("expected error message recorded")
	}
}

func TestFetchUser(t *testing.T) {
	f := newFixture(t, state.UpdateAppend)
	f.signUp(t, "alice")

	f.orch.FetchUser(context.Background())
	if u, ok := f.session.User(); !ok || u.Email != "alice@example.com" {
		t.Fatalf("expected profile fetched, got %+v ok=%v", u, ok)
	}
}
