// Package gateway is the only component that talks to the backend. One
// attempt per intent: no retries, no timeouts beyond transport defaults.
package gateway

import (
	"context"
	"net/http"

	"resty.dev/v3"

	"microblog-lite/internal/model"
)

const sessionCookie = "token"

// TokenSource supplies the current session token, empty when anonymous.
type TokenSource interface {
	Token() string
}

type Gateway struct {
	client *resty.Client
	tokens TokenSource
}

func New(baseURL string, tokens TokenSource) *Gateway {
	client := resty.New().SetBaseURL(baseURL)
	return &Gateway{client: client, tokens: tokens}
}

func (g *Gateway) Close() error {
	return g.client.Close()
}

// r builds a request with the session credential attached, the way the
// browser sends its cookie on every credentialed call.
func (g *Gateway) r(ctx context.Context) *resty.Request {
	req := g.client.R().WithContext(ctx)
	if tok := g.tokens.Token(); tok != "" {
		req.SetCookie(&http.Cookie{Name: sessionCookie, Value: tok})
	}
	return req
}

type errorBody struct {
	Error string `json:"error"`
}

// check folds a resty outcome into the error taxonomy.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return &NetworkError{Err: err}
	}
	if resp.IsError() {
		msg := ""
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			msg = body.Error
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

func (g *Gateway) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	resp, err := g.r(ctx).
		SetResult(&posts).
		SetError(&errorBody{}).
		Get("/app/article")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return posts, nil
}

type createEnvelope struct {
	Article model.Post `json:"article"`
}

func (g *Gateway) CreatePost(ctx context.Context, title, description, author string) (model.Post, error) {
	var out createEnvelope
	resp, err := g.r(ctx).
		SetBody(map[string]string{
			"title":       title,
			"description": description,
			"author":      author,
		}).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/app/save")
	if err := check(resp, err); err != nil {
		return model.Post{}, err
	}
	return out.Article, nil
}

func (g *Gateway) UpdatePost(ctx context.Context, id, title, description, author string) (model.Post, error) {
	var out model.Post
	resp, err := g.r(ctx).
		SetBody(map[string]string{
			"_id":         id,
			"title":       title,
			"description": description,
			"author":      author,
		}).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/app/update")
	if err := check(resp, err); err != nil {
		return model.Post{}, err
	}
	return out, nil
}

// DeletePost returns the deleted id echoed back by the backend.
func (g *Gateway) DeletePost(ctx context.Context, id, author string) (string, error) {
	var deleted string
	resp, err := g.r(ctx).
		SetBody(map[string]string{"_id": id, "author": author}).
		SetResult(&deleted).
		SetError(&errorBody{}).
		Post("/app/delete")
	if err := check(resp, err); err != nil {
		return "", err
	}
	return deleted, nil
}

type registerEnvelope struct {
	User model.User `json:"user"`
}

func (g *Gateway) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	var out registerEnvelope
	resp, err := g.r(ctx).
		SetBody(reg).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/auth/register")
	if err := check(resp, err); err != nil {
		return model.User{}, err
	}
	return out.User, nil
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (g *Gateway) Login(ctx context.Context, username, password string) (string, model.User, error) {
	var out loginResponse
	resp, err := g.r(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/auth/login")
	if err := check(resp, err); err != nil {
		return "", model.User{}, err
	}
	return out.Token, out.User, nil
}

func (g *Gateway) Logout(ctx context.Context) error {
	resp, err := g.r(ctx).
		SetError(&errorBody{}).
		Post("/auth/logout")
	return check(resp, err)
}

func (g *Gateway) GetUser(ctx context.Context) (model.User, error) {
	var out model.User
	resp, err := g.r(ctx).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/app/getUser")
	if err := check(resp, err); err != nil {
		return model.User{}, err
	}
	return out, nil
}
