// Package view is the presentation layer: four routes rendered
// server-side, forms dispatching intents to the orchestrator. Views
// never mutate the stores directly.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"microblog-lite/internal/config"
	"microblog-lite/internal/model"
	"microblog-lite/internal/orchestrator"
	"microblog-lite/internal/state"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Deps struct {
	Orchestrator *orchestrator.Orchestrator
	Posts        *state.PostStore
	Session      *state.SessionStore
}

type handlers struct {
	orch    *orchestrator.Orchestrator
	posts   *state.PostStore
	session *state.SessionStore
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	h := &handlers{orch: deps.Orchestrator, posts: deps.Posts, session: deps.Session}

	r.GET("/", h.landing)
	r.GET("/list", h.list)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.POST("/logout", h.logout)

	r.GET("/posts/new", h.newPost)
	r.GET("/posts/:id/edit", h.editPost)
	r.POST("/posts/save", h.save)
	r.POST("/posts/update", h.update)
	r.POST("/posts/delete", h.remove)

	return r
}

func NewHTTPServer(cfg config.ClientConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func Run(cfg config.ClientConfig, handler http.Handler) error {
	return NewHTTPServer(cfg, handler).ListenAndServe()
}

type formData struct {
	IsEditing   bool
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

type pageData struct {
	Authenticated bool
	Username      string
	Status        state.Status
	Error         string
	Posts         []postView
	Form          formData
}

type postView struct {
	ID          string
	Title       string
	Description string
	Author      string
	CreatedAt   time.Time
}

func (h *handlers) page() pageData {
	return pageData{
		Authenticated: h.session.Authenticated(),
		Username:      h.session.Username(),
	}
}

func (h *handlers) landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.tmpl", h.page())
}

// list fetches only when authenticated; anonymous visitors just see the
// empty-list message.
func (h *handlers) list(c *gin.Context) {
	ctx := c.Request.Context()
	if h.session.Authenticated() {
		if _, ok := h.session.User(); !ok {
			h.orch.FetchUser(ctx)
		}
		h.orch.Refresh(ctx)
	}

	data := h.page()
	data.Status = h.posts.StatusOf(state.OpList)
	data.Error = h.posts.ErrorOf(state.OpList)
	for _, p := range h.posts.Items() {
		data.Posts = append(data.Posts, postView(p))
	}
	c.HTML(http.StatusOK, "list.tmpl", data)
}

func (h *handlers) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", h.page())
}

func (h *handlers) login(c *gin.Context) {
	h.orch.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if !h.session.Authenticated() {
		data := h.page()
		data.Error = h.session.Error()
		c.HTML(http.StatusUnauthorized, "login.tmpl", data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/list")
}

func (h *handlers) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", h.page())
}

func (h *handlers) register(c *gin.Context) {
	h.orch.Register(c.Request.Context(), registrationFromForm(c))
	if h.session.Status() == state.StatusFailed {
		data := h.page()
		data.Error = h.session.Error()
		c.HTML(http.StatusBadRequest, "register.tmpl", data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func registrationFromForm(c *gin.Context) model.Registration {
	return model.Registration{
		Name:     c.PostForm("name"),
		Surname:  c.PostForm("surname"),
		Email:    c.PostForm("email"),
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}
}

func (h *handlers) logout(c *gin.Context) {
	h.orch.Logout(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) newPost(c *gin.Context) {
	data := h.page()
	data.Form = formData{CreatedAt: time.Now()}
	c.HTML(http.StatusOK, "postform.tmpl", data)
}

func (h *handlers) editPost(c *gin.Context) {
	post, ok := h.posts.Find(c.Param("id"))
	if !ok {
		c.Redirect(http.StatusSeeOther, "/list")
		return
	}

	data := h.page()
	data.Form = formData{
		IsEditing:   true,
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		CreatedAt:   post.CreatedAt,
	}
	c.HTML(http.StatusOK, "postform.tmpl", data)
}

func (h *handlers) save(c *gin.Context) {
	h.orch.Create(c.Request.Context(), c.PostForm("title"), c.PostForm("description"))
	c.Redirect(http.StatusSeeOther, "/list")
}

func (h *handlers) update(c *gin.Context) {
	h.orch.Update(c.Request.Context(), c.PostForm("_id"), c.PostForm("title"), c.PostForm("description"))
	c.Redirect(http.StatusSeeOther, "/list")
}

func (h *handlers) remove(c *gin.Context) {
	h.orch.Delete(c.Request.Context(), c.PostForm("_id"))
	c.Redirect(http.StatusSeeOther, "/list")
}
