package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"microblog-lite/internal/middleware"
	"microblog-lite/internal/store"
)

type PostHandler struct {
	Store *store.Store
}

type savePostBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

type updatePostBody struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

type deletePostBody struct {
	ID     string `json:"_id"`
	Author string `json:"author"`
}

func (h *PostHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.ListPosts())
}

func (h *PostHandler) Save(c *gin.Context) {
	username, ok := middleware.UsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	var body savePostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	// posts are attributed to the session, whatever author the form sent
	if body.Author != "" && body.Author != username {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot post as another user"})
		return
	}

	post := h.Store.CreatePost(body.Title, body.Description, username, time.Now())
	c.JSON(http.StatusOK, gin.H{"article": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	username, ok := middleware.UsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	var body updatePostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.ID == "" || body.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	post, err := h.Store.UpdatePost(body.ID, body.Title, body.Description, username)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, store.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot edit another user's post"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete echoes the deleted id back as the response body.
func (h *PostHandler) Delete(c *gin.Context) {
	username, ok := middleware.UsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	var body deletePostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	if err := h.Store.DeletePost(body.ID, username); err != nil {
		switch {
		case errors.Is(err, store.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, store.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete another user's post"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed"})
		}
		return
	}

	c.JSON(http.StatusOK, body.ID)
}

func (h *PostHandler) GetUser(c *gin.Context) {
	username, ok := middleware.UsernameFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}

	acc, ok := h.Store.GetAccount(username)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, acc.User)
}
