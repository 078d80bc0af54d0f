package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/internal/utils"
)

type UserHandler struct {
	authService *service.AuthService
	postService *service.PostService
}

func NewUserHandler(authService *service.AuthService, postService *service.PostService) *UserHandler {
	return &UserHandler{authService: authService, postService: postService}
}

// Me returns the current user's profile.
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	postCount, err := h.postService.CountPublishedByAuthor(actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       newUserResponse(user),
		"post_count": postCount,
	})
}

// Posts returns a user's published posts.
// GET /api/users/:id/posts
func (h *UserHandler) Posts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.authService.GetUser(id); err != nil {
		respondError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	posts, total, err := h.postService.ListPublishedByAuthor(id, params.Offset, params.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pagination": utils.GetPaginationResult(params, total),
		"results":    newPostResponses(posts),
	})
}
