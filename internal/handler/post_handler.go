package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/internal/utils"
)

type PostHandler struct {
	postService    *service.PostService
	commentService *service.CommentService
}

func NewPostHandler(postService *service.PostService, commentService *service.CommentService) *PostHandler {
	return &PostHandler{postService: postService, commentService: commentService}
}

type CreatePostRequest struct {
	Title   string      `json:"title" binding:"required"`
	Content string      `json:"content" binding:"required"`
	Excerpt string      `json:"excerpt"`
	TagIDs  []uuid.UUID `json:"tag_ids"`
	Status  string      `json:"status"`
}

type UpdatePostRequest struct {
	Title   *string      `json:"title"`
	Content *string      `json:"content"`
	Excerpt *string      `json:"excerpt"`
	TagIDs  *[]uuid.UUID `json:"tag_ids"`
	Status  *string      `json:"status"`
}

type SharePostRequest struct {
	Platform string `json:"platform" binding:"required"`
}

// List returns a paginated page of posts visible to the caller.
// GET /api/posts?search=&status=&ordering=&page=&page_size=
func (h *PostHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	posts, total, err := h.postService.ListPosts(actorFrom(c), service.ListPostsInput{
		Search:   c.Query("search"),
		Status:   models.PostStatus(c.Query("status")),
		Ordering: c.Query("ordering"),
		Offset:   params.Offset,
		Limit:    params.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pagination": utils.GetPaginationResult(params, total),
		"results":    newPostResponses(posts),
	})
}

// Get returns a single post, bumping its view counter.
// GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, liked, err := h.postService.GetPost(actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := newPostResponse(post, true)
	if actorFrom(c) != nil {
		resp.IsLiked = &liked
	}
	c.JSON(http.StatusOK, resp)
}

// Create creates a post owned by the caller.
// POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	post, err := h.postService.CreatePost(actor, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		TagIDs:  req.TagIDs,
		Status:  models.PostStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPostResponse(post, true))
}

// Update modifies a post; only its author or an admin may do so.
// PUT /api/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	var status *models.PostStatus
	if req.Status != nil {
		s := models.PostStatus(*req.Status)
		status = &s
	}

	post, err := h.postService.UpdatePost(actor, id, service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		TagIDs:  req.TagIDs,
		Status:  status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPostResponse(post, true))
}

// Delete removes a post and everything it owns.
// DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.postService.DeletePost(actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Like likes a post; liking twice is a success no-op.
// POST /api/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	likeCount, err := h.postService.LikePost(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Post liked successfully",
		"like_count": likeCount,
	})
}

// Unlike removes the caller's like; a missing like is a success no-op.
// POST /api/posts/:id/unlike
func (h *PostHandler) Unlike(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	likeCount, err := h.postService.UnlikePost(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Post unliked successfully",
		"like_count": likeCount,
	})
}

// Share logs a share on the named platform.
// POST /api/posts/:id/share
func (h *PostHandler) Share(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SharePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("platform is required"))
		return
	}

	shareCount, err := h.postService.SharePost(actor, id, req.Platform)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Post shared successfully",
		"share_count": shareCount,
	})
}

// Analytics returns the engagement summary, author/admin only.
// GET /api/posts/:id/analytics
func (h *PostHandler) Analytics(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	analytics, err := h.postService.Analytics(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// Comments lists the post's comments visible to the caller.
// GET /api/posts/:id/comments
func (h *PostHandler) Comments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	comments, total, err := h.commentService.ListForPost(actorFrom(c), id, params.Offset, params.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pagination": utils.GetPaginationResult(params, total),
		"results":    newCommentResponses(comments),
	})
}
