package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CreateCommentRequest struct {
	PostID  uuid.UUID `json:"post_id" binding:"required"`
	Content string    `json:"content" binding:"required"`
}

// Create files a comment, which starts PENDING until moderated.
// POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	comment, err := h.commentService.CreateComment(actor, req.PostID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment submitted for moderation",
		"comment": gin.H{
			"id":         comment.ID,
			"post_id":    comment.PostID,
			"content":    comment.Content,
			"status":     comment.Status,
			"created_at": comment.CreatedAt,
		},
	})
}

// Approve marks a PENDING comment APPROVED.
// POST /api/comments/:id/approve
func (h *CommentHandler) Approve(c *gin.Context) {
	h.moderate(c, h.commentService.Approve, "Comment approved successfully")
}

// Reject marks a PENDING comment REJECTED.
// POST /api/comments/:id/reject
func (h *CommentHandler) Reject(c *gin.Context) {
	h.moderate(c, h.commentService.Reject, "Comment rejected successfully")
}

func (h *CommentHandler) moderate(c *gin.Context, op func(service.Actor, uuid.UUID) (*models.Comment, error), message string) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := op(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"comment": gin.H{
			"id":     comment.ID,
			"status": comment.Status,
		},
	})
}
