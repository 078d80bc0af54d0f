package service

import (
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/permission"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/pkg/logger"
	"go.uber.org/zap"
)

const commentMinLength = 2

type CommentService struct {
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, postRepo *repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment files a new comment in PENDING state on a post visible to
// the actor.
func (s *CommentService) CreateComment(actor Actor, postID uuid.UUID, content string) (*models.Comment, error) {
	if len(content) < commentMinLength {
		return nil, apperr.Validation("comment content is too short")
	}

	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, apperr.Internal("failed to load post", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post not found")
	}

	owner := post.AuthorID == actor.UserID
	if !permission.Evaluate(actor.Role, permission.ActionPostRead, owner, post.Status).Allowed() {
		return nil, apperr.NotFound("post not found")
	}
	if !permission.Evaluate(actor.Role, permission.ActionCommentCreate, false, post.Status).Allowed() {
		return nil, apperr.Permission("you are not allowed to comment")
	}

	comment := &models.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: actor.UserID,
		Content:  content,
		Status:   models.CommentStatusPending,
	}

	if err := s.commentRepo.CreateComment(comment); err != nil {
		logger.Log.Error("Failed to create comment",
			zap.String("post_id", postID.String()),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to create comment", err)
	}

	return comment, nil
}

// ListForPost returns the comments on a post that viewer may see:
// moderators (the post's author, admins) see all, a comment's own author
// sees their pending/rejected comment, everyone else sees approved only.
func (s *CommentService) ListForPost(viewer *Actor, postID uuid.UUID, offset, limit int) ([]models.Comment, int64, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, 0, apperr.Internal("failed to load post", err)
	}
	if post == nil {
		return nil, 0, apperr.NotFound("post not found")
	}

	owner := viewer != nil && post.AuthorID == viewer.UserID
	if !permission.Evaluate(roleOf(viewer), permission.ActionPostRead, owner, post.Status).Allowed() {
		return nil, 0, apperr.NotFound("post not found")
	}

	moderator := owner || (viewer != nil && viewer.Role == models.RoleAdmin)
	comments, total, err := s.commentRepo.ListForPost(postID, viewer.Viewer(), moderator, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list comments", err)
	}

	return comments, total, nil
}

// Approve moves a PENDING comment to APPROVED.
func (s *CommentService) Approve(actor Actor, id uuid.UUID) (*models.Comment, error) {
	return s.moderate(actor, id, models.CommentStatusApproved)
}

// Reject moves a PENDING comment to REJECTED.
func (s *CommentService) Reject(actor Actor, id uuid.UUID) (*models.Comment, error) {
	return s.moderate(actor, id, models.CommentStatusRejected)
}

func (s *CommentService) moderate(actor Actor, id uuid.UUID, status models.CommentStatus) (*models.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(id)
	if err != nil {
		return nil, apperr.Internal("failed to load comment", err)
	}
	if comment == nil {
		return nil, apperr.NotFound("comment not found")
	}

	// Moderation rights follow ownership of the post, not of the comment.
	postOwner := comment.Post.AuthorID == actor.UserID
	if !permission.Evaluate(actor.Role, permission.ActionCommentModerate, postOwner, comment.Post.Status).Allowed() {
		return nil, apperr.Permission("only the post author or an admin may moderate comments")
	}

	// APPROVED and REJECTED are terminal.
	if comment.Status != models.CommentStatusPending {
		return nil, apperr.Conflict("comment has already been moderated")
	}

	if err := s.commentRepo.SetStatus(id, status); err != nil {
		logger.Log.Error("Failed to set comment status",
			zap.String("comment_id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to update comment", err)
	}

	logger.Log.Info("Comment moderated",
		zap.String("comment_id", id.String()),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.UserID.String()),
	)

	comment.Status = status
	return comment, nil
}
