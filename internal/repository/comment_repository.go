package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetCommentByID(id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").Preload("Post").Where("id = ?", id).First(&comment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &comment, nil
}

// ListForPost returns the page of comments on a post that viewer may see.
// Moderators of the post (its author, admins) see everything; everyone
// else sees approved comments plus their own pending/rejected ones, so a
// commenter can watch their comment await moderation.
func (r *CommentRepository) ListForPost(postID uuid.UUID, viewer *Viewer, moderator bool, offset, limit int) ([]models.Comment, int64, error) {
	q := r.db.Model(&models.Comment{}).Where("post_id = ?", postID)

	if !moderator {
		if viewer == nil {
			q = q.Where("status = ?", models.CommentStatusApproved)
		} else {
			q = q.Where("status = ? OR author_id = ?", models.CommentStatusApproved, viewer.UserID)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := q.
		Preload("Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error

	return comments, total, err
}

// SetStatus moves a comment into a terminal moderation state.
func (r *CommentRepository) SetStatus(id uuid.UUID, status models.CommentStatus) error {
	return r.db.Model(&models.Comment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *CommentRepository) CountApproved(postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("post_id = ? AND status = ?", postID, models.CommentStatusApproved).
		Count(&count).Error
	return count, err
}
