package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
	"gorm.io/gorm"
)

// postOrderings whitelists client-supplied ordering fields.
var postOrderings = map[string]string{
	"created_at":   "created_at",
	"published_at": "published_at",
	"view_count":   "view_count",
	"like_count":   "like_count",
	"title":        "title",
}

// PostListOptions are the list-endpoint knobs: substring search over
// title/content, status filter and whitelisted ordering.
type PostListOptions struct {
	Search   string
	Status   models.PostStatus
	Ordering string
	Offset   int
	Limit    int
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) GetPostByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Tags").Where("id = ?", id).First(&post).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

func (r *PostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// ListPosts returns one page of posts visible to viewer plus the total
// count of matching rows.
func (r *PostRepository) ListPosts(viewer *Viewer, opts PostListOptions) ([]models.Post, int64, error) {
	q := r.scopeVisible(r.db.Model(&models.Post{}), viewer)

	if opts.Search != "" {
		needle := "%" + strings.ToLower(opts.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", needle, needle)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := q.
		Preload("Author").
		Preload("Tags").
		Order(orderExpr(opts.Ordering)).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&posts).Error

	return posts, total, err
}

// ListPublishedByAuthor returns the author's published posts, newest first.
func (r *PostRepository) ListPublishedByAuthor(authorID uuid.UUID, offset, limit int) ([]models.Post, int64, error) {
	q := r.db.Model(&models.Post{}).
		Where("author_id = ? AND status = ?", authorID, models.PostStatusPublished)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := q.
		Preload("Author").
		Preload("Tags").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error

	return posts, total, err
}

// ListPublishedByTag returns published posts carrying the tag, newest first.
func (r *PostRepository) ListPublishedByTag(tagID uuid.UUID, offset, limit int) ([]models.Post, int64, error) {
	q := r.db.Model(&models.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ? AND posts.status = ?", tagID, models.PostStatusPublished)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := q.
		Preload("Author").
		Preload("Tags").
		Order("posts.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error

	return posts, total, err
}

func (r *PostRepository) CountPublishedByAuthor(authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).
		Where("author_id = ? AND status = ?", authorID, models.PostStatusPublished).
		Count(&count).Error
	return count, err
}

func (r *PostRepository) CountPublishedByTag(tagID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ? AND posts.status = ?", tagID, models.PostStatusPublished).
		Count(&count).Error
	return count, err
}

// UpdatePost persists post and, when replaceTags is set, swaps the tag
// association in the same transaction.
func (r *PostRepository) UpdatePost(post *models.Post, tags []models.Tag, replaceTags bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Author").Save(post).Error; err != nil {
			return err
		}
		if replaceTags {
			if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePost removes the post and everything it owns (comments, likes,
// shares, tag links) in a single transaction. An explicit cleanup rather
// than relying on DB-level cascades keeps the contract identical across
// postgres and the sqlite test database.
func (r *PostRepository) DeletePost(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
}

// IncrementViewCount bumps view_count atomically in the store.
func (r *PostRepository) IncrementViewCount(id uuid.UUID) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// scopeVisible restricts the query to posts the viewer may see:
// admins see everything, authors additionally see their own drafts and
// archives, everyone else sees published posts only.
func (r *PostRepository) scopeVisible(q *gorm.DB, viewer *Viewer) *gorm.DB {
	if viewer == nil {
		return q.Where("status = ?", models.PostStatusPublished)
	}

	switch viewer.Role {
	case models.RoleAdmin:
		return q
	case models.RoleAuthor:
		return q.Where("status = ? OR author_id = ?", models.PostStatusPublished, viewer.UserID)
	default:
		return q.Where("status = ?", models.PostStatusPublished)
	}
}

// orderExpr maps a client ordering like "-view_count" onto a safe ORDER BY
// clause, falling back to newest-first.
func orderExpr(ordering string) string {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	column, ok := postOrderings[field]
	if !ok {
		return "created_at DESC"
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
