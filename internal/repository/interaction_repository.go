package repository

import (
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlatformShares is one row of the per-platform share breakdown.
type PlatformShares struct {
	Platform   string `gorm:"column:platform" json:"platform"`
	ShareCount int64  `gorm:"column:share_total" json:"share_count"`
}

// InteractionRepository persists likes and shares together with the
// denormalized counters on the post row.
type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Like inserts the (post, user) row and bumps like_count, both in one
// transaction. A conflicting insert (the user already liked the post,
// possibly via a concurrent request) is swallowed by the unique index:
// created is false and the counter stays untouched.
func (r *InteractionRepository) Like(postID, userID uuid.UUID) (created bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&models.Like{PostID: postID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		created = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	return created, err
}

// Unlike removes the (post, user) row if present. Removing a like that
// never existed is a no-op, not an error.
func (r *InteractionRepository) Unlike(postID, userID uuid.UUID) (removed bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		removed = true
		return tx.Model(&models.Post{}).
			Where("id = ? AND like_count > 0", postID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
	return removed, err
}

func (r *InteractionRepository) HasLiked(postID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateShare appends a share record and bumps share_count in one
// transaction. Shares are never deduplicated.
func (r *InteractionRepository) CreateShare(share *models.Share) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(share).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", share.PostID).
			UpdateColumn("share_count", gorm.Expr("share_count + 1")).Error
	})
}

// TopPlatforms returns the platforms a post was shared on, most shared
// first.
func (r *InteractionRepository) TopPlatforms(postID uuid.UUID, limit int) ([]PlatformShares, error) {
	var rows []PlatformShares
	err := r.db.Model(&models.Share{}).
		Select("platform, COUNT(*) AS share_total").
		Where("post_id = ?", postID).
		Group("platform").
		Order("share_total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
