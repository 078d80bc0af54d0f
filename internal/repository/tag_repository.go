package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) CreateTag(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *TagRepository) GetTagByID(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("id = ?", id).First(&tag).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tag, nil
}

// GetTagByName matches case-insensitively; tag names are unique
// regardless of casing.
func (r *TagRepository) GetTagByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&tag).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tag, nil
}

// GetTagsByIDs resolves a set of tag ids, preserving no particular order.
func (r *TagRepository) GetTagsByIDs(ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (r *TagRepository) ListTags(search string) ([]models.Tag, error) {
	q := r.db.Model(&models.Tag{})
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var tags []models.Tag
	err := q.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepository) UpdateTag(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

// DeleteTag removes the tag and its post associations in one transaction.
func (r *TagRepository) DeleteTag(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", id).Error
	})
}
