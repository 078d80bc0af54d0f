package service

import (
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/permission"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/utils"
)

type TagService struct {
	tagRepo  *repository.TagRepository
	postRepo *repository.PostRepository
}

func NewTagService(tagRepo *repository.TagRepository, postRepo *repository.PostRepository) *TagService {
	return &TagService{tagRepo: tagRepo, postRepo: postRepo}
}

func (s *TagService) CreateTag(actor Actor, name string) (*models.Tag, error) {
	if !permission.Evaluate(actor.Role, permission.ActionTagCreate, false, "").Allowed() {
		return nil, apperr.Permission("only authors and admins may create tags")
	}

	if err := validateTagName(name); err != nil {
		return nil, err
	}

	existing, err := s.tagRepo.GetTagByName(name)
	if err != nil {
		return nil, apperr.Internal("failed to check tag name", err)
	}
	if existing != nil {
		return nil, apperr.Validation("tag already exists")
	}

	tag := &models.Tag{
		ID:   uuid.New(),
		Name: name,
		Slug: utils.Slugify(name),
	}
	if err := s.tagRepo.CreateTag(tag); err != nil {
		return nil, apperr.Internal("failed to create tag", err)
	}

	return tag, nil
}

func (s *TagService) ListTags(search string) ([]models.Tag, error) {
	tags, err := s.tagRepo.ListTags(search)
	if err != nil {
		return nil, apperr.Internal("failed to list tags", err)
	}
	return tags, nil
}

// GetTag returns the tag with the number of published posts carrying it.
func (s *TagService) GetTag(id uuid.UUID) (*models.Tag, int64, error) {
	tag, err := s.fetchTag(id)
	if err != nil {
		return nil, 0, err
	}

	postCount, err := s.postRepo.CountPublishedByTag(id)
	if err != nil {
		return nil, 0, apperr.Internal("failed to count tag posts", err)
	}

	return tag, postCount, nil
}

func (s *TagService) UpdateTag(actor Actor, id uuid.UUID, name string) (*models.Tag, error) {
	if !permission.Evaluate(actor.Role, permission.ActionTagUpdate, false, "").Allowed() {
		return nil, apperr.Permission("only authors and admins may modify tags")
	}

	tag, err := s.fetchTag(id)
	if err != nil {
		return nil, err
	}

	if err := validateTagName(name); err != nil {
		return nil, err
	}

	existing, err := s.tagRepo.GetTagByName(name)
	if err != nil {
		return nil, apperr.Internal("failed to check tag name", err)
	}
	if existing != nil && existing.ID != id {
		return nil, apperr.Validation("tag already exists")
	}

	tag.Name = name
	tag.Slug = utils.Slugify(name)
	if err := s.tagRepo.UpdateTag(tag); err != nil {
		return nil, apperr.Internal("failed to update tag", err)
	}

	return tag, nil
}

func (s *TagService) DeleteTag(actor Actor, id uuid.UUID) error {
	if !permission.Evaluate(actor.Role, permission.ActionTagDelete, false, "").Allowed() {
		return apperr.Permission("only authors and admins may delete tags")
	}

	if _, err := s.fetchTag(id); err != nil {
		return err
	}

	if err := s.tagRepo.DeleteTag(id); err != nil {
		return apperr.Internal("failed to delete tag", err)
	}
	return nil
}

// PostsForTag returns published posts carrying the tag.
func (s *TagService) PostsForTag(id uuid.UUID, offset, limit int) ([]models.Post, int64, error) {
	if _, err := s.fetchTag(id); err != nil {
		return nil, 0, err
	}

	posts, total, err := s.postRepo.ListPublishedByTag(id, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list tag posts", err)
	}
	return posts, total, nil
}

func (s *TagService) fetchTag(id uuid.UUID) (*models.Tag, error) {
	tag, err := s.tagRepo.GetTagByID(id)
	if err != nil {
		return nil, apperr.Internal("failed to load tag", err)
	}
	if tag == nil {
		return nil, apperr.NotFound("tag not found")
	}
	return tag, nil
}

func validateTagName(name string) error {
	if name == "" {
		return apperr.Validation("tag name is required")
	}
	if len(name) > 50 {
		return apperr.Validation("tag name must be at most 50 characters")
	}
	return nil
}
