package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/permission"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/utils"
	"github.com/inkpress/inkpress/pkg/logger"
	"go.uber.org/zap"
)

const (
	titleMinLength   = 5
	titleMaxLength   = 200
	contentMinLength = 50
	excerptMaxLength = 500
	topPlatformLimit = 5
)

type PostService struct {
	postRepo        *repository.PostRepository
	tagRepo         *repository.TagRepository
	commentRepo     *repository.CommentRepository
	interactionRepo *repository.InteractionRepository
}

func NewPostService(
	postRepo *repository.PostRepository,
	tagRepo *repository.TagRepository,
	commentRepo *repository.CommentRepository,
	interactionRepo *repository.InteractionRepository,
) *PostService {
	return &PostService{
		postRepo:        postRepo,
		tagRepo:         tagRepo,
		commentRepo:     commentRepo,
		interactionRepo: interactionRepo,
	}
}

type CreatePostInput struct {
	Title   string
	Content string
	Excerpt string
	TagIDs  []uuid.UUID
	Status  models.PostStatus
}

type UpdatePostInput struct {
	Title   *string
	Content *string
	Excerpt *string
	TagIDs  *[]uuid.UUID
	Status  *models.PostStatus
}

type ListPostsInput struct {
	Search   string
	Status   models.PostStatus
	Ordering string
	Offset   int
	Limit    int
}

// PostAnalytics is the per-post engagement summary, visible to the post's
// author and admins only.
type PostAnalytics struct {
	ViewCount      int64                       `json:"view_count"`
	LikeCount      int64                       `json:"like_count"`
	CommentCount   int64                       `json:"comment_count"`
	ShareCount     int64                       `json:"share_count"`
	EngagementRate float64                     `json:"engagement_rate"`
	TopPlatforms   []repository.PlatformShares `json:"top_platforms"`
}

func (s *PostService) CreatePost(actor Actor, input CreatePostInput) (*models.Post, error) {
	if !permission.Evaluate(actor.Role, permission.ActionPostCreate, false, "").Allowed() {
		return nil, apperr.Permission("you are not allowed to create posts")
	}

	if len(input.Title) < titleMinLength {
		return nil, apperr.Validation(fmt.Sprintf("title must be at least %d characters", titleMinLength))
	}
	if len(input.Title) > titleMaxLength {
		return nil, apperr.Validation(fmt.Sprintf("title must be at most %d characters", titleMaxLength))
	}
	if len(input.Content) < contentMinLength {
		return nil, apperr.Validation(fmt.Sprintf("content must be at least %d characters", contentMinLength))
	}
	if len(input.Excerpt) > excerptMaxLength {
		return nil, apperr.Validation(fmt.Sprintf("excerpt must be at most %d characters", excerptMaxLength))
	}

	status := input.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !models.ValidPostStatus(status) {
		return nil, apperr.Validation("status must be one of DRAFT, PUBLISHED, ARCHIVED")
	}
	if status == models.PostStatusArchived {
		return nil, apperr.Validation("a post cannot be created in ARCHIVED status")
	}

	tags, err := s.resolveTags(input.TagIDs)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(input.Title)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       uuid.New(),
		Title:    input.Title,
		Slug:     slug,
		Content:  input.Content,
		Excerpt:  input.Excerpt,
		AuthorID: actor.UserID,
		Status:   status,
		Tags:     tags,
	}

	if status == models.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
		fillExcerpt(post)
	}

	if err := s.postRepo.CreatePost(post); err != nil {
		logger.Log.Error("Failed to create post",
			zap.String("author_id", actor.UserID.String()),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to create post", err)
	}

	logger.Log.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("author_id", actor.UserID.String()),
		zap.String("status", string(post.Status)),
	)

	return post, nil
}

// GetPost returns the post if it is visible to viewer, bumping its view
// counter. Invisible posts are reported as not found so draft existence
// never leaks.
func (s *PostService) GetPost(viewer *Actor, id uuid.UUID) (*models.Post, bool, error) {
	post, err := s.visiblePost(viewer, id)
	if err != nil {
		return nil, false, err
	}

	if err := s.postRepo.IncrementViewCount(id); err != nil {
		return nil, false, apperr.Internal("failed to increment view count", err)
	}
	post.ViewCount++

	liked := false
	if viewer != nil {
		liked, err = s.interactionRepo.HasLiked(id, viewer.UserID)
		if err != nil {
			return nil, false, apperr.Internal("failed to check like", err)
		}
	}

	return post, liked, nil
}

func (s *PostService) ListPosts(viewer *Actor, input ListPostsInput) ([]models.Post, int64, error) {
	if input.Status != "" && !models.ValidPostStatus(input.Status) {
		return nil, 0, apperr.Validation("status must be one of DRAFT, PUBLISHED, ARCHIVED")
	}

	posts, total, err := s.postRepo.ListPosts(viewer.Viewer(), repository.PostListOptions{
		Search:   input.Search,
		Status:   input.Status,
		Ordering: input.Ordering,
		Offset:   input.Offset,
		Limit:    input.Limit,
	})
	if err != nil {
		return nil, 0, apperr.Internal("failed to list posts", err)
	}

	return posts, total, nil
}

func (s *PostService) ListPublishedByAuthor(authorID uuid.UUID, offset, limit int) ([]models.Post, int64, error) {
	posts, total, err := s.postRepo.ListPublishedByAuthor(authorID, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list posts", err)
	}
	return posts, total, nil
}

func (s *PostService) CountPublishedByAuthor(authorID uuid.UUID) (int64, error) {
	count, err := s.postRepo.CountPublishedByAuthor(authorID)
	if err != nil {
		return 0, apperr.Internal("failed to count posts", err)
	}
	return count, nil
}

func (s *PostService) UpdatePost(actor Actor, id uuid.UUID, input UpdatePostInput) (*models.Post, error) {
	post, err := s.fetchPost(id)
	if err != nil {
		return nil, err
	}

	owner := post.AuthorID == actor.UserID
	if !permission.Evaluate(actor.Role, permission.ActionPostUpdate, owner, post.Status).Allowed() {
		return nil, apperr.Permission("only the author or an admin may modify this post")
	}

	if input.Title != nil {
		if len(*input.Title) < titleMinLength {
			return nil, apperr.Validation(fmt.Sprintf("title must be at least %d characters", titleMinLength))
		}
		if len(*input.Title) > titleMaxLength {
			return nil, apperr.Validation(fmt.Sprintf("title must be at most %d characters", titleMaxLength))
		}
		post.Title = *input.Title
	}
	if input.Content != nil {
		if len(*input.Content) < contentMinLength {
			return nil, apperr.Validation(fmt.Sprintf("content must be at least %d characters", contentMinLength))
		}
		post.Content = *input.Content
	}
	if input.Excerpt != nil {
		if len(*input.Excerpt) > excerptMaxLength {
			return nil, apperr.Validation(fmt.Sprintf("excerpt must be at most %d characters", excerptMaxLength))
		}
		post.Excerpt = *input.Excerpt
	}

	if input.Status != nil && *input.Status != post.Status {
		if !permission.Evaluate(actor.Role, permission.ActionPostTransition, owner, post.Status).Allowed() {
			return nil, apperr.Permission("only the author or an admin may change post status")
		}
		if err := validateTransition(post.Status, *input.Status); err != nil {
			return nil, err
		}

		post.Status = *input.Status
		if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
			fillExcerpt(post)
		}
	}

	var tags []models.Tag
	replaceTags := false
	if input.TagIDs != nil {
		tags, err = s.resolveTags(*input.TagIDs)
		if err != nil {
			return nil, err
		}
		replaceTags = true
	}

	if err := s.postRepo.UpdatePost(post, tags, replaceTags); err != nil {
		logger.Log.Error("Failed to update post",
			zap.String("post_id", id.String()),
			zap.Error(err),
		)
		return nil, apperr.Internal("failed to update post", err)
	}
	if replaceTags {
		post.Tags = tags
	}

	logger.Log.Info("Post updated",
		zap.String("post_id", post.ID.String()),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("status", string(post.Status)),
	)

	return post, nil
}

func (s *PostService) DeletePost(actor Actor, id uuid.UUID) error {
	post, err := s.fetchPost(id)
	if err != nil {
		return err
	}

	owner := post.AuthorID == actor.UserID
	if !permission.Evaluate(actor.Role, permission.ActionPostDelete, owner, post.Status).Allowed() {
		return apperr.Permission("only the author or an admin may delete this post")
	}

	if err := s.postRepo.DeletePost(id); err != nil {
		logger.Log.Error("Failed to delete post",
			zap.String("post_id", id.String()),
			zap.Error(err),
		)
		return apperr.Internal("failed to delete post", err)
	}

	logger.Log.Info("Post deleted",
		zap.String("post_id", id.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	return nil
}

// LikePost is idempotent: liking an already-liked post succeeds without a
// second row or a second counter increment.
func (s *PostService) LikePost(actor Actor, id uuid.UUID) (int64, error) {
	post, err := s.visiblePost(&actor, id)
	if err != nil {
		return 0, err
	}

	created, err := s.interactionRepo.Like(id, actor.UserID)
	if err != nil {
		return 0, apperr.Internal("failed to like post", err)
	}

	count := post.LikeCount
	if created {
		count++
	}
	return count, nil
}

// UnlikePost removes the caller's like; unliking a post never liked is a
// no-op success.
func (s *PostService) UnlikePost(actor Actor, id uuid.UUID) (int64, error) {
	post, err := s.visiblePost(&actor, id)
	if err != nil {
		return 0, err
	}

	removed, err := s.interactionRepo.Unlike(id, actor.UserID)
	if err != nil {
		return 0, apperr.Internal("failed to unlike post", err)
	}

	count := post.LikeCount
	if removed && count > 0 {
		count--
	}
	return count, nil
}

func (s *PostService) SharePost(actor Actor, id uuid.UUID, platform string) (int64, error) {
	if platform == "" {
		return 0, apperr.Validation("platform is required")
	}
	if len(platform) > 50 {
		return 0, apperr.Validation("platform must be at most 50 characters")
	}

	post, err := s.visiblePost(&actor, id)
	if err != nil {
		return 0, err
	}

	share := &models.Share{
		PostID:   id,
		UserID:   actor.UserID,
		Platform: platform,
	}
	if err := s.interactionRepo.CreateShare(share); err != nil {
		return 0, apperr.Internal("failed to share post", err)
	}

	return post.ShareCount + 1, nil
}

func (s *PostService) Analytics(actor Actor, id uuid.UUID) (*PostAnalytics, error) {
	post, err := s.fetchPost(id)
	if err != nil {
		return nil, err
	}

	owner := post.AuthorID == actor.UserID
	if !permission.Evaluate(actor.Role, permission.ActionPostAnalytics, owner, post.Status).Allowed() {
		return nil, apperr.Permission("only the author or an admin may view analytics")
	}

	commentCount, err := s.commentRepo.CountApproved(id)
	if err != nil {
		return nil, apperr.Internal("failed to count comments", err)
	}

	topPlatforms, err := s.interactionRepo.TopPlatforms(id, topPlatformLimit)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate shares", err)
	}

	return &PostAnalytics{
		ViewCount:      post.ViewCount,
		LikeCount:      post.LikeCount,
		CommentCount:   commentCount,
		ShareCount:     post.ShareCount,
		EngagementRate: engagementRate(post.ViewCount, post.LikeCount+commentCount+post.ShareCount),
		TopPlatforms:   topPlatforms,
	}, nil
}

// fetchPost loads a post or reports NotFound.
func (s *PostService) fetchPost(id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		return nil, apperr.Internal("failed to load post", err)
	}
	if post == nil {
		return nil, apperr.NotFound("post not found")
	}
	return post, nil
}

// visiblePost loads a post and hides it behind NotFound when the viewer
// may not read it.
func (s *PostService) visiblePost(viewer *Actor, id uuid.UUID) (*models.Post, error) {
	post, err := s.fetchPost(id)
	if err != nil {
		return nil, err
	}

	owner := viewer != nil && post.AuthorID == viewer.UserID
	if !permission.Evaluate(roleOf(viewer), permission.ActionPostRead, owner, post.Status).Allowed() {
		return nil, apperr.NotFound("post not found")
	}
	return post, nil
}

func (s *PostService) resolveTags(ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tags, err := s.tagRepo.GetTagsByIDs(ids)
	if err != nil {
		return nil, apperr.Internal("failed to resolve tags", err)
	}
	if len(tags) != len(ids) {
		return nil, apperr.Validation("one or more tag ids do not exist")
	}
	return tags, nil
}

// uniqueSlug derives a slug from the title, suffixing -2, -3, ... until
// it is free.
func (s *PostService) uniqueSlug(title string) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "post"
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.postRepo.SlugExists(slug)
		if err != nil {
			return "", apperr.Internal("failed to check slug", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// validateTransition enforces the DRAFT -> PUBLISHED -> ARCHIVED lifecycle.
func validateTransition(from, to models.PostStatus) error {
	if !models.ValidPostStatus(to) {
		return apperr.Validation("status must be one of DRAFT, PUBLISHED, ARCHIVED")
	}

	switch {
	case from == models.PostStatusDraft && to == models.PostStatusPublished:
		return nil
	case from == models.PostStatusPublished && to == models.PostStatusArchived:
		return nil
	}

	return apperr.Validation(fmt.Sprintf("invalid status transition from %s to %s", from, to))
}

// fillExcerpt defaults the excerpt to the leading content on publish.
func fillExcerpt(post *models.Post) {
	if post.Excerpt != "" {
		return
	}
	excerpt := post.Content
	if len(excerpt) > 200 {
		excerpt = excerpt[:200]
	}
	post.Excerpt = excerpt
}

func engagementRate(views, engagements int64) float64 {
	if views == 0 {
		return 0
	}
	return math.Round(float64(engagements)/float64(views)*100*100) / 100
}
