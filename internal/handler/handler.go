// Package handler translates HTTP requests into service calls. Every
// mutating endpoint runs the same gauntlet: token check (401), permission
// check (403), entity validation (400), then existence (404).
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/middleware"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/pkg/logger"
	"go.uber.org/zap"
)

// respondError maps the service error taxonomy onto HTTP statuses with a
// machine-readable error kind in the body.
func respondError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		logger.Log.Error("Unexpected error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(apperr.HTTPStatus(err), gin.H{
		"error":   apperr.KindOf(err),
		"message": apperr.Message(err),
	})
}

// actorFrom returns the acting identity, nil for anonymous requests.
func actorFrom(c *gin.Context) *service.Actor {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil
	}
	return &service.Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
}

// mustActor is actorFrom for routes behind AuthMiddleware.
func mustActor(c *gin.Context) (service.Actor, bool) {
	actor := actorFrom(c)
	if actor == nil {
		respondError(c, apperr.Auth("authentication required"))
		return service.Actor{}, false
	}
	return *actor, true
}

// parseIDParam reads a UUID path parameter. A malformed id cannot
// reference anything, so it is reported as not found.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperr.NotFound("resource not found"))
		return uuid.Nil, false
	}
	return id, true
}

// Response shapes. Models carry json tags, but API representations are
// assembled explicitly so nested entities stay stable.

type userResponse struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio,omitempty"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type tagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func newTagResponse(t *models.Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func newTagResponses(tags []models.Tag) []tagResponse {
	out := make([]tagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, newTagResponse(&tags[i]))
	}
	return out
}

type postResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Content     string            `json:"content,omitempty"`
	Excerpt     string            `json:"excerpt"`
	Author      userResponse      `json:"author"`
	Tags        []tagResponse     `json:"tags"`
	Status      models.PostStatus `json:"status"`
	ViewCount   int64             `json:"view_count"`
	LikeCount   int64             `json:"like_count"`
	ShareCount  int64             `json:"share_count"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	PublishedAt *time.Time        `json:"published_at"`
	IsLiked     *bool             `json:"is_liked,omitempty"`
}

// newPostResponse builds a post representation; list views drop the body.
func newPostResponse(p *models.Post, includeContent bool) postResponse {
	resp := postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Author:      newUserResponse(&p.Author),
		Tags:        newTagResponses(p.Tags),
		Status:      p.Status,
		ViewCount:   p.ViewCount,
		LikeCount:   p.LikeCount,
		ShareCount:  p.ShareCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		PublishedAt: p.PublishedAt,
	}
	if includeContent {
		resp.Content = p.Content
	}
	return resp
}

func newPostResponses(posts []models.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, newPostResponse(&posts[i], false))
	}
	return out
}

type commentResponse struct {
	ID        uuid.UUID            `json:"id"`
	PostID    uuid.UUID            `json:"post_id"`
	Author    userResponse         `json:"author"`
	Content   string               `json:"content"`
	Status    models.CommentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

func newCommentResponse(cm *models.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		Author:    newUserResponse(&cm.Author),
		Content:   cm.Content,
		Status:    cm.Status,
		CreatedAt: cm.CreatedAt,
	}
}

func newCommentResponses(comments []models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentResponse(&comments[i]))
	}
	return out
}
