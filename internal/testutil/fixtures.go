package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/utils"
)

// CreateTestUser builds a user with a real argon2id password hash.
func CreateTestUser(username, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// CreateTestPost builds a post owned by authorID. Content is padded past
// the 50-character minimum so fixtures never trip validation.
func CreateTestPost(authorID uuid.UUID, title string, status models.PostStatus) *models.Post {
	content := "This is test post content. " + strings.Repeat("More words here. ", 3)

	post := &models.Post{
		ID:       uuid.New(),
		Title:    title,
		Slug:     utils.Slugify(title) + "-" + uuid.NewString()[:8],
		Content:  content,
		AuthorID: authorID,
		Status:   status,
	}
	if status == models.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	return post
}

// CreateTestComment builds a comment in the given moderation state.
func CreateTestComment(postID, authorID uuid.UUID, content string, status models.CommentStatus) *models.Comment {
	return &models.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
		Status:   status,
	}
}

// CreateTestTag builds a tag with a derived slug.
func CreateTestTag(name string) *models.Tag {
	return &models.Tag{
		ID:   uuid.New(),
		Name: name,
		Slug: utils.Slugify(name),
	}
}
