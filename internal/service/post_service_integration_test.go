package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/repository"
	"github.com/inkpress/inkpress/internal/testutil"
	"github.com/inkpress/inkpress/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(false); err != nil {
		panic(err)
	}
	m.Run()
}

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		from models.PostStatus
		to   models.PostStatus
		ok   bool
	}{
		{models.PostStatusDraft, models.PostStatusPublished, true},
		{models.PostStatusPublished, models.PostStatusArchived, true},
		{models.PostStatusDraft, models.PostStatusArchived, false},
		{models.PostStatusPublished, models.PostStatusDraft, false},
		{models.PostStatusArchived, models.PostStatusPublished, false},
		{models.PostStatusArchived, models.PostStatusDraft, false},
		{models.PostStatusDraft, models.PostStatus("REVIEW"), false},
	}

	for _, tc := range cases {
		err := validateTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestFillExcerpt(t *testing.T) {
	post := &models.Post{Content: strings.Repeat("x", 300)}
	fillExcerpt(post)
	assert.Len(t, post.Excerpt, 200)

	custom := &models.Post{Content: "body", Excerpt: "hand-written excerpt"}
	fillExcerpt(custom)
	assert.Equal(t, "hand-written excerpt", custom.Excerpt)
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, float64(0), engagementRate(0, 10), "no views means no rate")
	assert.Equal(t, float64(50), engagementRate(10, 5))
	// 1/3 engagement, rounded to two decimals.
	assert.Equal(t, 33.33, engagementRate(3, 1))
}

// servicePostEnv backs the PostService with an in-memory sqlite database.
type servicePostEnv struct {
	svc    *PostService
	db     *testutil.TestDatabase
	author *models.User
}

func setupPostService(t *testing.T) *servicePostEnv {
	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })
	testutil.CleanDatabase(t, testDB.DB)

	svc := NewPostService(
		repository.NewPostRepository(testDB.DB),
		repository.NewTagRepository(testDB.DB),
		repository.NewCommentRepository(testDB.DB),
		repository.NewInteractionRepository(testDB.DB),
	)

	author, err := testutil.CreateTestUser("author", "author@example.com", "Password123", models.RoleAuthor)
	require.NoError(t, err)
	require.NoError(t, testDB.DB.Create(author).Error)

	return &servicePostEnv{svc: svc, db: testDB, author: author}
}

func (e *servicePostEnv) actor() Actor {
	return Actor{UserID: e.author.ID, Username: e.author.Username, Role: e.author.Role}
}

func TestCreatePost_SlugSuffixes(t *testing.T) {
	env := setupPostService(t)
	content := strings.Repeat("A sentence long enough to pass validation. ", 2)

	first, err := env.svc.CreatePost(env.actor(), CreatePostInput{Title: "Hello World", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first.Slug)

	second, err := env.svc.CreatePost(env.actor(), CreatePostInput{Title: "Hello World", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", second.Slug)

	third, err := env.svc.CreatePost(env.actor(), CreatePostInput{Title: "Hello World", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-3", third.Slug)
}

func TestCreatePost_UnknownTagRejected(t *testing.T) {
	env := setupPostService(t)

	_, err := env.svc.CreatePost(env.actor(), CreatePostInput{
		Title:   "Tagged Post",
		Content: strings.Repeat("Plenty of words to satisfy the minimum. ", 2),
		TagIDs:  []uuid.UUID{uuid.New()},
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdatePost_PublishStampsOnce(t *testing.T) {
	env := setupPostService(t)

	post, err := env.svc.CreatePost(env.actor(), CreatePostInput{
		Title:   "Timestamps Matter",
		Content: strings.Repeat("Draft words waiting for their moment in the sun. ", 2),
	})
	require.NoError(t, err)
	require.Nil(t, post.PublishedAt)

	published := models.PostStatusPublished
	post, err = env.svc.UpdatePost(env.actor(), post.ID, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.NotEmpty(t, post.Excerpt, "publishing fills an empty excerpt from content")

	stamped := *post.PublishedAt
	time.Sleep(10 * time.Millisecond)

	archived := models.PostStatusArchived
	post, err = env.svc.UpdatePost(env.actor(), post.ID, UpdatePostInput{Status: &archived})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(stamped), "archiving keeps the original publish time")
}

func TestGetPost_AnonymousViewer(t *testing.T) {
	env := setupPostService(t)

	post := testutil.CreateTestPost(env.author.ID, "Open To All", models.PostStatusPublished)
	require.NoError(t, env.db.DB.Create(post).Error)
	draft := testutil.CreateTestPost(env.author.ID, "Not Yet", models.PostStatusDraft)
	require.NoError(t, env.db.DB.Create(draft).Error)

	got, liked, err := env.svc.GetPost(nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.False(t, liked)
	assert.Equal(t, int64(1), got.ViewCount)

	_, _, err = env.svc.GetPost(nil, draft.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
