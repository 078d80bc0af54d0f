package handler_test

import (
	"net/http"
	"testing"

	"github.com/inkpress/inkpress/internal/models"
	"github.com/inkpress/inkpress/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CommentHandlerIntegrationTestSuite struct {
	suite.Suite
	env *testEnv

	author    *models.User
	commenter *models.User
	bystander *models.User
	admin     *models.User

	post *models.Post
}

func (s *CommentHandlerIntegrationTestSuite) SetupSuite() {
	s.env = setupEnv(s.T())
}

func (s *CommentHandlerIntegrationTestSuite) TearDownSuite() {
	s.env.testDB.Teardown(s.T())
}

func (s *CommentHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.env.db)

	s.author = s.env.createUser(s.T(), "john", models.RoleAuthor)
	s.commenter = s.env.createUser(s.T(), "jane", models.RoleReader)
	s.bystander = s.env.createUser(s.T(), "joe", models.RoleReader)
	s.admin = s.env.createUser(s.T(), "root", models.RoleAdmin)

	s.post = testutil.CreateTestPost(s.author.ID, "Comment Playground", models.PostStatusPublished)
	require.NoError(s.T(), s.env.db.Create(s.post).Error)
}

func (s *CommentHandlerIntegrationTestSuite) token(u *models.User) string {
	return s.env.tokenFor(s.T(), u)
}

func (s *CommentHandlerIntegrationTestSuite) createPending(author *models.User) *models.Comment {
	comment := testutil.CreateTestComment(s.post.ID, author.ID, "Waiting for review", models.CommentStatusPending)
	require.NoError(s.T(), s.env.db.Create(comment).Error)
	return comment
}

func (s *CommentHandlerIntegrationTestSuite) listStatuses(token string) []string {
	w := s.env.request(s.T(), http.MethodGet, "/api/posts/"+s.post.ID.String()+"/comments", token, nil)
	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	results := decode(s.T(), w)["results"].([]interface{})
	statuses := make([]string, 0, len(results))
	for _, r := range results {
		statuses = append(statuses, r.(map[string]interface{})["status"].(string))
	}
	return statuses
}

func (s *CommentHandlerIntegrationTestSuite) TestCreate_StartsPending() {
	w := s.env.request(s.T(), http.MethodPost, "/api/comments", s.token(s.commenter), map[string]interface{}{
		"post_id": s.post.ID,
		"content": "First!",
	})

	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
	comment := decode(s.T(), w)["comment"].(map[string]interface{})
	assert.Equal(s.T(), "PENDING", comment["status"])
}

func (s *CommentHandlerIntegrationTestSuite) TestCreate_TooShort() {
	w := s.env.request(s.T(), http.MethodPost, "/api/comments", s.token(s.commenter), map[string]interface{}{
		"post_id": s.post.ID,
		"content": "!",
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *CommentHandlerIntegrationTestSuite) TestCreate_OnDraftPostNotFound() {
	draft := testutil.CreateTestPost(s.author.ID, "Hidden Draft", models.PostStatusDraft)
	require.NoError(s.T(), s.env.db.Create(draft).Error)

	w := s.env.request(s.T(), http.MethodPost, "/api/comments", s.token(s.commenter), map[string]interface{}{
		"post_id": draft.ID,
		"content": "Can I comment here?",
	})

	// The draft does not exist as far as a reader is concerned.
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *CommentHandlerIntegrationTestSuite) TestCreate_RequiresAuth() {
	w := s.env.request(s.T(), http.MethodPost, "/api/comments", "", map[string]interface{}{
		"post_id": s.post.ID,
		"content": "Anonymous remark",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *CommentHandlerIntegrationTestSuite) TestPendingVisibility() {
	s.createPending(s.commenter)

	approved := testutil.CreateTestComment(s.post.ID, s.bystander.ID, "Already vetted", models.CommentStatusApproved)
	require.NoError(s.T(), s.env.db.Create(approved).Error)

	// Anonymous and unrelated readers see only the approved comment.
	assert.Equal(s.T(), []string{"APPROVED"}, s.listStatuses(""))

	// The comment's author sees their own pending comment too.
	assert.ElementsMatch(s.T(), []string{"PENDING", "APPROVED"}, s.listStatuses(s.token(s.commenter)))

	// So do the post's author and an admin, who moderate the queue.
	assert.ElementsMatch(s.T(), []string{"PENDING", "APPROVED"}, s.listStatuses(s.token(s.author)))
	assert.ElementsMatch(s.T(), []string{"PENDING", "APPROVED"}, s.listStatuses(s.token(s.admin)))

	// A third reader with no stake sees only the approved one.
	assert.Equal(s.T(), []string{"APPROVED"}, s.listStatuses(s.token(s.bystander)))
}

func (s *CommentHandlerIntegrationTestSuite) TestApprove_ByPostAuthor() {
	comment := s.createPending(s.commenter)

	w := s.env.request(s.T(), http.MethodPost, "/api/comments/"+comment.ID.String()+"/approve", s.token(s.author), nil)

	require.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var got models.Comment
	require.NoError(s.T(), s.env.db.First(&got, "id = ?", comment.ID).Error)
	assert.Equal(s.T(), models.CommentStatusApproved, got.Status)
}

func (s *CommentHandlerIntegrationTestSuite) TestReject_ByAdmin() {
	comment := s.createPending(s.commenter)

	w := s.env.request(s.T(), http.MethodPost, "/api/comments/"+comment.ID.String()+"/reject", s.token(s.admin), nil)

	require.Equal(s.T(), http.StatusOK, w.Code)
	var got models.Comment
	require.NoError(s.T(), s.env.db.First(&got, "id = ?", comment.ID).Error)
	assert.Equal(s.T(), models.CommentStatusRejected, got.Status)
}

func (s *CommentHandlerIntegrationTestSuite) TestModerate_ReaderForbidden() {
	comment := s.createPending(s.bystander)

	w := s.env.request(s.T(), http.MethodPost, "/api/comments/"+comment.ID.String()+"/approve", s.token(s.commenter), nil)
	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *CommentHandlerIntegrationTestSuite) TestModerate_OtherAuthorForbidden() {
	otherAuthor := s.env.createUser(s.T(), "rival", models.RoleAuthor)
	comment := s.createPending(s.commenter)

	w := s.env.request(s.T(), http.MethodPost, "/api/comments/"+comment.ID.String()+"/approve", s.token(otherAuthor), nil)
	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *CommentHandlerIntegrationTestSuite) TestModerate_TerminalStateConflict() {
	comment := s.createPending(s.commenter)

	w := s.env.request(s.T(), http.MethodPost, "/api/comments/"+comment.ID.String()+"/reject", s.token(s.author), nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	// Rejected is final; a later approve cannot resurrect it.
	w = s.env.request(s.T(), http.MethodPost, "/api/comments/"+comment.ID.String()+"/approve", s.token(s.author), nil)
	assert.Equal(s.T(), http.StatusConflict, w.Code)
	assert.Contains(s.T(), decode(s.T(), w)["message"], "already been moderated")

	var got models.Comment
	require.NoError(s.T(), s.env.db.First(&got, "id = ?", comment.ID).Error)
	assert.Equal(s.T(), models.CommentStatusRejected, got.Status)
}

func TestCommentHandlerIntegration(t *testing.T) {
	suite.Run(t, new(CommentHandlerIntegrationTestSuite))
}
