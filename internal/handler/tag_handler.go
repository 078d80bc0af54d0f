package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/service"
	"github.com/inkpress/inkpress/internal/utils"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

type TagRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns all tags, optionally filtered by a name substring.
// GET /api/tags?search=
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": newTagResponses(tags)})
}

// Get returns a tag with its published post count.
// GET /api/tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag, postCount, err := h.tagService.GetTag(id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := newTagResponse(tag)
	c.JSON(http.StatusOK, gin.H{
		"id":         resp.ID,
		"name":       resp.Name,
		"slug":       resp.Slug,
		"post_count": postCount,
	})
}

// Create adds a tag; authors and admins only.
// POST /api/tags
func (h *TagHandler) Create(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	tag, err := h.tagService.CreateTag(actor, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTagResponse(tag))
}

// Update renames a tag; authors and admins only.
// PUT /api/tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	tag, err := h.tagService.UpdateTag(actor, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTagResponse(tag))
}

// Delete removes a tag and its post associations.
// DELETE /api/tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tagService.DeleteTag(actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Posts lists published posts carrying the tag.
// GET /api/tags/:id/posts
func (h *TagHandler) Posts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	posts, total, err := h.tagService.PostsForTag(id, params.Offset, params.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pagination": utils.GetPaginationResult(params, total),
		"results":    newPostResponses(posts),
	})
}
