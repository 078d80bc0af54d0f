// Package permission is the single decision point for role-based access.
// Evaluate is a pure function over (role, action, ownership, resource
// status): no transport, no storage, no ambient request state.
package permission

import "github.com/inkpress/inkpress/internal/models"

type Action string

const (
	ActionPostCreate      Action = "post:create"
	ActionPostRead        Action = "post:read"
	ActionPostUpdate      Action = "post:update"
	ActionPostDelete      Action = "post:delete"
	ActionPostTransition  Action = "post:transition"
	ActionPostAnalytics   Action = "post:analytics"
	ActionPostLike        Action = "post:like"
	ActionPostShare       Action = "post:share"
	ActionCommentCreate   Action = "comment:create"
	ActionCommentUpdate   Action = "comment:update"
	ActionCommentDelete   Action = "comment:delete"
	ActionCommentModerate Action = "comment:moderate"
	ActionTagCreate       Action = "tag:create"
	ActionTagUpdate       Action = "tag:update"
	ActionTagDelete       Action = "tag:delete"
)

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool { return d == Allow }

// Evaluate decides whether a user with the given role may perform action.
// owner reports whether the acting user owns the resource (for comment
// moderation: whether they own the comment's post). status is the post
// status guarding visibility, empty where irrelevant.
func Evaluate(role models.Role, action Action, owner bool, status models.PostStatus) Decision {
	if role == models.RoleAdmin {
		return Allow
	}

	switch action {
	case ActionPostRead:
		if status == models.PostStatusPublished || owner {
			return Allow
		}
		return Deny

	case ActionPostCreate, ActionTagCreate, ActionTagUpdate, ActionTagDelete:
		if role == models.RoleAuthor {
			return Allow
		}
		return Deny

	case ActionPostUpdate, ActionPostDelete, ActionPostTransition, ActionPostAnalytics:
		if role == models.RoleAuthor && owner {
			return Allow
		}
		return Deny

	case ActionCommentModerate:
		// owner here means: acting user owns the post the comment belongs to.
		if role == models.RoleAuthor && owner {
			return Allow
		}
		return Deny

	case ActionCommentUpdate, ActionCommentDelete:
		if owner {
			return Allow
		}
		return Deny

	case ActionCommentCreate, ActionPostLike, ActionPostShare:
		// Any authenticated role may comment, like and share.
		return Allow
	}

	return Deny
}
