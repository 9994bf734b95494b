// Package policy holds the pure visibility and ownership decision functions.
// Every rule takes the viewer explicitly; viewer id 0 means anonymous. The
// same predicates back both the SQL listing filters in the repository layer
// and the per-row checks on the detail path.
package policy

import (
	"time"

	"gazette/internal/models"
)

// IsPubliclyVisible reports whether the post is visible to the general
// public at the given instant: it must be published, belong to a published
// category, and have a publication date that is not in the future.
func IsPubliclyVisible(post *models.Post, now time.Time) bool {
	if post == nil || !post.IsPublished {
		return false
	}
	if post.Category == nil || !post.Category.IsPublished {
		return false
	}
	return !post.PubDate.After(now)
}

// CanView reports whether the viewer may see the post. Authors always see
// their own posts regardless of publication state. A false result must be
// presented as not-found, never as forbidden, so the existence of
// unpublished or future posts does not leak.
func CanView(viewerID uint, post *models.Post, now time.Time) bool {
	if post == nil {
		return false
	}
	if viewerID != 0 && viewerID == post.AuthorID {
		return true
	}
	return IsPubliclyVisible(post, now)
}

// CanModify reports whether the viewer owns the entity with the given
// author. It applies to both posts and comments; how a failed check is
// surfaced (soft redirect vs hard denial) is the caller's concern.
func CanModify(viewerID, authorID uint) bool {
	return viewerID != 0 && viewerID == authorID
}

// CanViewCategory reports whether the category page resolves at all. An
// unpublished category is not-found for every viewer.
func CanViewCategory(category *models.Category) bool {
	return category != nil && category.IsPublished
}
