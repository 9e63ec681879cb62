// Package policy holds the ownership rules for mutating actions. A nil actor
// is an anonymous visitor and is never allowed anything.
package policy

import "Yatube/api/models"

func CanCreatePost(actor *models.User) bool {
	return actor != nil
}

func CanEditPost(actor *models.User, post *models.Post) bool {
	return actor != nil && post != nil && post.AuthorID == actor.ID
}

func CanDeletePost(actor *models.User, post *models.Post) bool {
	return CanEditPost(actor, post)
}

func CanComment(actor *models.User) bool {
	return actor != nil
}

// CanDeleteComment allows the comment's author and the author of the post it
// belongs to.
func CanDeleteComment(actor *models.User, comment *models.Comment, post *models.Post) bool {
	if actor == nil || comment == nil || post == nil || comment.PostID != post.ID {
		return false
	}
	return comment.AuthorID == actor.ID || post.AuthorID == actor.ID
}

// CanFollow rejects self-follow.
func CanFollow(follower, author *models.User) bool {
	return follower != nil && author != nil && follower.ID != author.ID
}

func CanEditProfile(actor *models.User, profile *models.Profile) bool {
	return actor != nil && profile != nil && profile.UserID == actor.ID
}
