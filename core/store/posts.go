package store

import (
	"falcon-scn/core/rbac"
	"falcon-scn/core/state"
)

// PostFields are the caller-supplied attributes of a bulletin post.
type PostFields struct {
	Title     string
	Content   string
	MediaURLs []string
	IsPinned  bool
}

// CreatePost publishes a bulletin entry. Authorship is restricted to admins
// and moderators; anyone else gets nil. Posts are kept newest first; pinning
// is a display hint, not unique.
func (s *CommandStore) CreatePost(fields PostFields, authorID string) *state.Post {
	s.mu.Lock()
	author := s.userByIDLocked(authorID)
	if !rbac.CanPublishPosts(author) {
		s.mu.Unlock()
		return nil
	}
	mediaURLs := fields.MediaURLs
	if mediaURLs == nil {
		mediaURLs = []string{}
	}
	post := state.Post{
		ID:         state.NewID("post"),
		Author:     author.FullName,
		AuthorID:   author.ID,
		AuthorRank: author.Rank,
		AuthorRole: author.Role,
		Title:      fields.Title,
		Content:    fields.Content,
		MediaURLs:  mediaURLs,
		Timestamp:  s.now(),
		IsPinned:   fields.IsPinned,
		Comments:   []state.Comment{},
	}
	s.state.Posts = append([]state.Post{post}, s.state.Posts...)
	s.appendLogLocked("POST_CREATED", "Post created: "+post.Title, authorID)
	s.mu.Unlock()
	s.mutated()
	copied := post
	return &copied
}

// EditPost overwrites a post's content in place under the moderation rule.
func (s *CommandStore) EditPost(postID, newTitle, newContent, actorID string) {
	s.mu.Lock()
	var post *state.Post
	for i := range s.state.Posts {
		if s.state.Posts[i].ID == postID {
			post = &s.state.Posts[i]
			break
		}
	}
	actor := s.userByIDLocked(actorID)
	if post == nil || actor == nil || !rbac.CanModerate(actor, post.AuthorID) {
		s.mu.Unlock()
		return
	}
	now := s.now()
	post.Title = newTitle
	post.Content = newContent
	post.IsEdited = true
	post.EditedAt = &now
	s.appendLogLocked("POST_EDITED", "Post edited: "+post.Title, actorID)
	s.mu.Unlock()
	s.mutated()
}

// DeletePost removes a post (and its owned comments) under the moderation
// rule.
func (s *CommandStore) DeletePost(postID, actorID string) {
	s.mu.Lock()
	var post *state.Post
	for i := range s.state.Posts {
		if s.state.Posts[i].ID == postID {
			post = &s.state.Posts[i]
			break
		}
	}
	actor := s.userByIDLocked(actorID)
	if post == nil || actor == nil || !rbac.CanModerate(actor, post.AuthorID) {
		s.mu.Unlock()
		return
	}
	title := post.Title
	posts := s.state.Posts[:0]
	for _, p := range s.state.Posts {
		if p.ID != postID {
			posts = append(posts, p)
		}
	}
	s.state.Posts = posts
	s.appendLogLocked("POST_DELETED", "Post deleted: "+title, actorID)
	s.mu.Unlock()
	s.mutated()
}

// AddComment appends to the post's comment list in arrival order. Any
// authenticated user may comment on any visible post.
func (s *CommandStore) AddComment(postID, content, authorID string) {
	s.mu.Lock()
	var post *state.Post
	for i := range s.state.Posts {
		if s.state.Posts[i].ID == postID {
			post = &s.state.Posts[i]
			break
		}
	}
	author := s.userByIDLocked(authorID)
	if post == nil || author == nil {
		s.mu.Unlock()
		return
	}
	post.Comments = append(post.Comments, state.Comment{
		ID:         state.NewID("comment"),
		Author:     author.FullName,
		AuthorID:   author.ID,
		AuthorRank: author.Rank,
		AuthorRole: author.Role,
		Content:    content,
		Timestamp:  s.now(),
	})
	s.mu.Unlock()
	s.mutated()
}
