package app

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/route"
	"github.com/goliatone/go-blog/internal/views"
)

// ErrEditorUnavailable is returned by admin operations when no Editor is wired.
var ErrEditorUnavailable = errors.New("app: no editor configured")

// Editor performs the administrative writes.
type Editor interface {
	GetPost(ctx context.Context, id string) (posts.Post, error)
	CreatePost(ctx context.Context, req posts.CreatePostRequest) (posts.Post, error)
	UpdatePost(ctx context.Context, id string, req posts.UpdatePostRequest) (posts.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// EditablePost returns the post with its body for the edit form. List
// entries without content are fetched in full.
func (s *Shell) EditablePost(ctx context.Context, id string) (posts.Post, error) {
	if post, ok := views.Find(s.list.Snapshot().Posts, id); ok && post.HasContent() {
		return post, nil
	}
	if s.editor == nil {
		return posts.Post{}, ErrEditorUnavailable
	}
	return s.editor.GetPost(ctx, id)
}

// Publish creates a post and refreshes the list.
func (s *Shell) Publish(ctx context.Context, req posts.CreatePostRequest) (posts.Post, error) {
	if s.editor == nil {
		return posts.Post{}, ErrEditorUnavailable
	}
	post, err := s.editor.CreatePost(ctx, req)
	if err != nil {
		return posts.Post{}, err
	}
	s.afterWrite(ctx, post.ID)
	return post, nil
}

// Edit updates a post and refreshes the list and, when it is open, the article.
func (s *Shell) Edit(ctx context.Context, id string, req posts.UpdatePostRequest) (posts.Post, error) {
	if s.editor == nil {
		return posts.Post{}, ErrEditorUnavailable
	}
	post, err := s.editor.UpdatePost(ctx, id, req)
	if err != nil {
		return posts.Post{}, err
	}
	s.afterWrite(ctx, id)
	return post, nil
}

// Remove deletes a post and refreshes the list.
func (s *Shell) Remove(ctx context.Context, id string) error {
	if s.editor == nil {
		return ErrEditorUnavailable
	}
	if err := s.editor.DeletePost(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, id)
	return nil
}

func (s *Shell) afterWrite(ctx context.Context, id string) {
	if err := s.list.Refresh(ctx); err != nil {
		s.logger.Warn("app.refresh_failed", "error", err)
	}
	state := s.Route()
	if state.View == route.ViewArticle && state.ArticleID == id {
		s.loader.Reload(ctx)
	}
}
