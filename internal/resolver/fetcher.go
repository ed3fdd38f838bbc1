package resolver

import (
	"context"

	"github.com/goliatone/go-blog/internal/posts"
)

// ListFetcher retrieves the authoritative post list. Entries may omit content.
type ListFetcher interface {
	ListPosts(ctx context.Context) ([]posts.Post, error)
}

// PostFetcher retrieves one post with its content.
type PostFetcher interface {
	GetPost(ctx context.Context, id string) (posts.Post, error)
}

// ListFetcherFunc adapts a function to ListFetcher.
type ListFetcherFunc func(ctx context.Context) ([]posts.Post, error)

func (f ListFetcherFunc) ListPosts(ctx context.Context) ([]posts.Post, error) {
	return f(ctx)
}

// PostFetcherFunc adapts a function to PostFetcher.
type PostFetcherFunc func(ctx context.Context, id string) (posts.Post, error)

func (f PostFetcherFunc) GetPost(ctx context.Context, id string) (posts.Post, error) {
	return f(ctx, id)
}
