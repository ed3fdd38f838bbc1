package markdown

import (
	"context"
	"embed"
	"io/fs"

	"github.com/goliatone/go-blog/internal/posts"
)

//go:embed fallback/*.md
var fallbackFS embed.FS

// FallbackPosts returns the bundled posts shown before the API answers.
// It panics if the embedded files cannot be parsed.
func FallbackPosts() []posts.Post {
	sub, err := fs.Sub(fallbackFS, "fallback")
	if err != nil {
		panic(err)
	}
	loaded, err := NewImporter(sub, ImporterConfig{}, nil).Load(context.Background())
	if err != nil {
		panic(err)
	}
	return loaded
}
