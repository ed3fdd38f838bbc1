package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrNoDocuments is returned when a directory holds no matching files.
var ErrNoDocuments = errors.New("markdown: no documents found")

// ImporterConfig configures file discovery.
type ImporterConfig struct {
	// Pattern limits discovered files (defaults to "*.md"). It is matched
	// against base names.
	Pattern string
	// Author fills posts whose frontmatter has none.
	Author string
}

// Importer reads post files from a filesystem.
type Importer struct {
	fs      fs.FS
	pattern string
	author  string
	title   cases.Caser
	logger  interfaces.Logger
}

// NewImporter constructs an importer over filesystem.
func NewImporter(filesystem fs.FS, cfg ImporterConfig, logger interfaces.Logger) *Importer {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Importer{
		fs:      filesystem,
		pattern: pattern,
		author:  strings.TrimSpace(cfg.Author),
		title:   cases.Title(language.English),
		logger:  logging.Or(logger),
	}
}

// Load walks the filesystem and returns one post per matching file, in
// lexical path order. Ids and titles missing from the frontmatter are derived
// from the file name.
func (i *Importer) Load(ctx context.Context) ([]posts.Post, error) {
	var out []posts.Post
	err := fs.WalkDir(i.fs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := path.Match(i.pattern, d.Name()); !ok {
			return nil
		}

		post, err := i.loadFile(p)
		if err != nil {
			return err
		}
		logging.WithMarkdownSource(i.logger, p).Debug("markdown.loaded", "post_id", post.ID)
		out = append(out, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoDocuments
	}
	return out, nil
}

func (i *Importer) loadFile(p string) (posts.Post, error) {
	source, err := fs.ReadFile(i.fs, p)
	if err != nil {
		return posts.Post{}, fmt.Errorf("markdown read %s: %w", p, err)
	}
	doc, err := ParseDocument(source)
	if err != nil {
		return posts.Post{}, fmt.Errorf("markdown %s: %w", p, err)
	}

	post := doc.Post()
	stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if post.ID == "" {
		id, err := slug.Normalize(stem)
		if err != nil || id == "" {
			return posts.Post{}, fmt.Errorf("markdown %s: cannot derive id from file name", p)
		}
		post.ID = id
	}
	if post.Title == "" {
		post.Title = i.title.String(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
	}
	if post.Author == "" {
		post.Author = i.author
	}
	return post, nil
}

// ImportResult summarises an import run.
type ImportResult struct {
	Loaded  int
	Written int
	Skipped int
}

// Import loads every file and stores it through svc. Existing posts are kept
// unless overwrite is set.
func (i *Importer) Import(ctx context.Context, svc posts.Service, overwrite bool) (ImportResult, error) {
	loaded, err := i.Load(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Loaded: len(loaded)}
	if !overwrite {
		written, err := svc.Seed(ctx, loaded)
		result.Written = written
		result.Skipped = len(loaded) - written
		return result, err
	}

	for _, post := range loaded {
		if _, err := svc.Save(ctx, post); err != nil {
			return result, fmt.Errorf("markdown import %s: %w", post.ID, err)
		}
		result.Written++
	}
	return result, nil
}
