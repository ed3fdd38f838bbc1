// Command blog-import loads markdown files with frontmatter into the
// configured post store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
)

var moduleBuilder = func(ctx context.Context, cfg blog.Config) (*blog.Module, error) {
	return blog.New(ctx, cfg)
}

func main() {
	if err := runImport(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("blog import: %v", err)
	}
}

func runImport(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("blog-import", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to a YAML or TOML config file")
	contentDir := fs.String("content-dir", "", "Directory holding markdown posts (defaults to markdown.content_dir)")
	pattern := fs.String("pattern", "", "Base-name glob for post files (defaults to markdown.pattern)")
	author := fs.String("author", "", "Author recorded on posts whose frontmatter has none")
	overwrite := fs.Bool("overwrite", false, "Replace posts that already exist")
	dryRun := fs.Bool("dry-run", false, "List the posts that would be imported without writing them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := blog.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Storage.SeedFallback = false
	if *contentDir == "" {
		*contentDir = cfg.Markdown.ContentDir
	}
	if *pattern == "" {
		*pattern = cfg.Markdown.Pattern
	}

	module, err := moduleBuilder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	importer := markdown.NewImporter(os.DirFS(*contentDir), markdown.ImporterConfig{
		Pattern: *pattern,
		Author:  *author,
	}, logging.MarkdownLogger(module.Container().LoggerProvider()))

	if *dryRun {
		loaded, err := importer.Load(ctx)
		if err != nil {
			return err
		}
		for _, post := range loaded {
			fmt.Fprintf(out, "%s\t%s\t%s\n", post.ID, post.Date, post.Title)
		}
		fmt.Fprintf(out, "dry run: %d posts\n", len(loaded))
		return nil
	}

	result, err := importer.Import(ctx, module.Posts(), *overwrite)
	if err != nil {
		return fmt.Errorf("import %s: %w", *contentDir, err)
	}
	fmt.Fprintf(out, "loaded=%d written=%d skipped=%d\n", result.Loaded, result.Written, result.Skipped)
	return nil
}
