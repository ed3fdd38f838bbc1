// Command blog is a terminal reader for the blog API. Lines read from stdin
// are fragments ("#/tags", "/article/3") or commands (back, forward,
// refresh, share, delete <id>, help, quit).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-blog/internal/app"
	"github.com/goliatone/go-blog/internal/client"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/route"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var errOffline = errors.New("blog: offline mode")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runReader(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("blog: %v", err)
	}
}

type reader struct {
	cfg      runtimeconfig.Config
	location *route.MemoryLocation
	routes   *route.Resolver
	list     *resolver.PostList
	shell    *app.Shell
	frames   chan struct{}
	wait     time.Duration
	out      io.Writer
}

func runReader(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("blog", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to a YAML or TOML config file")
	baseURL := fs.String("base-url", "", "API base URL (overrides config)")
	token := fs.String("token", "", "Bearer token sent to the API (overrides config)")
	siteURL := fs.String("site-url", "", "Public blog URL used for shared permalinks (overrides config)")
	fragment := fs.String("fragment", "#/", "Initial location fragment")
	offline := fs.Bool("offline", false, "Read the built-in posts without contacting the API")
	verbose := fs.Bool("v", false, "Log resolver activity to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := runtimeconfig.Load(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Client.Token = *token
	}
	if *siteURL != "" {
		cfg.Client.SiteURL = *siteURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	var provider interfaces.LoggerProvider
	if *verbose {
		level := console.LevelDebug
		provider = console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &level})
	}

	api, err := client.New(cfg.Client.BaseURL,
		client.WithToken(cfg.Client.Token),
		client.WithTimeout(cfg.Client.Timeout),
		client.WithLogger(logging.ClientLogger(provider)),
	)
	if err != nil {
		return err
	}

	var (
		listFetcher resolver.ListFetcher = api
		postFetcher resolver.PostFetcher = api
	)
	if *offline {
		listFetcher = resolver.ListFetcherFunc(func(context.Context) ([]posts.Post, error) {
			return nil, errOffline
		})
		postFetcher = resolver.PostFetcherFunc(func(context.Context, string) (posts.Post, error) {
			return posts.Post{}, errOffline
		})
	}

	resolverLogger := logging.ResolverLogger(provider)
	location := route.NewMemoryLocation(*fragment)
	routes := route.NewResolver(location, route.WithLogger(logging.RouteLogger(provider)))
	list := resolver.NewPostList(listFetcher, markdown.FallbackPosts(), resolver.WithLogger(resolverLogger))
	loader := resolver.NewPostLoader(postFetcher, resolver.WithLogger(resolverLogger))

	shellOpts := []app.Option{app.WithLogger(logging.ModuleLogger(provider, "blog.app"))}
	if !*offline {
		shellOpts = append(shellOpts, app.WithEditor(api))
	}

	r := &reader{
		cfg:      cfg,
		location: location,
		routes:   routes,
		list:     list,
		shell:    app.NewShell(routes, list, loader, shellOpts...),
		frames:   make(chan struct{}, 1),
		wait:     cfg.Client.Timeout + time.Second,
		out:      out,
	}
	return r.run(ctx, in)
}

func (r *reader) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- r.shell.Run(ctx, func(app.ViewModel) {
			select {
			case r.frames <- struct{}{}:
			default:
			}
		})
	}()

	renderFrame(r.out, r.settle(ctx, r.routes.Current(), true))

	lines := bufio.NewScanner(in)
	for lines.Scan() {
		quit, err := r.handle(ctx, strings.TrimSpace(lines.Text()))
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		if quit {
			break
		}
	}

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return lines.Err()
}

func (r *reader) handle(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch {
	case strings.HasPrefix(line, "#") || strings.HasPrefix(line, "/"):
		r.navigate(ctx, func() { r.location.Push(line) })
	case command == "back":
		r.navigate(ctx, func() {
			if !r.location.Back() {
				fmt.Fprintln(r.out, "(no earlier page)")
			}
		})
	case command == "forward":
		r.navigate(ctx, func() {
			if !r.location.Forward() {
				fmt.Fprintln(r.out, "(no later page)")
			}
		})
	case command == "refresh":
		if err := r.list.Refresh(ctx); err != nil {
			fmt.Fprintf(r.out, "(showing saved posts: %v)\n", err)
		}
		renderFrame(r.out, r.settle(ctx, r.routes.Current(), false))
	case command == "share":
		state := r.routes.Current()
		if state.View != route.ViewArticle {
			return false, errors.New("share works on an open article")
		}
		fmt.Fprintln(r.out, route.Permalink(r.cfg.Client.PermalinkBase(), state.ArticleID))
	case command == "delete":
		if arg == "" {
			return false, errors.New("usage: delete <id>")
		}
		if err := r.shell.Remove(ctx, arg); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "Post deleted successfully")
		renderFrame(r.out, r.settle(ctx, r.routes.Current(), false))
	case command == "help":
		fmt.Fprintln(r.out, "fragments: #/ #/archives #/categories #/tags #/about #/article/<id> #/tag/<tag> #/category/<name>")
		fmt.Fprintln(r.out, "commands: back forward refresh share delete <id> quit")
	case command == "quit" || command == "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try help)", command)
	}
	return false, nil
}

// navigate applies move and renders once the shell has caught up with the
// new location. Moves that leave the fragment unchanged re-render in place.
func (r *reader) navigate(ctx context.Context, move func()) {
	before := r.location.Fragment()
	move()
	if r.location.Fragment() == before {
		renderFrame(r.out, r.shell.View())
		return
	}
	renderFrame(r.out, r.settle(ctx, r.routes.Current(), false))
}

// settle waits until the view model reflects want with nothing loading, or
// until the wait budget runs out.
func (r *reader) settle(ctx context.Context, want route.State, first bool) app.ViewModel {
	timeout := time.NewTimer(r.wait)
	defer timeout.Stop()
	for {
		vm := r.shell.View()
		if vm.Route == want && !vm.ArticleLoading && !vm.ListLoading && (!first || vm.ListFetched) {
			return vm
		}
		select {
		case <-r.frames:
		case <-timeout.C:
			return vm
		case <-ctx.Done():
			return vm
		}
	}
}
