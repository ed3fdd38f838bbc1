package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-blog/internal/app"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/route"
	"github.com/goliatone/go-blog/internal/views"
)

const rule = "----------------------------------------"

func renderFrame(w io.Writer, vm app.ViewModel) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s\n", route.Format(vm.Route))

	switch vm.Route.View {
	case route.ViewArticle:
		renderArticle(w, vm)
	case route.ViewArchives:
		for _, group := range vm.Archives {
			if group.Year == 0 {
				fmt.Fprintln(w, "Undated")
			} else {
				fmt.Fprintf(w, "%d\n", group.Year)
			}
			for _, post := range group.Posts {
				month, day := views.ArchiveDay(post.Date)
				fmt.Fprintf(w, "  %s %2s  %s  #/article/%s\n", month, day, post.Title, post.ID)
			}
		}
	case route.ViewTags:
		for _, tag := range vm.Tags {
			fmt.Fprintf(w, "  %s (%d)  %s\n", tag.Tag, tag.Count, route.FormatView(route.ViewTagged, tag.Tag))
		}
	case route.ViewCategories:
		for _, category := range vm.Categories {
			fmt.Fprintf(w, "  %s  %s  %s\n", category.Category, views.Plural(category.Count, "post", "posts"),
				route.FormatView(route.ViewCategory, category.Category))
		}
	case route.ViewTagged:
		fmt.Fprintf(w, "Tagged %q: %s\n", vm.Route.Tag, views.Plural(len(vm.Filtered), "article", "articles"))
		renderList(w, vm.Filtered)
	case route.ViewCategory:
		fmt.Fprintf(w, "Category %q\n", vm.Route.Category)
		if len(vm.Filtered) == 0 {
			fmt.Fprintln(w, "  No articles in this category yet.")
		}
		renderList(w, vm.Filtered)
	case route.ViewAbout:
		fmt.Fprintln(w, "A personal blog about software engineering.")
	case route.ViewAdmin:
		fmt.Fprintln(w, "Admin: use 'delete <id>' to remove a post.")
		renderList(w, vm.Posts)
	default:
		if vm.ListLoading && !vm.ListFetched {
			fmt.Fprintln(w, "(loading posts)")
		}
		renderList(w, vm.Posts)
	}
}

func renderList(w io.Writer, list []posts.Post) {
	for _, post := range list {
		fmt.Fprintf(w, "  %s  %s\n", views.FormatDate(post.Date), post.Title)
		if post.Excerpt != "" {
			fmt.Fprintf(w, "    %s\n", post.Excerpt)
		}
		fmt.Fprintf(w, "    %s | %s | #/article/%s\n", post.ReadTime, post.Category, post.ID)
	}
}

func renderArticle(w io.Writer, vm app.ViewModel) {
	switch {
	case vm.ArticleLoading:
		fmt.Fprintln(w, "(loading article)")
	case vm.ArticleError != "":
		fmt.Fprintf(w, "Error: %s\n", vm.ArticleError)
	case vm.Article == nil:
		fmt.Fprintln(w, "Article not found")
	default:
		post := vm.Article
		fmt.Fprintln(w, post.Title)
		fmt.Fprintf(w, "%s | %s | %s\n", post.Author, views.FormatDate(post.Date), post.ReadTime)
		if len(post.Tags) > 0 {
			fmt.Fprintf(w, "Tags: %s\n", strings.Join(post.Tags, ", "))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, post.Content)
	}
}
