// Package views derives the index pages of the reader from a post
// collection. Every function is pure and keeps the input order of posts
// within the groups it builds.
package views

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/goliatone/go-blog/internal/posts"
)

// YearGroup is one section of the archive.
type YearGroup struct {
	// Year is zero for posts whose date cannot be parsed.
	Year  int
	Posts []posts.Post
}

// TagCount pairs a tag with the number of posts carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// CategoryCount pairs a category with its number of posts.
type CategoryCount struct {
	Category string
	Count    int
}

// Archives groups posts by year, newest year first. Undated posts come last.
func Archives(list []posts.Post) []YearGroup {
	index := make(map[int]int)
	var groups []YearGroup
	for _, post := range list {
		year := 0
		if t, ok := posts.ParseDate(post.Date); ok {
			year = t.Year()
		}
		i, ok := index[year]
		if !ok {
			i = len(groups)
			index[year] = i
			groups = append(groups, YearGroup{Year: year})
		}
		groups[i].Posts = append(groups[i].Posts, post)
	}

	slices.SortFunc(groups, func(a, b YearGroup) int {
		switch {
		case a.Year == 0:
			return 1
		case b.Year == 0:
			return -1
		default:
			return b.Year - a.Year
		}
	})
	return groups
}

// TagCounts counts tags across posts, sorted alphabetically in English
// collation order.
func TagCounts(list []posts.Post) []TagCount {
	counts := make(map[string]int)
	for _, post := range list {
		for _, tag := range post.Tags {
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}

	collator := collate.New(language.English)
	slices.SortFunc(out, func(a, b TagCount) int {
		if c := collator.CompareString(a.Tag, b.Tag); c != 0 {
			return c
		}
		return strings.Compare(a.Tag, b.Tag)
	})
	return out
}

// CategoryCounts counts posts per category in order of first appearance.
func CategoryCounts(list []posts.Post) []CategoryCount {
	index := make(map[string]int)
	var out []CategoryCount
	for _, post := range list {
		i, ok := index[post.Category]
		if !ok {
			i = len(out)
			index[post.Category] = i
			out = append(out, CategoryCount{Category: post.Category})
		}
		out[i].Count++
	}
	return out
}

// Tagged returns the posts carrying tag. Matching is exact.
func Tagged(list []posts.Post, tag string) []posts.Post {
	return filter(list, func(p posts.Post) bool {
		return slices.Contains(p.Tags, tag)
	})
}

// InCategory returns the posts filed under category.
func InCategory(list []posts.Post, category string) []posts.Post {
	return filter(list, func(p posts.Post) bool {
		return p.Category == category
	})
}

// Find returns the post with id.
func Find(list []posts.Post, id string) (posts.Post, bool) {
	for _, post := range list {
		if post.ID == id {
			return post, true
		}
	}
	return posts.Post{}, false
}

// HasContent reports whether the post with id is present with its body.
func HasContent(list []posts.Post, id string) bool {
	post, ok := Find(list, id)
	return ok && post.HasContent()
}

func filter(list []posts.Post, keep func(posts.Post) bool) []posts.Post {
	out := make([]posts.Post, 0)
	for _, post := range list {
		if keep(post) {
			out = append(out, post)
		}
	}
	return out
}
