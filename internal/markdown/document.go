package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-blog/internal/posts"
)

// FrontMatter is the metadata envelope at the top of a post file.
type FrontMatter struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Author   string   `yaml:"author"`
	Excerpt  string   `yaml:"excerpt"`
	ReadTime string   `yaml:"readTime"`
	Tags     []string `yaml:"tags"`
	Category string   `yaml:"category"`
}

// Document is a parsed post file.
type Document struct {
	FrontMatter FrontMatter
	Body        []byte
}

// ParseDocument splits source into frontmatter and markdown body. Files
// without a frontmatter block yield an empty envelope and the whole source.
func ParseDocument(source []byte) (Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Document{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	return Document{
		FrontMatter: meta,
		Body:        bytes.TrimSpace(body),
	}, nil
}

// Post converts the document into a post. Missing read times are estimated
// from the body length.
func (d Document) Post() posts.Post {
	fm := d.FrontMatter
	post := posts.Post{
		Summary: posts.Summary{
			ID:       strings.TrimSpace(fm.ID),
			Title:    strings.TrimSpace(fm.Title),
			Date:     strings.TrimSpace(fm.Date),
			Author:   strings.TrimSpace(fm.Author),
			Excerpt:  strings.TrimSpace(fm.Excerpt),
			ReadTime: strings.TrimSpace(fm.ReadTime),
			Tags:     append([]string{}, fm.Tags...),
			Category: strings.TrimSpace(fm.Category),
		},
		Content: string(d.Body),
	}
	if post.ReadTime == "" && post.Content != "" {
		post.ReadTime = ReadTime(post.Content)
	}
	return post
}

const wordsPerMinute = 200

// ReadTime estimates reading time in the "N min read" form.
func ReadTime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
