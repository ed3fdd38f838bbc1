package posts

import (
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultReadTime = "5 min read"
	DefaultCategory = "Uncategorized"
)

// Summary is the list projection of a post. It never carries the body.
type Summary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Author   string   `json:"author"`
	Excerpt  string   `json:"excerpt"`
	ReadTime string   `json:"readTime"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// Post is a full article. Content holds markdown and may be empty when the
// value came from a list response.
type Post struct {
	Summary
	Content string `json:"content,omitempty"`
}

// HasContent reports whether the post carries a body.
func (p Post) HasContent() bool {
	return p.Content != ""
}

// Summarize strips the body.
func (p Post) Summarize() Summary {
	s := p.Summary
	s.Tags = slices.Clone(p.Tags)
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return s
}

// CreatePostRequest captures the fields accepted when authoring a post.
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Author   string   `json:"author"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	ReadTime string   `json:"readTime,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category,omitempty"`
}

// Validate ensures the five required fields are present.
func (req CreatePostRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.Author, validation.Required),
		validation.Field(&req.Excerpt, validation.Required),
		validation.Field(&req.Content, validation.Required),
	)
	if err != nil {
		return wrapValidationError(ErrMissingFields, err)
	}
	return nil
}

func (req CreatePostRequest) post(id string) Post {
	post := Post{
		Summary: Summary{
			ID:       id,
			Title:    req.Title,
			Date:     req.Date,
			Author:   req.Author,
			Excerpt:  req.Excerpt,
			ReadTime: req.ReadTime,
			Tags:     slices.Clone(req.Tags),
			Category: req.Category,
		},
		Content: req.Content,
	}
	applyDefaults(&post)
	return post
}

// UpdatePostRequest is a partial update. Nil fields keep the stored value.
type UpdatePostRequest struct {
	Title    *string   `json:"title,omitempty"`
	Date     *string   `json:"date,omitempty"`
	Author   *string   `json:"author,omitempty"`
	Excerpt  *string   `json:"excerpt,omitempty"`
	Content  *string   `json:"content,omitempty"`
	ReadTime *string   `json:"readTime,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Category *string   `json:"category,omitempty"`
}

// Empty reports whether the request changes nothing.
func (req UpdatePostRequest) Empty() bool {
	return req.Title == nil && req.Date == nil && req.Author == nil && req.Excerpt == nil &&
		req.Content == nil && req.ReadTime == nil && req.Tags == nil && req.Category == nil
}

// apply merges the request onto post. The id is never touched.
func (req UpdatePostRequest) apply(post Post) Post {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&post.Title, req.Title)
	set(&post.Date, req.Date)
	set(&post.Author, req.Author)
	set(&post.Excerpt, req.Excerpt)
	set(&post.Content, req.Content)
	set(&post.ReadTime, req.ReadTime)
	set(&post.Category, req.Category)
	if req.Tags != nil {
		post.Tags = slices.Clone(*req.Tags)
	}
	return post
}

func applyDefaults(post *Post) {
	if strings.TrimSpace(post.ReadTime) == "" {
		post.ReadTime = DefaultReadTime
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if strings.TrimSpace(post.Category) == "" {
		post.Category = DefaultCategory
	}
}
