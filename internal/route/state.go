// Package route maps location fragments such as "#/tag/Go" to view states
// and back. The fragment is the only source of truth: states are always
// derived from it and never stored authoritatively.
package route

import (
	"net/url"
	"strings"
)

// View names a screen of the reader.
type View string

const (
	ViewHome       View = "home"
	ViewArchives   View = "archives"
	ViewCategories View = "categories"
	ViewTags       View = "tags"
	ViewAbout      View = "about"
	ViewArticle    View = "article"
	ViewTagged     View = "tagged"
	ViewCategory   View = "category"
	ViewAdmin      View = "admin"
)

// State is the parsed form of a fragment. ArticleID, Tag and Category are
// set only for the article, tagged and category views.
type State struct {
	View      View   `json:"view"`
	ArticleID string `json:"articleId,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Category  string `json:"category,omitempty"`
}

// Home is the default state.
func Home() State {
	return State{View: ViewHome}
}

// Param returns the view parameter, if any.
func (s State) Param() string {
	switch s.View {
	case ViewArticle:
		return s.ArticleID
	case ViewTagged:
		return s.Tag
	case ViewCategory:
		return s.Category
	default:
		return ""
	}
}

// Parse derives a state from a fragment. Unknown, incomplete or undecodable
// fragments resolve to the home view.
func Parse(fragment string) State {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" || fragment == "/" {
		return Home()
	}

	segments := splitSegments(fragment)
	if len(segments) == 0 {
		return Home()
	}

	switch head := segments[0]; head {
	case "article":
		if len(segments) > 1 {
			// ids are opaque and never decoded
			return State{View: ViewArticle, ArticleID: segments[1]}
		}
	case "tag":
		if len(segments) > 1 {
			if tag, ok := decode(segments[1]); ok {
				return State{View: ViewTagged, Tag: tag}
			}
		}
	case "category":
		if len(segments) > 1 {
			if category, ok := decode(segments[1]); ok {
				return State{View: ViewCategory, Category: category}
			}
		}
	case string(ViewArchives), string(ViewCategories), string(ViewTags), string(ViewAbout), string(ViewAdmin):
		return State{View: View(head)}
	}
	return Home()
}

// Format renders a state as a fragment. States missing their required
// parameter render as the home fragment.
func Format(s State) string {
	switch s.View {
	case ViewArticle:
		if s.ArticleID != "" {
			return "#/article/" + s.ArticleID
		}
	case ViewTagged:
		if s.Tag != "" {
			return "#/tag/" + url.PathEscape(s.Tag)
		}
	case ViewCategory:
		if s.Category != "" {
			return "#/category/" + url.PathEscape(s.Category)
		}
	case ViewArchives, ViewCategories, ViewTags, ViewAbout, ViewAdmin:
		return "#/" + string(s.View)
	}
	return "#/"
}

// FormatView renders view with its parameter.
func FormatView(view View, param string) string {
	return Format(stateFor(view, param))
}

// Permalink returns an absolute link to an article. Any fragment already on
// base is replaced.
func Permalink(base, id string) string {
	if idx := strings.IndexByte(base, '#'); idx >= 0 {
		base = base[:idx]
	}
	return base + FormatView(ViewArticle, id)
}

func stateFor(view View, param string) State {
	state := State{View: view}
	switch view {
	case ViewArticle:
		state.ArticleID = param
	case ViewTagged:
		state.Tag = param
	case ViewCategory:
		state.Category = param
	}
	return state
}

func splitSegments(fragment string) []string {
	parts := strings.Split(fragment, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func decode(segment string) (string, bool) {
	value, err := url.PathUnescape(segment)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
