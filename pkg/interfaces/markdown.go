package interfaces

// MarkdownRenderer converts post bodies into HTML fragments.
// Implementations must be safe for concurrent use.
type MarkdownRenderer interface {
	Render(markdown []byte) ([]byte, error)
}

// RenderOptions customises Markdown rendering. Option names stay readable for
// configuration unmarshalling and CLI flags.
type RenderOptions struct {
	Extensions []string `yaml:"extensions" toml:"extensions" json:"extensions,omitempty"`
	HardWraps  bool     `yaml:"hard_wraps" toml:"hard_wraps" json:"hard_wraps,omitempty"`
	// Sanitize runs the rendered HTML through a UGC allow-list policy.
	Sanitize bool `yaml:"sanitize" toml:"sanitize" json:"sanitize,omitempty"`
	// Highlight marks up fenced code with chroma token classes and line numbers.
	Highlight      bool   `yaml:"highlight" toml:"highlight" json:"highlight,omitempty"`
	HighlightStyle string `yaml:"highlight_style" toml:"highlight_style" json:"highlight_style,omitempty"`
}
