// Package markdown renders post bodies to HTML and reads posts written as
// markdown files with a YAML frontmatter envelope. The bundled fallback posts
// live under fallback/ and are embedded into the binary.
package markdown
