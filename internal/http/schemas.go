package http

import "github.com/goliatone/go-blog/internal/validation"

// Field presence is checked by the posts service so a missing field keeps
// its dedicated message. The schemas only pin types.
const postPayloadSchema = `{
  "type": "object",
  "properties": {
    "title":    {"type": ["string", "null"]},
    "date":     {"type": ["string", "null"]},
    "author":   {"type": ["string", "null"]},
    "excerpt":  {"type": ["string", "null"]},
    "content":  {"type": ["string", "null"]},
    "readTime": {"type": ["string", "null"]},
    "category": {"type": ["string", "null"]},
    "tags": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    }
  }
}`

var postPayloadValidator = validation.MustValidator("post-payload.json", postPayloadSchema)
