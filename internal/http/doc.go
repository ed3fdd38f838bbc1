// Package http exposes the posts API over net/http.
//
// Routes:
//   - GET    /health
//   - GET    /posts
//   - GET    /posts/{id}
//   - GET    /posts/{id}/html
//   - POST   /posts
//   - PUT    /posts/{id}
//   - DELETE /posts/{id}
//
// Every response carries permissive CORS headers. Mutating routes sit behind
// the admin gate configured with WithAdmin.
package http
