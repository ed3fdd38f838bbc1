// Package resolver supplies the post data views need. PostList keeps the
// collection (seeded with fallback posts and replaced by successful fetches)
// and PostLoader resolves single posts with stale-response suppression.
// Neither lets a fetch error escape: failures land in snapshots or logs.
package resolver
