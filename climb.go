// Package climb provides a layered article extraction pipeline for
// heterogeneous web sources (forums, blogs, news sites, JS-rendered pages).
// It classifies a URL to a source platform, runs extraction strategies in
// priority order with retry and fallback, normalizes content to markdown,
// and persists articles on disk with rehomed images and dedup tracking.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, fs/).
package climb
