// Package scrape lists the links and images of a single HTML page.
//
// It is the discovery side of urlprint: `urlprint scrape URL` (and the
// /scrape endpoint of `urlprint serve`) returns every a[href] and img[src]
// of a page with absolute URLs, so that candidates for `urlprint compare`
// can be picked from it.
//
// Only the given page is fetched. Links are never followed.
package scrape
