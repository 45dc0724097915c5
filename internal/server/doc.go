// Package server exposes comparisons and page scraping over HTTP.
//
// Endpoints:
//
//	GET /compare?url1=&url2=&bits=&bytes=  ComparisonReport as JSON
//	GET /scrape?url=                        scraped items as JSON
//	GET /metrics                            Prometheus metrics
//	GET /healthz                            "ok"
//
// /compare and /scrape send Access-Control-Allow-Origin: * so that a
// browser front end on another origin can call them directly.
package server
