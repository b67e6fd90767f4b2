// Package http provides the HTTP-backed pieces of the pipeline: the
// Reader-API and static-HTML extraction strategies, the robots.txt policy
// checker, and the image downloader.
package http

// Browser-like request conditioning shared by all outbound requests.
// Some news sites serve reduced or blocked pages to non-browser agents.
const (
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7"
)
