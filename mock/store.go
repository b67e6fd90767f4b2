package mock

import (
	"context"

	"github.com/sensa-code/climb"
)

var _ climb.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is a mock implementation of climb.ArticleStore.
type ArticleStore struct {
	SaveFn func(ctx context.Context, article *climb.Article) (string, error)
}

func (s *ArticleStore) Save(ctx context.Context, article *climb.Article) (string, error) {
	return s.SaveFn(ctx, article)
}

var _ climb.Ledger = (*Ledger)(nil)

// Ledger is a mock implementation of climb.Ledger.
type Ledger struct {
	IsFetchedFn   func(url string) bool
	MarkFetchedFn func(url string) error
}

func (l *Ledger) IsFetched(url string) bool {
	return l.IsFetchedFn(url)
}

func (l *Ledger) MarkFetched(url string) error {
	return l.MarkFetchedFn(url)
}

var _ climb.ImageDownloader = (*ImageDownloader)(nil)

// ImageDownloader is a mock implementation of climb.ImageDownloader.
type ImageDownloader struct {
	DownloadFn func(ctx context.Context, imageURL, destPath, referer string) error
}

func (d *ImageDownloader) Download(ctx context.Context, imageURL, destPath, referer string) error {
	return d.DownloadFn(ctx, imageURL, destPath, referer)
}

var _ climb.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of climb.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(result *climb.BatchResult) (string, error)
}

func (w *ReportWriter) WriteReport(result *climb.BatchResult) (string, error) {
	return w.WriteReportFn(result)
}
