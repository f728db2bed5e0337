package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ylens/api/internal/infra/fetchers"
	"github.com/a11ylens/api/internal/infra/memory"
	"github.com/a11ylens/api/pkg/domain/scan"
	"github.com/a11ylens/api/pkg/domain/shared"
	"github.com/a11ylens/api/pkg/logger"
)

// stubFetcher serves canned markup per URL, or a fixed error.
type stubFetcher struct {
	pages map[string]string
	err   error
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if page, ok := f.pages[rawURL]; ok {
		return page, nil
	}
	return "<html lang=\"en\"><head><title>Stub</title></head><body><main><h1>S</h1></main></body></html>", nil
}

func newScanService(fetcher PageFetcher) (*ScanService, *memory.ScanRepository) {
	repo := memory.NewScanRepository(100)
	return NewScanService(fetcher, repo, logger.NewNop()), repo
}

func TestScanServicePersistsRecord(t *testing.T) {
	svc, repo := newScanService(&stubFetcher{pages: map[string]string{
		"https://example.com": `<html><head><title>Test</title></head><body><img src="x.png"></body></html>`,
	}})

	rec, err := svc.Scan(context.Background(), ScanInput{URL: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", rec.TargetURL)
	assert.Equal(t, "example.com", rec.Host)
	assert.Equal(t, scan.LevelNonCompliant, rec.Level, "missing alt text is critical")

	count, err := repo.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err := svc.GetScan(context.Background(), rec.ID.String())
	require.NoError(t, err)
	assert.Equal(t, rec.ID, found.ID)
}

func TestScanServiceInvalidURL(t *testing.T) {
	svc, repo := newScanService(&stubFetcher{})

	_, err := svc.Scan(context.Background(), ScanInput{URL: "ftp://example.com"})
	assert.True(t, shared.IsInvalidInput(err))

	count, _ := repo.Count(context.Background(), "")
	assert.Zero(t, count, "failed scans are not persisted")
}

func TestScanServiceFetchFailure(t *testing.T) {
	fetchErr := &fetchers.FetchError{Kind: fetchers.KindTimeout, URL: "https://slow.example.com"}
	svc, repo := newScanService(&stubFetcher{err: fetchErr})

	_, err := svc.Scan(context.Background(), ScanInput{URL: "slow.example.com"})
	got, ok := fetchers.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, fetchers.KindTimeout, got.Kind)

	count, _ := repo.Count(context.Background(), "")
	assert.Zero(t, count)
}

func TestScanServiceGetScanBadID(t *testing.T) {
	svc, _ := newScanService(&stubFetcher{})

	_, err := svc.GetScan(context.Background(), "not-a-uuid")
	assert.True(t, shared.IsInvalidInput(err))
}

func TestScanServiceHistoryFilter(t *testing.T) {
	svc, _ := newScanService(&stubFetcher{})
	ctx := context.Background()

	for _, url := range []string{"https://shop.example.com", "https://blog.example.com"} {
		_, err := svc.Scan(ctx, ScanInput{URL: url})
		require.NoError(t, err)
	}

	result, err := svc.History(ctx, "shop", 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "https://shop.example.com", result.Data[0].TargetURL)
	assert.Equal(t, int64(1), result.Total)

	result, err = svc.History(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, result.Data, 2, "out-of-range paging falls back to the defaults")
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 50, result.PerPage)
	assert.Equal(t, 1, result.TotalPages)
}

func TestScanServiceTrend(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{}}
	svc, _ := newScanService(fetcher)
	ctx := context.Background()

	fetcher.pages["https://example.com"] = `<html><head></head><body><img src="x.png"></body></html>`
	_, err := svc.Scan(ctx, ScanInput{URL: "example.com"})
	require.NoError(t, err)

	report, err := svc.Trend(ctx, "example.com")
	require.NoError(t, err)
	assert.Nil(t, report.Trend, "a single scan has no trend")
	assert.Len(t, report.DataPoints, 1)
	assert.Empty(t, report.Diffs)

	fetcher.pages["https://example.com"] = cleanishPage
	_, err = svc.Scan(ctx, ScanInput{URL: "example.com"})
	require.NoError(t, err)

	report, err = svc.Trend(ctx, "example.com")
	require.NoError(t, err)
	require.NotNil(t, report.Trend)
	assert.Equal(t, scan.DirectionImproving, report.Trend.Direction)
	assert.Len(t, report.DataPoints, 2)
	require.Len(t, report.Diffs, 1)
	assert.NotEmpty(t, report.Diffs[0].Fixed)
}

const cleanishPage = `<html lang="en"><head><title>Fixed</title>
<meta name="viewport" content="width=device-width"></head>
<body><a href="#main">Skip to content</a><main id="main"><h1>Fixed</h1>
<img src="x.png" alt="A described image"></main></body></html>`
