package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/nao1215/imgsaveas/internal/menu"
	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/platform"
	"github.com/nao1215/imgsaveas/internal/settings"
)

func testService(t *testing.T, downloads *fakeDownloads) *Service {
	t.Helper()

	return NewService(Dependencies{
		Store:     settings.NewMemoryStore(),
		Fetcher:   &fakeFetcher{body: pngBytes(t, 3, 3), contentType: "image/png"},
		Downloads: downloads,
	}, nil)
}

func serviceDispatch(service *Service) DispatchFunc {
	return func(ctx context.Context, job Job) {
		service.SaveWithCustomExtension(ctx, job.URL, job.FormatKey)
	}
}

// TestBatchProcessorNew tests constructor defaults and options.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, Job) {}

	t.Run("default concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(noop)
		if bp.concurrency != 4 {
			t.Errorf("expected concurrency 4, got %d", bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("WithConcurrency ignores non-positive values", func(t *testing.T) {
		t.Parallel()

		if bp := NewBatchProcessor(noop, WithConcurrency(0)); bp.concurrency != 4 {
			t.Errorf("expected concurrency 4, got %d", bp.concurrency)
		}
		if bp := NewBatchProcessor(noop, WithConcurrency(2)); bp.concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", bp.concurrency)
		}
	})
}

// TestBatchProcessorProcessBatch tests ordering and failure isolation.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	downloads := &fakeDownloads{}
	bp := NewBatchProcessor(serviceDispatch(testService(t, downloads)), WithConcurrency(2))

	jobs := []Job{
		{URL: "https://example.com/one.png", FormatKey: "jpeg"},
		{URL: "https://example.com/two.png", FormatKey: "gif"},
		{URL: "https://example.com/three.png", FormatKey: "webp"},
	}
	results, err := bp.ProcessBatch(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, conv := range results {
		if conv == nil {
			t.Fatalf("expected a conversion for job %d", i)
		}
	}

	if results[0].Failed() || results[0].Request.FileName != "one.jpg" {
		t.Errorf("unexpected first result: %+v", results[0].Request)
	}
	if !errors.Is(results[1].Error, ErrUnsupportedFormat) {
		t.Errorf("expected second job to fail with ErrUnsupportedFormat, got %v", results[1].Error)
	}
	if results[2].Failed() || results[2].Request.FileName != "three.webp" {
		t.Errorf("unexpected third result: %+v", results[2].Request)
	}
	if len(downloads.calls) != 2 {
		t.Errorf("expected 2 downloads, got %d", len(downloads.calls))
	}
}

// TestBatchProcessorThroughMenuClicks tests a batch dispatched as menu
// clicks: clicks the menu ignores leave a nil entry.
func TestBatchProcessorThroughMenuClicks(t *testing.T) {
	t.Parallel()

	downloads := &fakeDownloads{}
	service := testService(t, downloads)

	host := platform.NewHost()
	store := settings.NewMemoryStore()
	menu.NewRegistrar(platform.NewMenuRegistry(), store, service).Register(host)

	ctx := context.Background()
	host.Startup(ctx)

	bp := NewBatchProcessor(func(ctx context.Context, job Job) {
		host.Click(ctx, model.ClickInfo{
			MenuItemID: menu.ItemPrefix + job.FormatKey,
			SrcURL:     job.URL,
		})
	}, WithConcurrency(3))

	jobs := []Job{
		{URL: "https://example.com/a.png", FormatKey: "png"},
		{URL: "", FormatKey: "png"},
		{URL: "https://example.com/c.png", FormatKey: "gif"},
		{URL: "https://example.com/d.png", FormatKey: "jpeg"},
	}
	results, err := bp.ProcessBatch(ctx, jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0] == nil || results[0].Request.FileName != "a.png" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1] != nil {
		t.Errorf("expected click without source to be dropped, got %+v", results[1])
	}
	if results[2] != nil {
		t.Errorf("expected click on unknown format to be dropped, got %+v", results[2])
	}
	if results[3] == nil || results[3].Request.FileName != "d.jpg" {
		t.Errorf("unexpected fourth result: %+v", results[3])
	}
	if len(downloads.calls) != 2 {
		t.Errorf("expected 2 downloads, got %d", len(downloads.calls))
	}
}

// TestBatchProcessorConcurrentJobs tests that every job gets its own result.
func TestBatchProcessorConcurrentJobs(t *testing.T) {
	t.Parallel()

	var dispatched atomic.Int32
	bp := NewBatchProcessor(func(ctx context.Context, job Job) {
		dispatched.Add(1)
		Report(ctx, model.NewConversion(job.URL, job.FormatKey))
	}, WithConcurrency(3))

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{URL: "https://example.com/" + string(rune('a'+i)) + ".png", FormatKey: "png"}
	}

	results, err := bp.ProcessBatch(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dispatched.Load() != 5 {
		t.Errorf("expected 5 dispatches, got %d", dispatched.Load())
	}
	for i, conv := range results {
		if conv == nil || conv.SourceURL != jobs[i].URL {
			t.Errorf("job %d: unexpected result %+v", i, conv)
		}
	}
}

// TestReportOutsideBatch tests that Report without a batch is a no-op.
func TestReportOutsideBatch(t *testing.T) {
	t.Parallel()

	Report(context.Background(), model.NewConversion("https://example.com/a.png", "png"))
}

// TestBatchProcessorCancelled tests that a cancelled batch reports the cancellation.
func TestBatchProcessorCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(serviceDispatch(testService(t, &fakeDownloads{})))
	if _, err := bp.ProcessBatch(ctx, []Job{{URL: "https://example.com/a.png", FormatKey: "png"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
