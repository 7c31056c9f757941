package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/imgsaveas/internal/dataurl"
	"github.com/nao1215/imgsaveas/internal/model"
)

// maxUniquifyAttempts bounds the "name (n).ext" search.
const maxUniquifyAttempts = 1000

// SaveAsPrompter stands in for the browser's save dialog.
type SaveAsPrompter interface {
	// PromptSaveAs returns the path to write to. suggested is an absolute
	// path inside the download directory. Returning ErrDownloadCanceled
	// aborts the download.
	PromptSaveAs(ctx context.Context, suggested string) (string, error)
}

// HistoryRecorder persists finished downloads.
type HistoryRecorder interface {
	InsertDownload(ctx context.Context, record *model.DownloadRecord) (int64, error)
}

// AcceptPrompter accepts every suggestion unchanged.
type AcceptPrompter struct{}

// PromptSaveAs implements SaveAsPrompter.
func (AcceptPrompter) PromptSaveAs(_ context.Context, suggested string) (string, error) {
	return suggested, nil
}

// TerminalPrompter asks for the destination on a terminal.
// An empty answer accepts the suggestion; "-" cancels.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	once   sync.Once
	reader *bufio.Reader
}

// PromptSaveAs implements SaveAsPrompter.
func (p *TerminalPrompter) PromptSaveAs(ctx context.Context, suggested string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.once.Do(func() {
		p.reader = bufio.NewReader(p.In)
	})

	if _, err := fmt.Fprintf(p.Out, "Save as [%s]: ", suggested); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	answer := strings.TrimSpace(line)
	switch answer {
	case "":
		return suggested, nil
	case "-":
		return "", ErrDownloadCanceled
	}
	return answer, nil
}

// FileDownloads writes downloads into a directory.
// Existing files are never overwritten: a conflicting name gets a
// " (n)" suffix before its extension.
type FileDownloads struct {
	dir      string
	prompter SaveAsPrompter
	history  HistoryRecorder
	logger   *slog.Logger
	now      func() time.Time

	// mu serializes name selection and file creation.
	mu     sync.Mutex
	nextID atomic.Int64
}

// DownloadsOption configures FileDownloads.
type DownloadsOption func(*FileDownloads)

// WithPrompter sets the save dialog used when SaveAs is requested.
func WithPrompter(p SaveAsPrompter) DownloadsOption {
	return func(d *FileDownloads) {
		d.prompter = p
	}
}

// WithHistory records each download. The history row id becomes the
// download id.
func WithHistory(h HistoryRecorder) DownloadsOption {
	return func(d *FileDownloads) {
		d.history = h
	}
}

// WithDownloadsLogger sets the logger.
func WithDownloadsLogger(logger *slog.Logger) DownloadsOption {
	return func(d *FileDownloads) {
		d.logger = logger
	}
}

// NewFileDownloads creates a FileDownloads writing into dir.
func NewFileDownloads(dir string, opts ...DownloadsOption) *FileDownloads {
	d := &FileDownloads{
		dir:      dir,
		prompter: AcceptPrompter{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the download directory.
func (d *FileDownloads) Dir() string {
	return d.dir
}

// Download implements Downloads.
func (d *FileDownloads) Download(ctx context.Context, opts DownloadOptions) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !dataurl.IsDataURL(opts.URL) {
		return 0, ErrUnsupportedDownloadURL
	}
	if err := ValidateFilename(opts.Filename); err != nil {
		return 0, err
	}

	mediaType, data, err := dataurl.Decode(opts.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to decode download URL: %w", err)
	}

	target := filepath.Join(d.dir, opts.Filename)
	if opts.SaveAs && d.prompter != nil {
		chosen, err := d.prompter.PromptSaveAs(ctx, target)
		if err != nil {
			return 0, err
		}
		if !filepath.IsAbs(chosen) {
			chosen = filepath.Join(d.dir, chosen)
		}
		target = filepath.Clean(chosen)
	}

	written, err := d.write(target, data)
	if err != nil {
		return 0, err
	}

	record := &model.DownloadRecord{
		SourceURL: opts.SourceURL,
		FileName:  opts.Filename,
		Path:      written,
		MIMEType:  dataurl.MediaTypeOnly(mediaType),
		Size:      int64(len(data)),
		CreatedAt: d.now(),
	}

	id := d.nextID.Add(1)
	if d.history != nil {
		historyID, err := d.history.InsertDownload(ctx, record)
		if err != nil {
			// The file is already on disk; a missing history entry is not fatal.
			d.logger.Warn("failed to record download history", "path", written, "error", err)
		} else {
			id = historyID
		}
	}

	d.logger.Debug("download complete", "id", id, "path", written, "size", len(data))
	return id, nil
}

// write creates a new file at target or the first free " (n)" variant.
func (d *FileDownloads) write(target string, data []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	for attempt := 0; attempt < maxUniquifyAttempts; attempt++ {
		candidate := uniquePath(target, attempt)
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // path is validated
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create file: %w", err)
		}

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(candidate)
			return "", fmt.Errorf("failed to write file: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(candidate)
			return "", fmt.Errorf("failed to close file: %w", err)
		}
		return candidate, nil
	}
	return "", fmt.Errorf("failed to find a free name for %s", target)
}

// uniquePath returns "dir/name (n).ext" for n > 0.
func uniquePath(path string, n int) string {
	if n == 0 {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + " (" + strconv.Itoa(n) + ")" + ext
}

// ValidateFilename rejects names that are empty, absolute, or that would
// escape the download directory.
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidFilename)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: contains NUL", ErrInvalidFilename)
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return fmt.Errorf("%w: absolute path %q", ErrInvalidFilename, name)
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("%w: %q escapes the download directory", ErrInvalidFilename, name)
		}
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}
