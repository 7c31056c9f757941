package report

import (
	"sort"
	"time"

	"github.com/nao1215/imgsaveas/internal/model"
)

// History is the data behind a history report.
type History struct {
	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// DownloadDir is the directory new downloads are written to.
	DownloadDir string `json:"download_dir"`

	// Records are the downloads, newest first.
	Records []model.DownloadRecord `json:"records"`
}

// MediaTypeCount is the number of downloads of one media type.
type MediaTypeCount struct {
	MIMEType string `json:"mime_type"`
	Count    int    `json:"count"`
}

// NewHistory creates a History for records.
func NewHistory(downloadDir string, records []model.DownloadRecord) *History {
	if records == nil {
		records = []model.DownloadRecord{}
	}
	return &History{
		GeneratedAt: time.Now(),
		DownloadDir: downloadDir,
		Records:     records,
	}
}

// TotalSize returns the summed size of all records in bytes.
func (h *History) TotalSize() int64 {
	var total int64
	for _, r := range h.Records {
		total += r.Size
	}
	return total
}

// MediaTypes counts records per media type, most frequent first and then
// alphabetically.
func (h *History) MediaTypes() []MediaTypeCount {
	counts := make(map[string]int)
	for _, r := range h.Records {
		counts[r.MIMEType]++
	}

	result := make([]MediaTypeCount, 0, len(counts))
	for mimeType, n := range counts {
		result = append(result, MediaTypeCount{MIMEType: mimeType, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].MIMEType < result[j].MIMEType
	})
	return result
}
