package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/imgsaveas/internal/model"
)

// Service runs conversions requested from the context menu.
type Service struct {
	newPipeline func() *Pipeline
	logger      *slog.Logger
}

// NewService creates a Service that builds a fresh default pipeline per
// conversion.
func NewService(deps Dependencies, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		newPipeline: func() *Pipeline {
			return DefaultPipeline(deps, WithLogger(logger))
		},
		logger: logger,
	}
}

// Convert runs one conversion and returns its final state.
// A failed conversion has Error set.
func (s *Service) Convert(ctx context.Context, imageURL, formatKey string) *model.Conversion {
	conv := model.NewConversion(imageURL, formatKey)
	_ = s.newPipeline().Execute(ctx, conv) //nolint:errcheck // stored in conv
	return conv
}

// SaveWithCustomExtension converts imageURL to formatKey and downloads it.
// Failures are logged and not returned. Inside a batch the conversion is
// handed back with Report.
func (s *Service) SaveWithCustomExtension(ctx context.Context, imageURL, formatKey string) {
	conv := s.Convert(ctx, imageURL, formatKey)
	Report(ctx, conv)

	if conv.Failed() {
		s.logger.Error("failed to save image",
			"url", imageURL,
			"format_key", formatKey,
			"error", conv.Error,
		)
		return
	}

	s.logger.Info("image saved",
		"url", imageURL,
		"file_name", conv.Request.FileName,
		"download_id", conv.DownloadID,
	)
}
