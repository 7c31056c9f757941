package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/imgsaveas/internal/dataurl"
	"github.com/nao1215/imgsaveas/internal/fetch"
	"github.com/nao1215/imgsaveas/internal/imagemeta"
	"github.com/nao1215/imgsaveas/internal/model"
	"github.com/nao1215/imgsaveas/internal/platform"
	"github.com/nao1215/imgsaveas/internal/settings"
)

// Fetcher retrieves source image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// SettingsStep takes the settings snapshot used by the rest of the conversion.
type SettingsStep struct {
	store    settings.Store
	defaults model.SettingsRecord
}

// NewSettingsStep creates a SettingsStep reading from store. Keys missing
// from the store take their value from defaults.
func NewSettingsStep(store settings.Store, defaults model.SettingsRecord) *SettingsStep {
	return &SettingsStep{store: store, defaults: defaults}
}

// Name returns the step name.
func (s *SettingsStep) Name() string {
	return "settings"
}

// Do reads the settings merged over the defaults.
func (s *SettingsStep) Do(ctx context.Context, conv *model.Conversion) error {
	record, err := s.store.Get(ctx, s.defaults)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	conv.Settings = record
	return nil
}

// ResolveStep looks up the output format and sanitizes the settings snapshot.
type ResolveStep struct{}

// NewResolveStep creates a ResolveStep.
func NewResolveStep() *ResolveStep {
	return &ResolveStep{}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do fills the format, extension and quality of the request.
func (s *ResolveStep) Do(_ context.Context, conv *model.Conversion) error {
	format, ok := model.LookupFormat(conv.FormatKey)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, conv.FormatKey)
	}

	conv.Format = format
	conv.Request = model.ConversionRequest{
		SourceURL:         conv.SourceURL,
		FormatKey:         format.Key,
		ResolvedExtension: model.ResolveExtension(conv.Settings.CustomExtension, format),
		ResolvedQuality:   model.ClampQuality(conv.Settings.Quality),
	}
	return nil
}

// FileNameStep derives the download filename from the source URL.
type FileNameStep struct{}

// NewFileNameStep creates a FileNameStep.
func NewFileNameStep() *FileNameStep {
	return &FileNameStep{}
}

// Name returns the step name.
func (s *FileNameStep) Name() string {
	return "filename"
}

// Do sets Request.FileName.
func (s *FileNameStep) Do(_ context.Context, conv *model.Conversion) error {
	conv.Request.FileName = model.DeriveFileName(conv.SourceURL, conv.Request.ResolvedExtension)
	return nil
}

// FetchStep downloads the source image without credentials.
type FetchStep struct {
	fetcher Fetcher
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(fetcher Fetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches the source bytes.
func (s *FetchStep) Do(ctx context.Context, conv *model.Conversion) error {
	res, err := s.fetcher.Fetch(ctx, conv.SourceURL)
	if err != nil {
		return err
	}
	conv.Source = res.Body
	conv.SourceType = res.ContentType
	return nil
}

// MetadataStep records EXIF tags of the source, which re-encoding drops.
// It never fails the conversion.
type MetadataStep struct {
	logger *slog.Logger
}

// MetadataStepOption configures a MetadataStep.
type MetadataStepOption func(*MetadataStep)

// WithMetadataLogger sets a custom logger for the metadata step.
func WithMetadataLogger(logger *slog.Logger) MetadataStepOption {
	return func(s *MetadataStep) {
		s.logger = logger
	}
}

// NewMetadataStep creates a MetadataStep.
func NewMetadataStep(opts ...MetadataStepOption) *MetadataStep {
	s := &MetadataStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *MetadataStep) Name() string {
	return "metadata"
}

// Do inspects the source bytes.
func (s *MetadataStep) Do(_ context.Context, conv *model.Conversion) error {
	tags, err := imagemeta.Inspect(conv.Source)
	if err != nil {
		if !errors.Is(err, imagemeta.ErrNoMetadata) {
			s.logger.Debug("could not read source metadata", "url", conv.SourceURL, "error", err)
		}
		return nil
	}

	conv.SourceMetadata = tags
	if orientation := imagemeta.Orientation(tags); orientation != "" && orientation != "1" {
		s.logger.Debug("applying EXIF orientation",
			"url", conv.SourceURL,
			"orientation", orientation,
		)
	}
	if identifying := imagemeta.Identifying(tags); len(identifying) > 0 {
		names := make([]string, len(identifying))
		for i, tag := range identifying {
			names[i] = tag.Name
		}
		s.logger.Info("source metadata is not carried over",
			"url", conv.SourceURL,
			"tags", len(tags),
			"identifying", names,
		)
	}
	return nil
}

// DecodeStep decodes the source into a bitmap and draws it onto an
// off-screen surface of the same size.
type DecodeStep struct{}

// NewDecodeStep creates a DecodeStep.
func NewDecodeStep() *DecodeStep {
	return &DecodeStep{}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do sets Surface, Width and Height and releases the source bytes.
func (s *DecodeStep) Do(_ context.Context, conv *model.Conversion) error {
	bitmap, err := decodeBitmap(conv.Source)
	if err != nil {
		return err
	}
	if bitmap.Bounds().Empty() {
		return ErrEmptyImage
	}

	conv.Surface = drawSurface(bitmap)
	conv.Width = conv.Surface.Rect.Dx()
	conv.Height = conv.Surface.Rect.Dy()
	conv.Source = nil
	return nil
}

// EncodeStep encodes the surface into the target format.
type EncodeStep struct{}

// NewEncodeStep creates an EncodeStep.
func NewEncodeStep() *EncodeStep {
	return &EncodeStep{}
}

// Name returns the step name.
func (s *EncodeStep) Name() string {
	return "encode"
}

// Do sets Encoded and EncodedType and releases the surface.
func (s *EncodeStep) Do(_ context.Context, conv *model.Conversion) error {
	if conv.Surface == nil {
		return ErrNothingToEncode
	}

	var buf bytes.Buffer
	if err := encodeImage(&buf, conv.Surface, conv.Format, conv.Request.ResolvedQuality); err != nil {
		return fmt.Errorf("failed to encode %s: %w", conv.Format.MIMEType, err)
	}

	conv.Encoded = buf.Bytes()
	conv.EncodedType = conv.Format.MIMEType
	conv.Surface = nil
	return nil
}

// DataURLStep wraps the encoded bytes in a base64 data URL.
type DataURLStep struct{}

// NewDataURLStep creates a DataURLStep.
func NewDataURLStep() *DataURLStep {
	return &DataURLStep{}
}

// Name returns the step name.
func (s *DataURLStep) Name() string {
	return "dataurl"
}

// Do sets DataURL.
func (s *DataURLStep) Do(_ context.Context, conv *model.Conversion) error {
	conv.DataURL = dataurl.Encode(conv.EncodedType, conv.Encoded)
	return nil
}

// DownloadStep hands the data URL to the download manager with the save
// dialog forced.
type DownloadStep struct {
	downloads platform.Downloads
}

// NewDownloadStep creates a DownloadStep.
func NewDownloadStep(downloads platform.Downloads) *DownloadStep {
	return &DownloadStep{downloads: downloads}
}

// Name returns the step name.
func (s *DownloadStep) Name() string {
	return "download"
}

// Do starts the download and records its id.
func (s *DownloadStep) Do(ctx context.Context, conv *model.Conversion) error {
	id, err := s.downloads.Download(ctx, platform.DownloadOptions{
		URL:       conv.DataURL,
		Filename:  conv.Request.FileName,
		SaveAs:    true,
		SourceURL: conv.SourceURL,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	conv.DownloadID = id
	return nil
}

// Dependencies are the services a conversion pipeline talks to.
type Dependencies struct {
	Store     settings.Store
	Fetcher   Fetcher
	Downloads platform.Downloads

	// Defaults fill keys missing from Store. The zero value means
	// model.DefaultSettings().
	Defaults model.SettingsRecord
}

func (d Dependencies) defaults() model.SettingsRecord {
	if d.Defaults == (model.SettingsRecord{}) {
		return model.DefaultSettings()
	}
	return d.Defaults
}

// DefaultPipeline creates a pipeline with every conversion step in order.
func DefaultPipeline(deps Dependencies, opts ...Option) *Pipeline {
	p := New(opts...)

	p.AddSteps(
		NewSettingsStep(deps.Store, deps.defaults()),
		NewResolveStep(),
		NewFileNameStep(),
		NewFetchStep(deps.Fetcher),
		NewMetadataStep(WithMetadataLogger(p.logger)),
		NewDecodeStep(),
		NewEncodeStep(),
		NewDataURLStep(),
		NewDownloadStep(deps.Downloads),
	)

	return p
}
