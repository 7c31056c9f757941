package imagemeta

import (
	"errors"
	"fmt"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/imgsaveas/internal/model"
)

// ErrNoMetadata is returned when the image carries no EXIF block.
var ErrNoMetadata = errors.New("no EXIF metadata found")

// Category groups EXIF tags by what they reveal.
type Category string

const (
	// CategoryNone is any tag not listed below.
	CategoryNone Category = ""
	// CategoryLocation covers GPS position tags.
	CategoryLocation Category = "location"
	// CategoryDevice covers camera and computer names.
	CategoryDevice Category = "device"
	// CategorySerial covers device serial numbers.
	CategorySerial Category = "serial"
	// CategorySoftware covers editing and firmware software.
	CategorySoftware Category = "software"
	// CategoryAuthor covers artist and copyright tags.
	CategoryAuthor Category = "author"
	// CategoryTime covers capture and edit timestamps.
	CategoryTime Category = "time"
)

// Inspect extracts every EXIF tag from image bytes.
func Inspect(data []byte) ([]model.MetadataTag, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return nil, ErrNoMetadata
		}
		return nil, fmt.Errorf("failed to locate EXIF block: %w", err)
	}
	if len(rawExif) == 0 {
		return nil, ErrNoMetadata
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EXIF block: %w", err)
	}

	tags := make([]model.MetadataTag, 0, len(entries))
	for _, entry := range entries {
		tags = append(tags, model.MetadataTag{
			IFD:   entry.IfdPath,
			Name:  entry.TagName,
			Value: entry.Formatted,
		})
	}
	return tags, nil
}

// Classify returns the category of an EXIF tag name.
func Classify(tagName string) Category {
	switch tagName {
	case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef", "GPSAltitude":
		return CategoryLocation
	case "Make", "Model", "LensModel", "HostComputer":
		return CategoryDevice
	case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
		return CategorySerial
	case "Software", "ProcessingSoftware":
		return CategorySoftware
	case "Artist", "Author", "Copyright", "XPAuthor":
		return CategoryAuthor
	case "DateTimeOriginal", "DateTimeDigitized", "DateTime":
		return CategoryTime
	default:
		return CategoryNone
	}
}

// Identifying returns the tags that fall into any category.
func Identifying(tags []model.MetadataTag) []model.MetadataTag {
	out := make([]model.MetadataTag, 0)
	for _, tag := range tags {
		if Classify(tag.Name) != CategoryNone {
			out = append(out, tag)
		}
	}
	return out
}

// Orientation returns the value of the Orientation tag, or "" if absent.
// A single-element list such as "[6]" is unwrapped to "6".
func Orientation(tags []model.MetadataTag) string {
	for _, tag := range tags {
		if tag.Name == "Orientation" {
			return strings.TrimSpace(strings.Trim(tag.Value, "[]"))
		}
	}
	return ""
}
