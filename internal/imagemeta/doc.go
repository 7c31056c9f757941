// Package imagemeta lists the EXIF metadata embedded in a source image.
//
// Re-encoding drops all metadata, so the conversion pipeline reports what
// was present before it is lost. Tags that commonly identify a person or a
// device (GPS position, serial numbers, authorship) are classified so they
// can be called out separately.
package imagemeta
