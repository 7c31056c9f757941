// Package dataurl builds and parses RFC 2397 data URLs.
//
// Encoding writes the base64 payload in fixed-size blocks so a large image
// never needs a second full-size copy of itself as an intermediate string.
package dataurl
