package ogsite

import "embed"

// EmbeddedAssets contains fallback static assets shipped with the binary:
// favicon.svg and logo.svg. Files in the static dir take precedence.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
