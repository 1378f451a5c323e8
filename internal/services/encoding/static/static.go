package static

import "embed"

// FS exposes the recorder script and stylesheet for HTTP serving.
//
//go:embed *.css *.js
var FS embed.FS
