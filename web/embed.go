// Package web embeds the landing page served at /.
package web

import "embed"

//go:embed dist
var DistFS embed.FS
