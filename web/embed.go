package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var content embed.FS

func Templates() fs.FS {
	return content
}
