package ingest

import (
	"net/url"
	"path"
	"strings"
)

// DeriveName strips the extension from a source file name. Artifacts
// for the source are keyed by this name.
func DeriveName(sourceName string) string {
	base := path.Base(strings.TrimSpace(sourceName))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// NameFromURL derives an artifact name from a URL: the last path
// segment without its extension, falling back to the host.
func NameFromURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return DeriveName(rawURL)
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		name = parsed.Host
	}
	if ext := path.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
