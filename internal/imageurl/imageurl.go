// Package imageurl rewrites image CDN URLs to request a transformed rendition.
package imageurl

import (
	"strconv"
	"strings"
)

const (
	// DefaultHost marks URLs served by the image CDN.
	DefaultHost = "cloudinary.com"

	uploadMarker = "/upload/"
	auto         = "auto"
)

// Options selects the rendition. Empty Quality or Format means "auto".
type Options struct {
	Width   int
	Height  int
	Quality string
	Format  string
}

// Transformation renders the path segment, e.g. "w_200,h_200,c_fill,q_auto,f_auto".
func (o Options) Transformation() string {
	quality := o.Quality
	if quality == "" {
		quality = auto
	}
	format := o.Format
	if format == "" {
		format = auto
	}
	var b strings.Builder
	b.WriteString("w_")
	b.WriteString(strconv.Itoa(o.Width))
	b.WriteString(",h_")
	b.WriteString(strconv.Itoa(o.Height))
	b.WriteString(",c_fill,q_")
	b.WriteString(quality)
	b.WriteString(",f_")
	b.WriteString(format)
	return b.String()
}

// Rewriter inserts transformations into URLs of one image host.
type Rewriter struct {
	host string
}

// NewRewriter returns a Rewriter for host; an empty host means DefaultHost.
func NewRewriter(host string) Rewriter {
	if host == "" {
		host = DefaultHost
	}
	return Rewriter{host: host}
}

// Rewrite returns rawURL with the transformation inserted right after the
// first "/upload/" segment. URLs that are empty, belong to another host, or
// have no upload segment come back unchanged.
func (r Rewriter) Rewrite(rawURL string, opts Options) string {
	host := r.host
	if host == "" {
		host = DefaultHost
	}
	if rawURL == "" || !strings.Contains(rawURL, host) {
		return rawURL
	}
	idx := strings.Index(rawURL, uploadMarker)
	if idx < 0 {
		return rawURL
	}
	cut := idx + len(uploadMarker)
	return rawURL[:cut] + opts.Transformation() + "/" + rawURL[cut:]
}

// Rewrite uses the default CDN host.
func Rewrite(rawURL string, opts Options) string {
	return NewRewriter(DefaultHost).Rewrite(rawURL, opts)
}

// Presets used by the view-models.
var (
	Thumbnail = Options{Width: 300, Height: 300}
	Avatar    = Options{Width: 200, Height: 200}
	Cover     = Options{Width: 1200, Height: 400}
)
