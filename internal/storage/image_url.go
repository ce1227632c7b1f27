package storage

import (
	"net/url"
	"strconv"
	"strings"
)

// Fit modes understood by the image endpoint.
const (
	FitCrop = "crop"
	FitMax  = "max"
)

// ImageURLBuilder turns gallery asset references into URLs served by the image endpoint.
type ImageURLBuilder struct {
	baseURL string
}

// NewImageURLBuilder creates a builder rooted at baseURL (e.g. "https://cdn.example.com/api/image").
func NewImageURLBuilder(baseURL string) *ImageURLBuilder {
	return &ImageURLBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the configured base with no trailing slash.
func (b *ImageURLBuilder) BaseURL() string {
	return b.baseURL
}

// Image starts a URL for one asset.
func (b *ImageURLBuilder) Image(ref string) *ImageURL {
	return &ImageURL{base: b.baseURL, ref: ref}
}

// ImageURL accumulates transform parameters for a single asset.
type ImageURL struct {
	base   string
	ref    string
	width  int
	height int
	fit    string
}

func (u *ImageURL) Width(w int) *ImageURL {
	u.width = w
	return u
}

func (u *ImageURL) Height(h int) *ImageURL {
	u.height = h
	return u
}

func (u *ImageURL) Fit(mode string) *ImageURL {
	u.fit = mode
	return u
}

// URL renders the final URL. An empty reference renders as "".
func (u *ImageURL) URL() string {
	if u.ref == "" {
		return ""
	}
	q := url.Values{}
	if u.width > 0 {
		q.Set("w", strconv.Itoa(u.width))
	}
	if u.height > 0 {
		q.Set("h", strconv.Itoa(u.height))
	}
	if u.fit != "" {
		q.Set("fit", u.fit)
	}
	out := u.base + "/" + url.PathEscape(u.ref)
	if len(q) > 0 {
		out += "?" + q.Encode()
	}
	return out
}
