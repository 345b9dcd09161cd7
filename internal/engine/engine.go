// Package engine holds the search-engine list, the active selection and search URL building
package engine

import (
	"net/url"
	"strings"
)

// Engine is one search engine definition
type Engine struct {
	Name string `yaml:"name" json:"name"`
	// URL is the prefix the encoded query is appended to.
	URL  string `yaml:"url" json:"url"`
	Icon string `yaml:"icon" json:"img"`
}

// Valid reports whether the engine can be searched with
func (e Engine) Valid() bool {
	return strings.TrimSpace(e.Name) != "" && strings.TrimSpace(e.URL) != ""
}

// Defaults returns the stock engine list. Index 0 is the default engine.
func Defaults() []Engine {
	return []Engine{
		{Name: "Baidu", URL: "https://www.baidu.com/s?wd=", Icon: "images/sou1.png"},
		{Name: "Google", URL: "https://www.google.com/search?q=", Icon: "images/sou2.png"},
		{Name: "Bing", URL: "https://cn.bing.com/search?q=", Icon: "images/sou3.png"},
		{Name: "360 Search", URL: "https://www.so.com/s?q=", Icon: "images/sou4.png"},
		{Name: "Sogou", URL: "https://www.sogou.com/web?query=", Icon: "images/sou5.png"},
		{Name: "DogeDoge", URL: "https://www.dogedoge.com/results?q=", Icon: "images/sou6.png"},
	}
}

// Clone returns a copy of engines
func Clone(engines []Engine) []Engine {
	out := make([]Engine, len(engines))
	copy(out, engines)
	return out
}

// ResolveActive picks the active index: a valid explicit index first, then the first engine whose
// URL matches, then 0.
func ResolveActive(engines []Engine, index *int, matchURL string) int {
	if index != nil && *index >= 0 && *index < len(engines) {
		return *index
	}
	if matchURL != "" {
		for i, e := range engines {
			if e.URL == matchURL {
				return i
			}
		}
	}
	return 0
}

// EncodeQuery percent-encodes a query component, spaces as %20
func EncodeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// SearchURL appends the encoded query to prefix
func SearchURL(prefix string, query string) string {
	return prefix + EncodeQuery(query)
}

// Short returns a one or two letter badge for an engine, used where an image cannot be shown
func Short(e Engine) string {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return "?"
	}
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}
