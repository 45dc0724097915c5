package config

import (
	"maps"
	"strings"
)

// SiteConfig holds request settings for a single image or page host.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent to this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .urlprint configuration file.
type File struct {
	// Sites maps host names (e.g., "cdn.example.com") to their settings.
	// Keys are matched case-insensitively and without a port.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host merged over the defaults.
// The returned Headers map is never shared with the File.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	site, ok := cf.Sites[host]
	if !ok {
		site, ok = cf.Sites[strings.ToLower(host)]
	}
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}
