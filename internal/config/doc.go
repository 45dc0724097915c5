// Package config provides configuration structures and utilities for urlprint.
// It defines the comparison parameters, image fetching limits, Tor routing
// and report preferences, plus the optional .urlprint file with per-host
// request settings.
package config
