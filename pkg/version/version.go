// Package version holds the build version string.
package version

// Version is the application version, overridable at build time via
// -ldflags "-X voxa/pkg/version.Version=...".
var Version = "0.1.0-dev"
