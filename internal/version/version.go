// Package version holds the build version reported by the API.
package version

// Current is the server version, overridable at build time with
// -ldflags "-X domainwatch/internal/version.Current=...".
var Current = "1.0.0"
