// internal/version/version.go
package version

// Version is stamped at release time; keep in sync with the changelog.
const Version = "0.3.0"
