// Package version reports the build version of the atlas tools.
//
// Values are set at link time, falling back to the module build info:
//
//	go build -ldflags "-X github.com/kbukum/atlas/version.Version=1.2.0" ./cmd/facadegen
package version
