// Package version reports the build version of the buildplan binary.
//
// Values are stamped at link time:
//
//	go build -ldflags "-X github.com/ashokvundavalli/AderantDevops-sub005/version.Version=1.4.0" ./cmd/buildplan
//
// Unset values fall back to the VCS settings embedded by the Go toolchain.
package version
