package otelbro

import "github.com/krsnat/bro/internal/version"

// Version is the current release version of the bro instrumentation.
func Version() string {
	return version.Get().Raw
}

// SemVersion is the semantic version to be supplied to tracer/meter creation.
func SemVersion() string {
	return "semver:" + Version()
}
