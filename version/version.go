package version

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date
func GetFullVersion() string {
	return Version + " (commit " + GitCommit + ", built " + BuildDate + ")"
}
