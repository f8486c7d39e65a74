package version

// Version is the current version of the argo-ledger engines.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-ledger/internal/version.Version=0.3.1"
// The value "main" indicates a development build.
var Version = "v0.3.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
