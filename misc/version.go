// Package misc keeps program identity values which are set at build time.
package misc

var (
	appName = "gdoc2html"
	version = "dev"
	gitHash = "unknown"
)

// Set with -ldflags "-X gdoc2html/misc.version=... -X gdoc2html/misc.gitHash=..."

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
