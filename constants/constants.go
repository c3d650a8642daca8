package constants

// Set via -ldflags at build time.
var (
	Version     = "dev"
	CompileTime = "unknown"
)
