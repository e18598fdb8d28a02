package constants

// AppName is the canonical program name, used for the host window title
// and the config and log directory names.
const AppName = "windowbox"

// Version is reported by -version and in the startup log line.
const Version = "0.3.1"
