package internal

// Version is the vopet release, reported by --version.
const Version = "0.3.0"
