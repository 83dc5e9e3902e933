package internal

// Version is the neoanki release.
const Version = "0.3.0"
