package agendev

// Version is the release of the library and the agendev binary.
// It is overridden at build time with -ldflags "-X github.com/thesohamdatta/AgenDev-Studio.Version=...".
var Version = "0.3.0"
