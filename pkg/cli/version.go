package cli

// Version is the running build's version, overridden at link time with
// -ldflags "-X github.com/Fepozopo/localeq/pkg/cli.Version=1.2.3".
var Version = "0.1.0"
