package version

// Version is set at build time via -ldflags "-X github.com/maxvaer/shockprobe/pkg/version.Version=1.2.3".
var Version = "dev"
