package cli

// version is stamped by the release pipeline via -ldflags.
var version = "0.1.0"
