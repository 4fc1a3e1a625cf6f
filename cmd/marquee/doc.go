// Package main hosts the marquee CLI.
//
// Running marquee with no subcommand shows the banner. The catalog and logs
// subcommands inspect a catalog and the banner's log file without starting
// it.
package main
