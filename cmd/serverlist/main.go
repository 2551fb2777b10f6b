// ABOUTME: Entry point of the serverlist command line client
// ABOUTME: Delegates to the cobra root command

// Package main provides the serverlist command line client.
//
// It talks to a running Serverlist API through the client package.
//
// Usage:
//
//	serverlist list --window week --all
//	serverlist submit --title "..." --content-file desc.md --ip play.example.it --cover https://...
//
// See --help for all available options.
package main

func main() {
	Execute()
}
