// Package main hosts the yggdrasil CLI entrypoint and command graph.
//
// The Cobra command tree resolves settings (settings file, .env files and
// environment, then flags), loads the catalog once per invocation and hands
// it to the internal packages. Read-only commands (random, show, ls,
// playlist) never write the catalog; mutating commands (add, search,
// import, scan, merge) save it atomically before returning.
//
// Keep this package thin: behaviour belongs in internal/, commands only
// parse arguments and render results.
package main
