// Package cli provides the interactive wayplan command-line client.
//
// It wires configuration, the REST/WebSocket API client and an interactive
// REPL for browsing the shared trip media library. Typical flow: prompt for
// credentials, load the directory snapshot, start the background change-feed
// pump, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - Browse folders (ls, cd, up, pwd)
//   - Manage files (mkdir, upload, rename, rm)
//   - Multi-select entries and mint public share links
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
