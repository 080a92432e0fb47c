// Package ioutils provides the file system helpers yggdrasil writes through.
//
// # Atomic Writes
//
// WriteFileAtomic never leaves a half-written file at the destination. Data
// goes to a temporary file in the same directory, is synced, and is then
// renamed over the target:
//
//	err := ioutils.WriteFileAtomic(ctx, "/home/user/yggdrasil.json", data, 0o644)
//
// A crash before the rename leaves the previous content untouched.
//
// # Directories
//
//	err := ioutils.EnsureDir("/home/user/.config/yggdrasil")
package ioutils
