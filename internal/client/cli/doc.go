// Package cli implements the interactive blog shell: register, login
// and post management commands over the unified blog client, with the
// session token persisted between invocations in a mode-0600 file.
package cli
