// Package file provides file-based configuration: a TOML config store
// for defaults, environment-loaded credentials and user-editable prompt
// templates with embedded fallbacks.
package file
