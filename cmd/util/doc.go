// Package util contains the helpers shared by all commands: flag setup,
// configuration loading (flags, DDOC_* environment variables, .env files),
// opening and closing the store and turning store errors into messages and
// exit codes.
package util
