// Package info implements the info command of the CLI.
package info
