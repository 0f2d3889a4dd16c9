// Package internal contains the collection type of the maple engine.
package internal
