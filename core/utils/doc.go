// Package utils provides common utility functions for the parcel-watch application.
// It includes helpers for coercing the loosely typed values found in provider
// payloads, where numbers frequently arrive as strings.
package utils
