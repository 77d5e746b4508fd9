// Package server holds the HTTP server configuration and constants.
//
// While the start command handles the server startup, this package defines the
// configuration structures and valid values for server settings, such as the
// supported property payload profiles.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, and the provider profile
// used to decode property payloads (realestateapi, propertycard).
package server
