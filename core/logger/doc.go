// Package logger builds the zap loggers used across Parcel Watch.
//
// New maps Config onto zap: level "debug" uses the development config, any
// other level the production config, and Format picks json or console
// encoding. Core packages never build their own logger; they accept one and
// default to zap.NewNop().
//
// # Request Correlation
//
// The rayid middleware stores a request id under RayIDKey. WithRayID copies it
// onto a child logger so every line a handler writes can be tied to a request:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Match failed", zap.Error(err))
package logger
