// Package ingest turns telemetry logs into telemetry.RawSession values.
//
// Tabular logs (comma or semicolon separated) carry a header row somewhere
// in their first lines; ReadTable locates it by looking for a latitude-like
// and a longitude-like column name, drops everything above it and tokenizes
// the rest. Build then maps the recognised columns onto TrackPoints. GPX
// tracks are read with gpxgo and follow the same point model.
//
// A file that yields no header (or malformed XML) fails with a *ParseError.
// A file that parses but has no usable rows still produces an empty session.
package ingest
