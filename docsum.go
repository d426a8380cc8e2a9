// Package docsum crawls a local documentation site, extracts the text of
// every page, condenses it into a short technical summary and exports the
// accumulated records as a delimited file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, ollama/, sqlite/).
package docsum
