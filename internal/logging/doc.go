// Package logging builds the zerolog logger shared by mrpctl components.
//
// Output goes to stderr so command results on stdout stay machine readable.
// Humans get the console writer; --log-json switches to one JSON object per
// line for log shippers.
package logging
