// Package cli implements the errtree command line: check, dump and render.
package cli
