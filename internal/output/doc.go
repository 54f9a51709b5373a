// Package output renders frames for the dump command: an aligned text table
// for terminals, CSV, or JSON.
package output
