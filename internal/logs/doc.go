// Package logs locates and tails the per-run process logs written under the
// configured log directory. It backs `podlinks logs`.
package logs
