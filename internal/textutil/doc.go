// Package textutil provides small text helpers shared by the acquisition and
// enrichment stages: filesystem-safe names for downloaded episodes and
// single-line, length-bounded summaries for report entries.
package textutil
