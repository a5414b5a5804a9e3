// Package language normalizes language codes and detects the language of
// transcript text.
package language
