// Package config loads, normalizes, and validates podlinks configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HUGGING_FACE_HUB_TOKEN. Relative directories resolve against the working
// directory so a run from a project checkout keeps data/ and logs/ beside it.
package config
