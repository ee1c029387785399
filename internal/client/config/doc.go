// Package config loads the blog CLI configuration. Values are layered:
// built-in defaults, then a JSON file (-c/-config), then environment
// variables, then command-line flags, with later sources winning.
package config
