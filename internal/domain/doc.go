// Package domain holds the core newsletter entities and their validated
// value types. Anything that crosses the HTTP boundary is parsed into these
// types first; once constructed, a value is guaranteed valid.
package domain
