// Package path provides a string-backed path value with a fluent manipulation
// API.
//
// A Path stores its text verbatim and is never normalized implicitly. All
// manipulation is lexical: the only time the package looks outside the value
// is when a relative path must be resolved against a working directory. Each
// such operation comes in two forms, one that reads the process working
// directory and one (suffixed In) that takes the working directory as an
// argument.
//
// Mutating operations use pointer receivers and return the receiver so they
// can be chained:
//
//	p := path.New("/srv")
//	p.Append(path.New("www")).Append(path.Format(8080)).Directory()
//	// p.String() == "/srv/www/8080/"
//
// Paths are plain values, so assignment copies them. Use Copy (or a plain
// assignment) before a chain when the original must be kept:
//
//	clean := p.Copy()
//	clean.Sanitize()
//
// Only the '/' separator is recognized.
package path
