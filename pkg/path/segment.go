package path

import "strings"

// Segment is one separator-delimited component of a path
type Segment struct {
	// Name is the component text. It is empty for the leading segment of an
	// absolute path and for the terminal segment of a path ending with a
	// separator.
	Name string
	// Directory is set when the component was followed by a separator, and
	// on the empty leading and terminal segments.
	Directory bool
}

// Split decomposes the path into its segments. Runs of separators between
// components are treated as one. A leading separator produces a leading empty
// segment and a trailing separator a terminal empty segment, so "a/b/c/"
// yields one segment more than "a/b/c". The empty path has no segments.
func (p Path) Split() []Segment {
	if p.path == "" {
		return nil
	}

	var segments []Segment
	rest := p.path
	if p.IsAbsolute() {
		segments = append(segments, Segment{Directory: true})
		rest = strings.TrimLeft(rest, separator)
		if rest == "" {
			return append(segments, Segment{Directory: true})
		}
	}

	for {
		name, remainder, found := strings.Cut(rest, separator)
		segments = append(segments, Segment{Name: name, Directory: found})
		if !found {
			break
		}

		rest = strings.TrimLeft(remainder, separator)
		if rest == "" {
			segments = append(segments, Segment{Directory: true})
			break
		}
	}

	return segments
}

// FromSegments rebuilds a path from segments produced by Split
func FromSegments(segments []Segment) Path {
	names := make([]string, len(segments))
	for i, s := range segments {
		names[i] = s.Name
	}
	return Path{path: strings.Join(names, separator)}
}
