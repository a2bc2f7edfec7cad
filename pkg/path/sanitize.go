package path

import "strings"

// Sanitize lexically normalizes the path without touching the filesystem:
// runs of separators collapse to one, "." segments are dropped and ".."
// removes the preceding segment.
//
// An absolute path stays absolute and its root absorbs any excess "..". A
// relative path stays relative unless it climbs above its own first segment,
// in which case it is resolved against the process working directory and
// sanitized again. A path whose first segment is "." is rebuilt on top of the
// working directory. A trailing separator is preserved.
func (p *Path) Sanitize() *Path {
	return p.sanitize(Getwd)
}

// SanitizeIn is Sanitize with an explicit working directory, which must be
// absolute and already sanitized
func (p *Path) SanitizeIn(wd Path) *Path {
	return p.sanitize(fixed(wd))
}

func (p *Path) sanitize(getwd func() Path) *Path {
	absolute := p.IsAbsolute()

	// Collect the surviving segments. An empty final segment records that the
	// path ended with a separator.
	var segments []string
	rest := p.path
	for {
		rest = strings.TrimLeft(rest, separator)
		if rest == "" {
			segments = append(segments, "")
			break
		}

		segment, remainder, found := strings.Cut(rest, separator)
		switch segment {
		case parentSegment:
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			} else if !absolute {
				return p.absolute(getwd).sanitize(getwd)
			}
		case currentSegment:
		default:
			segments = append(segments, segment)
		}

		if !found {
			break
		}
		rest = remainder
	}

	// Pick the prefix the segments are rebuilt on.
	var prefix string
	switch {
	case p.path == currentSegment || strings.HasPrefix(p.path, currentSegment+separator):
		wd := getwd()
		prefix = wd.Directory().path
	case absolute:
		prefix = separator
	}

	p.path = prefix + strings.Join(segments, separator)
	return p
}
