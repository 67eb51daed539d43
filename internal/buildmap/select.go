package buildmap

import "github.com/bgricker/buildpipe/internal/params"

// Select returns the first candidate, in discovery order, that validates
// against p. A nil result means nothing matched and must be handled by the
// caller.
func Select(candidates []*BuildMap, p *params.Parameters) *BuildMap {
	for _, m := range candidates {
		if m != nil && m.Validate(p) {
			return m
		}
	}
	return nil
}

// Find returns the candidate called name, or nil.
func Find(candidates []*BuildMap, name string) *BuildMap {
	for _, m := range candidates {
		if m != nil && m.Name == name {
			return m
		}
	}
	return nil
}
