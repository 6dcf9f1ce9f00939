package pstn

import "fmt"

// Validate checks the invariants spec §3 requires of a well-formed PSTN
// before it is handed to propagation or the LP builder: Z is present and
// owner-less, and every contingent head has exactly one recorded parent
// (spec §3: "exactly one entry in parent pointing j→i"). Violations here
// are input-malformedness (spec §7.3); the loader runs this check once
// per loaded network rather than mid-propagation.
func (p *PSTN) Validate() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	z, ok := p.vertices[ZeroTimepoint]
	if !ok {
		return fmt.Errorf("pstn: Z (vertex 0) is missing")
	}
	if z.Owner != nil {
		return fmt.Errorf("pstn: Z must be owner-less, got owner %d", *z.Owner)
	}

	seen := make(map[int]int, len(p.parent))
	for head, src := range p.parent {
		if other, ok := seen[head]; ok && other != src {
			return fmt.Errorf("pstn: vertex %d has parents %d and %d: %w", head, other, src, ErrMultipleContingentParents)
		}
		seen[head] = src
		if _, ok := p.receivedTimepoints[head]; !ok {
			return fmt.Errorf("pstn: vertex %d has a contingent parent but is not in receivedTimepoints", head)
		}
	}
	return nil
}
