package extract

import "regexp"

// ipv4Pattern matches four dot-separated octets whose digit groups are
// restricted to 0-255 at the grammar level, with word boundaries on both
// ends so digits embedded in longer runs are rejected.
const ipv4Pattern = `\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`

// Scanner extracts the distinct IPv4 literals contained in a byte chunk.
type Scanner struct {
	pattern *regexp.Regexp
}

func NewScanner() *Scanner {
	return &Scanner{pattern: regexp.MustCompile(ipv4Pattern)}
}

// Scan returns the set of distinct IPv4 literals in the chunk. The chunk is
// treated as raw bytes; matches only ever cover ASCII digits and dots, so
// surrounding binary garbage is skipped rather than causing failure. Matches
// never span chunk boundaries.
func (s *Scanner) Scan(chunk []byte) map[string]struct{} {
	matches := s.pattern.FindAll(chunk, -1)
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		seen[string(match)] = struct{}{}
	}
	return seen
}
