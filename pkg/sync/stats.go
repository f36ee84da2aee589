package sync

// Stats holds per-run counters for one collection sync. Counters are
// commutative; callers inspect them (not control flow) to detect
// partial failure.
type Stats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`

	// Error reports a structural failure such as an unknown collection;
	// counters are zero when it is set
	Error string `json:"error,omitempty"`
}

// Merge adds another run's counters into s
func (s *Stats) Merge(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Errors += other.Errors
	s.Total += other.Total
}
