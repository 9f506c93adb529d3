package generator

// Config drives the synthetic network generator.
type Config struct {
	NumPodcasts      int
	HostsPerPodcast  int
	GuestChance      float64
	CrossShowChance  float64
	MaxEpisodesShare int
	Seed             int64
}

// DefaultConfig returns baseline settings producing a network large
// enough to exercise clustering and filtering.
func DefaultConfig() Config {
	return Config{
		NumPodcasts:      12,
		HostsPerPodcast:  5,
		GuestChance:      0.4,
		CrossShowChance:  0.15,
		MaxEpisodesShare: 120,
		Seed:             42,
	}
}
