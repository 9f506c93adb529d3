package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/FrazRoc/podcast-network/internal/domain"
)

// Generator produces synthetic connection records aligned with the
// host-connections wire shape.
type Generator struct {
	cfg   Config
	rand  *rand.Rand
	names nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumPodcasts <= 0 {
		cfg.NumPodcasts = DefaultConfig().NumPodcasts
	}
	if cfg.HostsPerPodcast <= 0 {
		cfg.HostsPerPodcast = DefaultConfig().HostsPerPodcast
	}
	if cfg.GuestChance <= 0 {
		cfg.GuestChance = DefaultConfig().GuestChance
	}
	if cfg.CrossShowChance <= 0 {
		cfg.CrossShowChance = DefaultConfig().CrossShowChance
	}
	if cfg.MaxEpisodesShare <= 0 {
		cfg.MaxEpisodesShare = DefaultConfig().MaxEpisodesShare
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:   cfg,
		rand:  rand.New(rand.NewSource(cfg.Seed)),
		names: defaultNameFragments(),
	}
}

type person struct {
	id      domain.HostID
	name    string
	role    string
	channel string
	genre   string
}

// Generate synthesises connection records: each podcast gets a cast of
// hosts and guests connected pairwise, plus occasional cross-show
// appearances that tie clusters together. It respects context
// cancellation.
func (g *Generator) Generate(ctx context.Context) ([]domain.ConnectionRecord, error) {
	var records []domain.ConnectionRecord
	var people []person
	nextID := 1

	for p := 0; p < g.cfg.NumPodcasts; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		title := g.podcastTitle(p)
		channel := g.names.channels[p%len(g.names.channels)]
		genre := g.names.genres[p%len(g.names.genres)]

		cast := make([]person, 0, g.cfg.HostsPerPodcast)
		for i := 0; i < g.cfg.HostsPerPodcast; i++ {
			role := domain.RoleHost
			if i > 0 && g.rand.Float64() < g.cfg.GuestChance {
				role = domain.RoleGuest
			}
			member := person{
				id:      domain.HostID(fmt.Sprintf("HST-%05d", nextID)),
				name:    g.randomFullName(),
				role:    role,
				channel: channel,
				genre:   genre,
			}
			nextID++
			cast = append(cast, member)
			people = append(people, member)
		}

		// Every cast pair co-appears on this podcast.
		for i := 0; i < len(cast); i++ {
			for j := i + 1; j < len(cast); j++ {
				records = append(records, g.record(cast[i], cast[j], title))
			}
		}

		// Cross-show appearances: an established person drops in on
		// this podcast with one of its hosts.
		established := len(people) - len(cast)
		if established > 0 && g.rand.Float64() < g.cfg.CrossShowChance*float64(len(cast)) {
			visitor := people[g.rand.Intn(established)]
			records = append(records, g.record(visitor, cast[g.rand.Intn(len(cast))], title))
		}
	}

	return records, nil
}

func (g *Generator) record(a, b person, podcast string) domain.ConnectionRecord {
	return domain.ConnectionRecord{
		SourceID:         a.id,
		SourceName:       a.name,
		SourceImage:      g.maybeImage(a.id),
		SourceRole:       a.role,
		SourceChannel:    a.channel,
		SourceGenre:      a.genre,
		TargetID:         b.id,
		TargetName:       b.name,
		TargetImage:      g.maybeImage(b.id),
		TargetRole:       b.role,
		TargetChannel:    b.channel,
		TargetGenre:      b.genre,
		PodcastTitle:     podcast,
		EpisodesTogether: 1 + g.rand.Intn(g.cfg.MaxEpisodesShare),
	}
}

// maybeImage leaves roughly a third of hosts imageless so the avatar
// fallback path stays exercised downstream.
func (g *Generator) maybeImage(id domain.HostID) string {
	if g.rand.Float64() < 0.33 {
		return ""
	}
	return fmt.Sprintf("https://cdn.example.com/hosts/%s.jpg", id)
}

func (g *Generator) podcastTitle(idx int) string {
	adjective := g.names.titleAdjectives[g.rand.Intn(len(g.names.titleAdjectives))]
	noun := g.names.titleNouns[g.rand.Intn(len(g.names.titleNouns))]
	return fmt.Sprintf("%s %s %d", adjective, noun, idx+1)
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", g.names.first[g.rand.Intn(len(g.names.first))],
		g.names.last[g.rand.Intn(len(g.names.last))])
}

type nameFragments struct {
	first           []string
	last            []string
	channels        []string
	genres          []string
	titleAdjectives []string
	titleNouns      []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:           []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:            []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		channels:        []string{"Wavecast", "TalkGrid", "OpenMic Network", "Studio North", "Redline Audio"},
		genres:          []string{"Comedy", "True Crime", "Technology", "Sports", "News", "History"},
		titleAdjectives: []string{"Midnight", "Daily", "Hidden", "Unfiltered", "Backstage", "Weekly"},
		titleNouns:      []string{"Signal", "Frequency", "Roundtable", "Debrief", "Archive", "Dispatch"},
	}
}
