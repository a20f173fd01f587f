package types

// Placeholders used when a selector yields nothing.
const (
	UnknownTitle = "Unknown Title"
	UnknownYear  = "Unknown Year"
	NoRating     = "No Rating"
	NoPlot       = "No Plot Available"
	UnknownActor = "Unknown Actor"
	NoProfileURL = ""
)

// ActorRef is one cast entry on a title page
type ActorRef struct {
	Name       string `json:"name" csv:"name"`
	ProfileURL string `json:"profile_url" csv:"profile_url"`
}

// ExtractedMovie holds the fields pulled from a single title page
type ExtractedMovie struct {
	URL    string     `json:"url"`
	Title  string     `json:"title"`
	Year   string     `json:"year"`
	Rating string     `json:"rating"`
	Plot   string     `json:"plot"`
	Cast   []ActorRef `json:"actors"`
}

// CastNames returns the actor names in billing order
func (m ExtractedMovie) CastNames() []string {
	names := make([]string, 0, len(m.Cast))
	for _, a := range m.Cast {
		names = append(names, a.Name)
	}
	return names
}

// ResultSet is the ordered list of movies collected during one run
type ResultSet []ExtractedMovie
