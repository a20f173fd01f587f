package render

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/topmovies/internal/types"
)

func TestMovieBlock(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	err := p.Movie(&buf, types.ExtractedMovie{
		Title:  "The Godfather",
		Year:   "1972",
		Rating: "9.2",
		Plot:   "The aging patriarch of an organized crime dynasty transfers control to his son.",
		Cast: []types.ActorRef{
			{Name: "Marlon Brando"},
			{Name: "Al Pacino"},
		},
	})
	require.NoError(t, err)

	delim := strings.Repeat("=", 50)
	want := "\n" + delim + "\n" +
		"🎬 Movie: The Godfather (1972)\n" +
		"⭐ Rating: 9.2\n" +
		"📝 Plot: The aging patriarch of an organized crime dynasty transfers control to his son.\n" +
		"👥 Cast:\n" +
		"  - Marlon Brando\n" +
		"  - Al Pacino\n" +
		delim + "\n\n"
	assert.Equal(t, want, buf.String())
}

func TestMovieBlockSentinels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Movie(&buf, types.ExtractedMovie{
		Title:  types.UnknownTitle,
		Year:   types.UnknownYear,
		Rating: types.NoRating,
		Plot:   types.NoPlot,
		Cast:   []types.ActorRef{},
	}))

	out := buf.String()
	assert.Contains(t, out, "🎬 Movie: Unknown Title (Unknown Year)\n")
	assert.Contains(t, out, "⭐ Rating: No Rating\n")
	assert.Contains(t, out, "📝 Plot: No Plot Available\n")
	assert.True(t, strings.HasSuffix(out, "👥 Cast:\n"+strings.Repeat("=", 50)+"\n\n"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		limit   int
		want    string
		wantCut bool
	}{
		{"short", "Heat", 150, "Heat", false},
		{"exact", strings.Repeat("a", 150), 150, strings.Repeat("a", 150), false},
		{"long", strings.Repeat("a", 200), 150, strings.Repeat("a", 150) + "...", true},
		{"multibyte", strings.Repeat("é", 10), 4, "éééé...", true},
		{"trailing space", "one two three", 4, "one...", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := Truncate(tt.in, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCut, cut)
		})
	}
}

func TestPrintedPlotIsBounded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf).Movie(&buf, types.ExtractedMovie{Plot: strings.Repeat("word ", 100)}))

	for _, line := range strings.Split(buf.String(), "\n") {
		if plot, ok := strings.CutPrefix(line, "📝 Plot: "); ok {
			plot = strings.TrimSuffix(plot, "...")
			assert.LessOrEqual(t, utf8.RuneCountInString(plot), PlotLimit)
			return
		}
	}
	t.Fatal("no plot line printed")
}

func TestBannerAndSummary(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	require.NoError(t, p.Banner(&buf))
	require.NoError(t, p.Summary(&buf, 3))

	assert.Equal(t, "🎬 Starting IMDb Top Movies Crawler...\n\n📊 Successfully processed 3 movies\n", buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, types.ResultSet{
		{URL: "https://www.imdb.com/title/tt0068646/", Title: "The Godfather", Year: "1972", Rating: "9.2",
			Cast: []types.ActorRef{{Name: "Marlon Brando"}}},
		{URL: "https://www.imdb.com/title/tt0111161/", Title: "The Shawshank Redemption", Year: "1994", Rating: types.NoRating},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, lines[1], "The Godfather")
	assert.Contains(t, lines[2], "No Rating")
}
