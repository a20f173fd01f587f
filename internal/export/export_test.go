package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/topmovies/internal/types"
)

var godfather = types.ExtractedMovie{
	URL:    "https://www.imdb.com/title/tt0068646/",
	Title:  "The Godfather",
	Year:   "1972",
	Rating: "9.2",
	Plot:   "The aging patriarch of an organized crime dynasty transfers control to his son.",
	Cast: []types.ActorRef{
		{Name: "Marlon Brando", ProfileURL: "https://www.imdb.com/name/nm0000008/"},
		{Name: "Al Pacino", ProfileURL: "https://www.imdb.com/name/nm0000199/"},
	},
}

var unrated = types.ExtractedMovie{
	URL:    "https://www.imdb.com/title/tt0111161/",
	Title:  "The Shawshank Redemption",
	Year:   "1994",
	Rating: types.NoRating,
	Plot:   types.NoPlot,
	Cast:   []types.ActorRef{},
}

func TestFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewFileWriter(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, godfather))

	data, err := os.ReadFile(filepath.Join(dir, "imdb.com_title_tt0068646.json"))
	require.NoError(t, err, "movie file is written immediately")
	var got types.ExtractedMovie
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, godfather, got)

	_, err = os.Stat(filepath.Join(dir, SummaryFile))
	assert.True(t, os.IsNotExist(err), "summary waits for Close")

	require.NoError(t, w.Write(ctx, unrated))
	require.NoError(t, w.Close(ctx))

	data, err = os.ReadFile(filepath.Join(dir, SummaryFile))
	require.NoError(t, err)
	var all types.ResultSet
	require.NoError(t, json.Unmarshal(data, &all))
	assert.Equal(t, types.ResultSet{godfather, unrated}, all)
}

func TestFileWriterEmptySummary(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFileWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.Close(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.imdb.com/title/tt0068646/", "imdb.com_title_tt0068646"},
		{"http://example.com/a?b=c&d=e", "example.com_a_b_c_d_e"},
		{"", "index"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in))
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	w := NewCSVWriter(path)

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, godfather))
	require.NoError(t, w.Write(ctx, unrated))
	require.NoError(t, w.Close(ctx))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var rows []MovieRow
	require.NoError(t, gocsv.UnmarshalFile(file, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Marlon Brando; Al Pacino", rows[0].Cast)
	assert.Equal(t, types.NoRating, rows[1].Rating)
	assert.Equal(t, "", rows[1].Cast)
}

type recordingSink struct {
	written []string
	err     error
	closed  bool
}

func (s *recordingSink) Write(_ context.Context, m types.ExtractedMovie) error {
	s.written = append(s.written, m.Title)
	return s.err
}

func (s *recordingSink) Close(context.Context) error {
	s.closed = true
	return s.err
}

func TestMultiKeepsGoingAfterError(t *testing.T) {
	bad := &recordingSink{err: errors.New("disk full")}
	good := &recordingSink{}
	m := Multi{bad, good}

	err := m.Write(context.Background(), godfather)
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, []string{"The Godfather"}, good.written)

	assert.Error(t, m.Close(context.Background()))
	assert.True(t, bad.closed)
	assert.True(t, good.closed)
}
