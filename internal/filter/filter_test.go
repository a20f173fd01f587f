package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	f, err := New("https://www.imdb.com/chart/top/", []string{"*/title/*"})
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"title page", "https://www.imdb.com/title/tt0111161/", true},
		{"title subpage", "https://www.imdb.com/title/tt0111161/releaseinfo", true},
		{"chart page", "https://www.imdb.com/chart/top/", false},
		{"name page", "https://www.imdb.com/name/nm0000209/", false},
		{"title without trailing slash", "https://www.imdb.com/title", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Match(tt.url))
		})
	}
}

func TestMatchWithoutPatterns(t *testing.T) {
	f, err := New("https://example.com/", nil)
	require.NoError(t, err)
	assert.True(t, f.Match("https://example.com/anything"))
}

func TestAllowRequiresSameHost(t *testing.T) {
	f, err := New("https://www.imdb.com/chart/top/", []string{"*/title/*"})
	require.NoError(t, err)

	assert.True(t, f.Allow("https://imdb.com/title/tt1/"))
	assert.True(t, f.Allow("https://www.imdb.com/title/tt1/"))
	assert.False(t, f.Allow("https://m.imdb.com/title/tt1/"))
	assert.False(t, f.Allow("https://evil.example/title/tt1/"))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("not a url", nil)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	base := "https://www.imdb.com/chart/top/"

	tests := []struct {
		name    string
		href    string
		want    string
		wantErr bool
	}{
		{"relative with tracking", "/title/tt0111161/?ref_=chttp_t_1", "https://www.imdb.com/title/tt0111161/", false},
		{"keeps other params", "/title/tt1/?ref_=x&lang=en", "https://www.imdb.com/title/tt1/?lang=en", false},
		{"drops fragment", "https://www.imdb.com/title/tt1/#cast", "https://www.imdb.com/title/tt1/", false},
		{"lowercases host", "https://WWW.IMDB.COM/title/tt1/", "https://www.imdb.com/title/tt1/", false},
		{"mailto", "mailto:someone@example.com", "", true},
		{"javascript", "javascript:void(0)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(base, tt.href, DefaultTrackingParams)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
