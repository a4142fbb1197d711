package hitomi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Tag
	}{
		{
			name: "single tag",
			text: "female:glasses",
			want: []Tag{{Type: "female", Name: "glasses"}},
		},
		{
			name: "negative tag",
			text: "-male:shota",
			want: []Tag{{Type: "male", Name: "shota", IsNegative: true}},
		},
		{
			name: "underscores become spaces",
			text: "tag:full_color",
			want: []Tag{{Type: "tag", Name: "full color"}},
		},
		{
			name: "mixed expression",
			text: "language:english female:glasses -type:anime",
			want: []Tag{
				{Type: "language", Name: "english"},
				{Type: "female", Name: "glasses"},
				{Type: "type", Name: "anime", IsNegative: true},
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTags(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTagsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		err  error
	}{
		{name: "missing colon", text: "glasses", err: ErrInvalidValue},
		{name: "unknown type", text: "color:red", err: ErrInvalidValue},
		{name: "uppercase name", text: "female:Glasses", err: ErrInvalidValue},
		{name: "empty name", text: "female:", err: ErrInvalidValue},
		{name: "name starting with dash", text: "female:-x", err: ErrInvalidValue},
		{name: "duplicate", text: "female:glasses female:glasses", err: ErrDuplicateTag},
		{name: "duplicate with opposite sign", text: "female:glasses -female:glasses", err: ErrDuplicateTag},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTags(tt.text)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClientTagsType(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.NotFoundHandler())

	tags, err := c.Tags(context.Background(), "type", "")
	require.NoError(t, err)
	assert.Equal(t, []Tag{
		{Type: "type", Name: "doujinshi"},
		{Type: "type", Name: "manga"},
		{Type: "type", Name: "artistcg"},
		{Type: "type", Name: "gamecg"},
		{Type: "type", Name: "imageset"},
		{Type: "type", Name: "anime"},
	}, tags)
}

func TestClientTagsStartsWithValidation(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Tags(context.Background(), "artist", "")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = c.Tags(context.Background(), "type", "a")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = c.Tags(context.Background(), "language", "a")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestClientTagsArtists(t *testing.T) {
	t.Parallel()

	page := `<div class="posts">
<a href="/artist/alpha-all.html">alpha</a>
<a href="/artist/beta%20gamma-all.html">beta gamma</a>
<a href="/somewhere/else.html">other</a>
</div>`
	mux := http.NewServeMux()
	mux.HandleFunc("/allartists-a.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	})
	c := newTestClient(t, mux)

	tags, err := c.Tags(context.Background(), "artist", "a")
	require.NoError(t, err)
	assert.Equal(t, []Tag{
		{Type: "artist", Name: "alpha"},
		{Type: "artist", Name: "beta gamma"},
	}, tags)
}

func TestClientTagsGenderedPage(t *testing.T) {
	t.Parallel()

	page := `<a href="/tag/female%3Aglasses-all.html">glasses ♀</a>
<a href="/tag/female%3Aglasses%20on%20head-all.html">glasses on head ♀</a>`
	mux := http.NewServeMux()
	mux.HandleFunc("/alltags-g.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	})
	c := newTestClient(t, mux)

	tags, err := c.Tags(context.Background(), "female", "g")
	require.NoError(t, err)
	assert.Equal(t, []Tag{
		{Type: "female", Name: "glasses"},
		{Type: "female", Name: "glasses on head"},
	}, tags)
}

func TestClientTagsGenericPageSkipsGendered(t *testing.T) {
	t.Parallel()

	page := `<a href="/tag/maledom-all.html">maledom</a>
<a href="/tag/full%20color-all.html">full color</a>`
	mux := http.NewServeMux()
	mux.HandleFunc("/alltags-f.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	})
	c := newTestClient(t, mux)

	tags, err := c.Tags(context.Background(), "tag", "f")
	require.NoError(t, err)
	assert.Equal(t, []Tag{{Type: "tag", Name: "full color"}}, tags)
}

func TestClientTagsLanguages(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/language_support", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"English":"english","日本語":"japanese","한국어":"korean"}`))
	})
	c := newTestClient(t, mux)

	tags, err := c.Tags(context.Background(), "language", "")
	require.NoError(t, err)
	assert.Equal(t, []Tag{
		{Type: "language", Name: "english"},
		{Type: "language", Name: "japanese"},
		{Type: "language", Name: "korean"},
	}, tags)
}
