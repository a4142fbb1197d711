package hitomi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGalleryScript = `var galleryinfo = {"id":"1861463",` +
	`"title":"Sample Work","japanese_title":"サンプル",` +
	`"language":"english","language_localname":"English",` +
	`"type":"doujinshi","date":"2023-08-05 05:01:00-05","datepublished":"2023-08-04",` +
	`"related":[111,222],` +
	`"artists":[{"artist":"alpha","url":"/artist/alpha-all.html"}],` +
	`"groups":[{"group":"circle","url":""}],` +
	`"parodys":[{"parody":"original","url":""}],` +
	`"characters":[{"character":"hero","url":""}],` +
	`"tags":[{"tag":"glasses","url":"","female":"1","male":""},` +
	`{"tag":"sole male","url":"","male":1},` +
	`{"tag":"full color","url":""}],` +
	`"files":[{"hash":"aaaabbbbccccdddd","name":"01.jpg","haswebp":1,"hasavif":1,"hasjxl":0,"width":1200,"height":1700},` +
	`{"hash":"eeeeffff00001111","name":"02.jpg","haswebp":0,"hasavif":1,"width":1200,"height":1700}],` +
	`"languages":[{"galleryid":"999","name":"japanese","language_localname":"日本語"},` +
	`{"galleryid":888,"name":"korean","language_localname":"한국어"}]}`

func TestParseGallery(t *testing.T) {
	t.Parallel()

	g, err := parseGallery(1861463, []byte(sampleGalleryScript))
	require.NoError(t, err)

	assert.Equal(t, 1861463, g.ID)
	assert.Equal(t, "Sample Work", g.Title.Display)
	assert.Equal(t, "サンプル", g.Title.Japanese)
	assert.Equal(t, GalleryTypeDoujinshi, g.Type)
	assert.Equal(t, "english", g.LanguageName.English)
	assert.Equal(t, "English", g.LanguageName.Local)

	assert.Equal(t, []string{"alpha"}, g.Artists)
	assert.Equal(t, []string{"circle"}, g.Groups)
	assert.Equal(t, []string{"original"}, g.Series)
	assert.Equal(t, []string{"hero"}, g.Characters)
	assert.Equal(t, []int{111, 222}, g.RelatedIDs)

	require.Len(t, g.Tags, 3)
	assert.Equal(t, Tag{Type: "female", Name: "glasses"}, g.Tags[0])
	assert.Equal(t, Tag{Type: "male", Name: "sole male"}, g.Tags[1])
	assert.Equal(t, Tag{Type: "tag", Name: "full color"}, g.Tags[2])

	require.Len(t, g.Files, 2)
	first := g.Files[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "aaaabbbbccccdddd", first.Hash)
	assert.True(t, first.HasWebP)
	assert.True(t, first.HasAVIF)
	assert.False(t, first.HasJXL)
	assert.Equal(t, 1200, first.Width)
	second := g.Files[1]
	assert.Equal(t, 1, second.Index)
	assert.False(t, second.HasWebP)

	require.Len(t, g.Translations, 2)
	assert.Equal(t, 999, g.Translations[0].ID)
	assert.Equal(t, "japanese", g.Translations[0].LanguageName.English)
	assert.Equal(t, 888, g.Translations[1].ID)

	// datepublished wins over date.
	assert.Equal(t, time.Date(2023, 8, 4, 0, 0, 0, 0, time.UTC), g.PublishedDate)
}

func TestParseGalleryFallsBackToDate(t *testing.T) {
	t.Parallel()

	script := `var galleryinfo = {"title":"T","type":"manga","date":"2016-09-24 06:41:00-05"}`
	g, err := parseGallery(1, []byte(script))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 9, 24, 11, 41, 0, 0, time.UTC), g.PublishedDate)
}

func TestParseGalleryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "no JSON at all", body: "throw new Error()"},
		{name: "invalid JSON", body: `var galleryinfo = {"title":`},
		{name: "missing title", body: `var galleryinfo = {"type":"manga"}`},
		{name: "missing type", body: `var galleryinfo = {"title":"T"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseGallery(1, []byte(tt.body))
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestClientGallery(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/galleries/1861463.js", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleGalleryScript))
	})
	c := newTestClient(t, mux)

	g, err := c.Gallery(context.Background(), 1861463)
	require.NoError(t, err)
	assert.Equal(t, "Sample Work", g.Title.Display)
	assert.Len(t, g.Files, 2)
}

func TestClientGalleryNotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Gallery(context.Background(), 404404)
	require.ErrorIs(t, err, ErrNetwork)
}
