package hitomi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Gallery fetches the metadata record for one gallery.
func (c *Client) Gallery(ctx context.Context, id int) (*Gallery, error) {
	body, err := c.fetcher.Get(ctx, "https://"+ResourceDomain+"/galleries/"+strconv.Itoa(id)+".js")
	if err != nil {
		return nil, err
	}
	return parseGallery(id, body)
}

// rawGallery mirrors the JSON the service embeds in its galleryinfo
// script.
type rawGallery struct {
	Title             string `json:"title"`
	JapaneseTitle     string `json:"japanese_title"`
	Language          string `json:"language"`
	LanguageLocalname string `json:"language_localname"`
	Type              string `json:"type"`
	Date              string `json:"date"`
	DatePublished     string `json:"datepublished"`
	Related           []int  `json:"related"`

	Artists []struct {
		Artist string `json:"artist"`
	} `json:"artists"`
	Groups []struct {
		Group string `json:"group"`
	} `json:"groups"`
	Parodys []struct {
		Parody string `json:"parody"`
	} `json:"parodys"`
	Characters []struct {
		Character string `json:"character"`
	} `json:"characters"`

	Tags []struct {
		Tag    string `json:"tag"`
		Male   any    `json:"male"`
		Female any    `json:"female"`
	} `json:"tags"`

	Files []struct {
		Hash    string `json:"hash"`
		Name    string `json:"name"`
		HasAVIF int    `json:"hasavif"`
		HasWebP int    `json:"haswebp"`
		HasJXL  int    `json:"hasjxl"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
	} `json:"files"`

	Languages []struct {
		GalleryID         any    `json:"galleryid"`
		Name              string `json:"name"`
		LanguageLocalname string `json:"language_localname"`
	} `json:"languages"`
}

// parseGallery decodes a galleryinfo script body. The body is a JS
// assignment; everything before the first brace is discarded.
func parseGallery(id int, body []byte) (*Gallery, error) {
	start := bytes.IndexByte(body, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: gallery %d response contains no JSON", ErrParse, id)
	}

	var raw rawGallery
	if err := json.Unmarshal(body[start:], &raw); err != nil {
		return nil, fmt.Errorf("%w: gallery %d: %v", ErrParse, id, err)
	}
	if raw.Title == "" {
		return nil, fmt.Errorf("%w: gallery %d missing title", ErrParse, id)
	}
	if raw.Type == "" {
		return nil, fmt.Errorf("%w: gallery %d missing type", ErrParse, id)
	}

	g := &Gallery{
		ID: id,
		Title: Title{
			Display:  raw.Title,
			Japanese: raw.JapaneseTitle,
		},
		Type: GalleryType(raw.Type),
		LanguageName: LanguageName{
			English: raw.Language,
			Local:   raw.LanguageLocalname,
		},
		RelatedIDs: raw.Related,
	}

	published := raw.DatePublished
	if published == "" {
		published = raw.Date
	}
	g.PublishedDate = parseGalleryDate(published)

	for _, entry := range raw.Artists {
		g.Artists = append(g.Artists, entry.Artist)
	}
	for _, entry := range raw.Groups {
		g.Groups = append(g.Groups, entry.Group)
	}
	for _, entry := range raw.Parodys {
		g.Series = append(g.Series, entry.Parody)
	}
	for _, entry := range raw.Characters {
		g.Characters = append(g.Characters, entry.Character)
	}

	for _, entry := range raw.Tags {
		tagType := "tag"
		switch {
		case jsonTruthy(entry.Male):
			tagType = "male"
		case jsonTruthy(entry.Female):
			tagType = "female"
		}
		g.Tags = append(g.Tags, Tag{Type: tagType, Name: entry.Tag})
	}

	for index, entry := range raw.Files {
		g.Files = append(g.Files, Image{
			Index:   index,
			Hash:    entry.Hash,
			Name:    entry.Name,
			HasAVIF: entry.HasAVIF == 1,
			HasWebP: entry.HasWebP != 0,
			HasJXL:  entry.HasJXL == 1,
			Width:   entry.Width,
			Height:  entry.Height,
		})
	}

	for _, entry := range raw.Languages {
		// Translation records carry the id as either a number or a
		// quoted string.
		translationID, ok := jsonInt(entry.GalleryID)
		if !ok {
			continue
		}
		g.Translations = append(g.Translations, GalleryTranslation{
			ID: translationID,
			LanguageName: LanguageName{
				English: entry.Name,
				Local:   entry.LanguageLocalname,
			},
		})
	}

	return g, nil
}

// jsonTruthy mirrors the service's own loose flag convention: tag gender
// markers arrive as "", "1", numbers or null.
func jsonTruthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case float64:
		return value != 0
	case bool:
		return value
	}
	return true
}

// jsonInt coerces the number-or-string ids the service emits.
func jsonInt(v any) (int, bool) {
	switch value := v.(type) {
	case float64:
		return int(value), true
	case string:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	}
	return 0, false
}

// galleryDateLayouts covers the date spellings seen in gallery records.
var galleryDateLayouts = []string{
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseGalleryDate returns the zero time when the value is absent or in an
// unknown format; gallery dates are informational only.
func parseGalleryDate(value string) time.Time {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		return time.Time{}
	}
	candidate = strings.Replace(candidate, " ", "T", 1)
	for _, layout := range galleryDateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
