package hitomi

import "time"

// Extension identifies an image encoding offered by the service.
type Extension string

// Known image extensions. There is no default; callers must pick one the
// image actually provides.
const (
	ExtensionWebP Extension = "webp"
	ExtensionAVIF Extension = "avif"
	ExtensionJXL  Extension = "jxl"
)

// GalleryType is the category a gallery is filed under.
type GalleryType string

const (
	GalleryTypeDoujinshi GalleryType = "doujinshi"
	GalleryTypeManga     GalleryType = "manga"
	GalleryTypeArtistCG  GalleryType = "artistcg"
	GalleryTypeGameCG    GalleryType = "gamecg"
	GalleryTypeImageSet  GalleryType = "imageset"
	GalleryTypeAnime     GalleryType = "anime"
)

// PopularityPeriod selects one of the popularity-ordered index files.
type PopularityPeriod string

const (
	PopularityDay   PopularityPeriod = "day"
	PopularityWeek  PopularityPeriod = "week"
	PopularityMonth PopularityPeriod = "month"
	PopularityYear  PopularityPeriod = "year"
)

// Title holds a gallery's display title and, when present, the original
// Japanese title.
type Title struct {
	Display  string
	Japanese string
}

// LanguageName holds the English and local spellings of a language name.
type LanguageName struct {
	English string
	Local   string
}

// Tag is a single search tag. Type is one of artist, group, type, language,
// series, character, male, female or tag. A negative tag subtracts its
// matches from a search instead of intersecting them.
type Tag struct {
	Type       string
	Name       string
	IsNegative bool
}

// Image describes one file in a gallery. Hash is the content identifier
// used in download URLs; the Has* flags declare which encodings the service
// stores for this file.
type Image struct {
	Index   int
	Hash    string
	Name    string
	HasAVIF bool
	HasWebP bool
	HasJXL  bool
	Width   int
	Height  int
}

// Has reports whether the image is available in the given extension.
func (i Image) Has(ext Extension) bool {
	switch ext {
	case ExtensionWebP:
		return i.HasWebP
	case ExtensionAVIF:
		return i.HasAVIF
	case ExtensionJXL:
		return i.HasJXL
	}
	return false
}

// GalleryTranslation points at the same gallery in another language.
type GalleryTranslation struct {
	ID           int
	LanguageName LanguageName
}

// Gallery is the full metadata record for one gallery.
type Gallery struct {
	ID            int
	Title         Title
	Type          GalleryType
	LanguageName  LanguageName
	Artists       []string
	Groups        []string
	Series        []string
	Characters    []string
	Tags          []Tag
	Files         []Image
	PublishedDate time.Time
	Translations  []GalleryTranslation
	RelatedIDs    []int
}
