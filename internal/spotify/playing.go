package spotify

const (
	ItemTypeTrack   = "track"
	ItemTypeEpisode = "episode"
)

// targetImageWidth is the artwork size the widget prefers; the closest
// available rendition wins.
const targetImageWidth = 300

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a track artist.
type Artist struct {
	Name string `json:"name"`
}

// Album represents a track's album.
type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Show represents an episode's parent show.
type Show struct {
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// PlayableItem is the playing item. Tracks and episodes arrive as one JSON
// shape; CurrentlyPlayingType on the context discriminates which fields are
// meaningful.
type PlayableItem struct {
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   Album    `json:"album"`
	Images  []Image  `json:"images"`
	Show    Show     `json:"show"`
	IsLocal bool     `json:"is_local"`
}

// PlayingContext is the currently-playing response. Item is nil when nothing
// is playing.
type PlayingContext struct {
	IsPlaying            bool          `json:"is_playing"`
	CurrentlyPlayingType string        `json:"currently_playing_type"`
	Item                 *PlayableItem `json:"item"`
}

// ItemDetails carries the fields a now-playing snapshot needs, uniform across
// the track and episode cases.
type ItemDetails struct {
	Kind       string
	Name       string
	Artists    []string
	Album      string
	ArtworkURL string
}

// Details resolves the playing item into uniform fields. The second return is
// false when no item is present.
func (p *PlayingContext) Details() (ItemDetails, bool) {
	if p == nil || p.Item == nil {
		return ItemDetails{}, false
	}

	if p.CurrentlyPlayingType == ItemTypeEpisode {
		return ItemDetails{
			Kind:       ItemTypeEpisode,
			Name:       p.Item.Name,
			Artists:    []string{p.Item.Show.Publisher},
			Album:      p.Item.Show.Name,
			ArtworkURL: PickImageURL(p.Item.Images, targetImageWidth),
		}, true
	}

	artists := make([]string, 0, len(p.Item.Artists))
	for _, artist := range p.Item.Artists {
		artists = append(artists, artist.Name)
	}

	return ItemDetails{
		Kind:       ItemTypeTrack,
		Name:       p.Item.Name,
		Artists:    artists,
		Album:      p.Item.Album.Name,
		ArtworkURL: PickImageURL(p.Item.Album.Images, targetImageWidth),
	}, true
}

// PickImageURL returns the URL of the image whose width is closest to target,
// or empty when none are available.
func PickImageURL(images []Image, target int) string {
	best := ""
	bestDistance := 0
	for _, image := range images {
		distance := image.Width - target
		if distance < 0 {
			distance = -distance
		}
		if best == "" || distance < bestDistance {
			best = image.URL
			bestDistance = distance
		}
	}

	return best
}
