package spotify

import "testing"

func TestDetailsEpisode(t *testing.T) {
	playing := &PlayingContext{
		IsPlaying:            true,
		CurrentlyPlayingType: ItemTypeEpisode,
		Item: &PlayableItem{
			Name:   "Episode 12",
			Images: []Image{{URL: "https://img/ep", Width: 300, Height: 300}},
			Show:   Show{Name: "The Show", Publisher: "The Publisher"},
		},
	}

	details, ok := playing.Details()
	if !ok {
		t.Fatal("expected item details")
	}
	if details.Kind != ItemTypeEpisode {
		t.Fatalf("expected episode, got %q", details.Kind)
	}
	if details.Name != "Episode 12" {
		t.Fatalf("unexpected name %q", details.Name)
	}
	if len(details.Artists) != 1 || details.Artists[0] != "The Publisher" {
		t.Fatalf("expected the publisher as artist, got %v", details.Artists)
	}
	if details.Album != "The Show" {
		t.Fatalf("expected the show name as album, got %q", details.Album)
	}
	if details.ArtworkURL != "https://img/ep" {
		t.Fatalf("unexpected artwork %q", details.ArtworkURL)
	}
}

func TestDetailsNoItem(t *testing.T) {
	if _, ok := (&PlayingContext{IsPlaying: true}).Details(); ok {
		t.Fatal("expected no details without an item")
	}

	var playing *PlayingContext
	if _, ok := playing.Details(); ok {
		t.Fatal("expected no details on nil context")
	}
}

func TestPickImageURL(t *testing.T) {
	images := []Image{
		{URL: "https://img/64", Width: 64},
		{URL: "https://img/640", Width: 640},
		{URL: "https://img/300", Width: 300},
	}

	if got := PickImageURL(images, 300); got != "https://img/300" {
		t.Fatalf("expected exact match, got %q", got)
	}
	if got := PickImageURL(images[:2], 300); got != "https://img/64" {
		t.Fatalf("expected closest width, got %q", got)
	}
	if got := PickImageURL(nil, 300); got != "" {
		t.Fatalf("expected empty for no images, got %q", got)
	}
}
