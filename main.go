package main

import (
	"aura/internal/artwork"
	"aura/internal/config"
	"aura/internal/db"
	"aura/internal/library"
	"aura/internal/session"
	"aura/internal/spotify"
	"embed"
	"log"

	"github.com/wailsapp/wails/v3/pkg/application"
)

//go:embed all:frontend/dist
var assets embed.FS

func init() {
	application.RegisterEvent[session.NowPlaying](session.EventNowPlaying)
	application.RegisterEvent[session.AuthLost](session.EventAuthLost)
}

func main() {
	paths, err := config.ResolvePaths("aura")
	if err != nil {
		log.Fatal(err)
	}

	coversDB, err := db.Bootstrap(paths.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer coversDB.Close()

	libraryDomain := library.NewService(paths.SettingsPath)
	libraryDomain.Restore()

	artCache := artwork.NewCache(paths.ArtCacheDir, coversDB)
	resolver := artwork.NewResolver(libraryDomain, artCache)

	tokens := spotify.NewTokenFile(paths.TokenPath)
	sessionDomain := session.NewService(tokens, resolver)
	defer sessionDomain.Teardown()

	authService := NewAuthService(sessionDomain)
	playbackService := NewPlaybackService(sessionDomain)
	settingsService := NewSettingsService(libraryDomain, artCache)

	app := application.New(application.Options{
		Name:        "Aura",
		Description: "Desktop now-playing companion widget",
		Services: []application.Service{
			application.NewService(authService),
			application.NewService(playbackService),
			application.NewService(settingsService),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: true,
		},
	})

	sessionDomain.SetEmitter(func(eventName string, payload any) {
		app.Event.Emit(eventName, payload)
	})

	if err := libraryDomain.StartWatching(); err != nil {
		log.Printf("library watcher disabled: %v", err)
	}
	defer libraryDomain.StopWatching()

	app.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:       "Aura",
		Width:       420,
		Height:      520,
		AlwaysOnTop: true,
		URL:         "/",
	})

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
