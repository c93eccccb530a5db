package models

type PlaybackURL struct {
	MainPlaylistURL  string            `json:"main_playlist_url"`
	ResolutionsToken map[string]string `json:"resolutions_token"`
}
