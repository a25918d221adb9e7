package commands

import (
	"context"
	"log/slog"
	"strings"

	"yuki/internal/i18n"
	"yuki/internal/textproc"
)

var (
	mediaTriggers = []string{
		"เล่นเพลง", "play music", "ฟังเพลง", "listen to music", "ดูวิดีโอ",
		"watch video", "เปิดเพลง", "open music", "เปิดวิดีโอ", "open video",
	}
	musicTriggers = []string{
		"เล่นเพลง", "play music", "ฟังเพลง", "listen to music",
		"เปิดเพลง", "open music", "เพลง", "music",
	}
	musicExtract = []string{
		"เล่นเพลง", "play music", "ฟังเพลง", "listen to music",
		"เปิดเพลง", "open music", "เล่น", "play", "ฟัง", "listen",
	}
	videoTriggers = []string{
		"ดูวิดีโอ", "watch video", "ดูคลิป", "watch clip",
		"ดูหนัง", "watch movie", "ดูซีรีส์", "watch series",
		"เปิดวิดีโอ", "open video",
	}
	videoExtract = []string{
		"ดูวิดีโอ", "watch video", "ดูคลิป", "watch clip",
		"เปิดวิดีโอ", "open video", "ดู", "watch",
	}
	generalMediaTriggers = []string{"media", "entertainment", "ความบันเทิง", "สื่อ"}
	playlistWords        = []string{"playlist", "เพลย์ลิสต์"}
	artistPrefixes       = []string{"artist ", "ศิลปิน "}
)

// streamingServices in match order.
var streamingServices = []struct {
	name  string
	match string
	url   string
}{
	{"youtube", "youtube", "https://www.youtube.com"},
	{"spotify", "spotify", "https://open.spotify.com"},
	{"netflix", "netflix", "https://www.netflix.com"},
	{"apple_music", "apple music", "https://music.apple.com"},
	{"soundcloud", "soundcloud", "https://soundcloud.com"},
	{"deezer", "deezer", "https://www.deezer.com"},
}

// VideoResolver finds the first video ID for a search query.
type VideoResolver interface {
	FirstVideo(ctx context.Context, query string) (string, error)
}

// Media plays music and video through streaming sites.
type Media struct {
	opener   Opener
	resolver VideoResolver
}

// NewMedia creates the media family. A nil resolver always falls back to
// YouTube search results.
func NewMedia(opener Opener, resolver VideoResolver) *Media {
	return &Media{opener: opener, resolver: resolver}
}

// Matches reports whether command asks to play media.
func (m *Media) Matches(command string) bool {
	return textproc.ContainsAny(strings.ToLower(command), mediaTriggers)
}

// Handle processes a media command.
func (m *Media) Handle(ctx context.Context, command string) string {
	lower := strings.ToLower(command)

	switch {
	case textproc.ContainsAny(lower, musicTriggers):
		return m.music(ctx, lower)
	case textproc.ContainsAny(lower, videoTriggers):
		return m.video(ctx, lower)
	case m.isStreaming(lower):
		return m.streaming(lower)
	case textproc.ContainsAny(lower, generalMediaTriggers):
		return m.open("https://www.youtube.com", i18n.T("media_youtube_opened"), i18n.T("media_youtube_failed"))
	}
	return i18n.T("media_unknown")
}

func (m *Media) music(ctx context.Context, command string) string {
	query := textproc.ExtractQuery(command, musicExtract)
	if query == "" {
		return i18n.T("media_no_song")
	}

	if strings.Contains(command, "spotify") {
		query = strings.TrimSpace(strings.ReplaceAll(query, "spotify", ""))
		return m.open("https://open.spotify.com/search/"+textproc.Quote(query),
			i18n.Tf("media_spotify_searched", query), i18n.T("media_spotify_failed"))
	}
	query = strings.TrimSpace(strings.ReplaceAll(query, "youtube", ""))

	if textproc.ContainsAny(query, playlistWords) {
		for _, w := range playlistWords {
			query = strings.ReplaceAll(query, w, "")
		}
		return m.OpenPlaylist(strings.TrimSpace(query))
	}
	for _, prefix := range artistPrefixes {
		if strings.HasPrefix(query, prefix) {
			return m.PlayArtist(ctx, strings.TrimPrefix(query, prefix))
		}
	}
	if song, artist, ok := strings.Cut(query, " by "); ok {
		return m.PlaySong(ctx, song, artist)
	}
	return m.PlayOnYouTube(ctx, query)
}

func (m *Media) video(ctx context.Context, command string) string {
	query := textproc.ExtractQuery(command, videoExtract)
	if query == "" {
		return i18n.T("media_no_video")
	}

	if strings.Contains(command, "netflix") {
		query = strings.TrimSpace(strings.ReplaceAll(query, "netflix", ""))
		return m.open("https://www.netflix.com/search?q="+textproc.Quote(query),
			i18n.Tf("media_netflix_searched", query), i18n.T("media_netflix_failed"))
	}
	query = strings.TrimSpace(strings.ReplaceAll(query, "youtube", ""))
	return m.PlayOnYouTube(ctx, query)
}

func (m *Media) isStreaming(command string) bool {
	for _, s := range streamingServices {
		if strings.Contains(command, s.match) {
			return true
		}
	}
	return false
}

func (m *Media) streaming(command string) string {
	for _, s := range streamingServices {
		if strings.Contains(command, s.match) {
			return m.open(s.url, i18n.Tf("opened", s.name), i18n.Tf("open_failed", s.name))
		}
	}
	return i18n.T("media_streaming_none")
}

// PlayOnYouTube opens the first YouTube result for query, or the search
// results page when the video cannot be resolved.
func (m *Media) PlayOnYouTube(ctx context.Context, query string) string {
	if m.resolver != nil {
		id, err := m.resolver.FirstVideo(ctx, query)
		if err == nil {
			err = m.opener.OpenURL("https://www.youtube.com/watch?v=" + id)
		}
		if err == nil {
			return i18n.Tf("media_youtube_played", query)
		}
		slog.Error("error playing on youtube", "query", query, "error", err)
	}
	return m.open(youtubeSearchURL(query),
		i18n.Tf("media_youtube_searched", query), i18n.T("media_youtube_failed"))
}

// PlaySong plays a song, optionally by a given artist.
func (m *Media) PlaySong(ctx context.Context, song, artist string) string {
	return m.PlayOnYouTube(ctx, strings.TrimSpace(song+" "+artist))
}

// PlayArtist plays music by artist.
func (m *Media) PlayArtist(ctx context.Context, artist string) string {
	return m.PlayOnYouTube(ctx, artist)
}

// OpenPlaylist searches YouTube for a playlist.
func (m *Media) OpenPlaylist(name string) string {
	return m.open(youtubeSearchURL(name)+"+playlist",
		i18n.Tf("media_playlist", name), i18n.T("media_playlist_failed"))
}

func (m *Media) open(url, ok, failed string) string {
	if err := m.opener.OpenURL(url); err != nil {
		slog.Error("error opening media url", "url", url, "error", err)
		return failed
	}
	return ok
}
