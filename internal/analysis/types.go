package analysis

// Report is the top-level structure for the listening history report.
type Report struct {
	Metadata          ProfileMetadata   `yaml:"profile_metadata"`
	Totals            Totals            `yaml:"totals"`
	TopArtists        []ArtistStat      `yaml:"top_artists"`
	TopAlbums         []AlbumStat       `yaml:"top_albums,omitempty"`
	TopTracks         []TrackStat       `yaml:"top_tracks"`
	TopPodcasts       []PodcastStat     `yaml:"top_podcasts,omitempty"`
	Years             []YearStat        `yaml:"years"`
	ListeningPatterns ListeningPatterns `yaml:"listening_patterns"`
}

type ProfileMetadata struct {
	GeneratedDate  string `yaml:"generated_date"`
	Folder         string `yaml:"folder"`
	FilesRead      int    `yaml:"files_read"`
	FilesSkipped   int    `yaml:"files_skipped,omitempty"`
	FirstPlay      string `yaml:"first_play"`
	FirstTrack     string `yaml:"first_track"`
	ListeningStyle string `yaml:"listening_style"`
}

type Totals struct {
	Entries          int64  `yaml:"entries"`
	Streams          int64  `yaml:"streams"`
	UniqueTracks     int64  `yaml:"unique_tracks"`
	Skips            int64  `yaml:"skips"`
	MusicHours       int64  `yaml:"music_hours"`
	PodcastHours     int64  `yaml:"podcast_hours"`
	EstimatedRevenue string `yaml:"estimated_artist_revenue"`
}

type ArtistStat struct {
	Name         string `yaml:"name"`
	Streams      int64  `yaml:"streams"`
	UniqueTracks int64  `yaml:"unique_tracks"`
	Skips        int64  `yaml:"skips,omitempty"`
	FirstPlayed  string `yaml:"first_played"`
	PeakYears    string `yaml:"peak_years,omitempty"`
}

type AlbumStat struct {
	Title   string   `yaml:"title"`
	Artists []string `yaml:"artists"`
	Streams int64    `yaml:"streams"`
	Hours   float64  `yaml:"hours"`
}

type TrackStat struct {
	Title   string `yaml:"title"`
	Artist  string `yaml:"artist"`
	Streams int64  `yaml:"streams"`
	Skips   int64  `yaml:"skips,omitempty"`
}

type PodcastStat struct {
	Show  string `yaml:"show"`
	Plays int64  `yaml:"plays"`
}

type YearStat struct {
	Year          string   `yaml:"year"`
	Streams       int64    `yaml:"streams"`
	UniqueStreams int64    `yaml:"unique_streams"`
	MusicHours    float64  `yaml:"music_hours"`
	PodcastPlays  int64    `yaml:"podcast_plays,omitempty"`
	PodcastHours  float64  `yaml:"podcast_hours,omitempty"`
	TopArtists    []string `yaml:"top_artists,omitempty"`
}

type ListeningPatterns struct {
	ShufflePercentage    int64   `yaml:"shuffle_percentage"`
	SkipRate             float64 `yaml:"skip_rate"`
	RepeatListeningRatio float64 `yaml:"repeat_listening_ratio"`
	BusiestDay           string  `yaml:"busiest_day,omitempty"`
	BusiestDayHours      float64 `yaml:"busiest_day_hours,omitempty"`
	TopStartReason       string  `yaml:"top_start_reason,omitempty"`
	TopSkipReason        string  `yaml:"top_skip_reason,omitempty"`
}
