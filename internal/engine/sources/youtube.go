package sources

// YouTube transcript acquisition is split across files by responsibility:
//   youtube_parse.go       json3 / legacy XML caption payload parsing
//   youtube_player.go      caption track metadata read from the host page (polling)
//   youtube_tracks.go      caption track selection and URL format variants
//   youtube_innertube.go   Innertube credentials and the /player fallback
//   youtube_cache.go       persisted transcript cache (yt_transcript_<id>)
//   youtube_transcript.go  the ordered strategy list (orchestrator)
//   youtube_video.go       video id parsing from YouTube URLs
