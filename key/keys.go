// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playlist - these keys control where tracks are loaded from.
const (
	PlaylistDefault = "playlist.default"
)

// History Tracking - these keys configure the persistence of recently played tracks.
const (
	HistorySaveOnPlay = "history.save_on_play"
	HistoryLimit      = "history.limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIItemSpacing     = "tui.item_spacing"
	TUIShowBVID        = "tui.show_bvid"
	TUIRefreshInterval = "tui.refresh_interval_ms"
)

// Media Playback - these keys configure the decode engine and the playback session.
const (
	PlayerBinary      = "player.binary"
	PlayerSettleDelay = "player.settle_delay_ms"
	PlayerAutoplay    = "player.autoplay"
	PlayerReconnect   = "player.reconnect"
	PlayerVolume      = "player.volume"
)

// Network - these keys tune the HTTP client used against the Bilibili API.
const (
	NetworkTimeout        = "network.timeout_s"
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
