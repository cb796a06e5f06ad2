package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Play
	Pause
	Stop
	Track
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "\uf00d",
		plain:   "x",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "\uf00c",
		plain:   "v",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "\uf110",
		plain:   "~",
		kaomoji: "┐(･･)┌",
		squares: "🟦",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "\uf04b",
		plain:   ">",
		kaomoji: "♪(´ε｀ )",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "\uf04c",
		plain:   "||",
		kaomoji: "(￣ー￣)",
		squares: "🟨",
	},
	Stop: {
		emoji:   "⏹️",
		nerd:    "\uf04d",
		plain:   "[]",
		kaomoji: "(-_-)",
		squares: "🟥",
	},
	Track: {
		emoji:   "🎵",
		nerd:    "\uf001",
		plain:   "#",
		kaomoji: "ヾ(´〇`)ﾉ♪",
		squares: "🟦",
	},
}
