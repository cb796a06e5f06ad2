package source

import "fmt"

// Kind tags a candidate stream with the media it carries.
// It is assigned by the API client when the stream is built.
type Kind int

const (
	KindAudio Kind = iota
	KindVideo
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Quality is a Bilibili quality code (the "id" field of a DASH representation).
type Quality int

// Audio quality codes.
const (
	Audio64K   Quality = 30216
	Audio132K  Quality = 30232
	AudioDolby Quality = 30250
	AudioHiRes Quality = 30251
	Audio192K  Quality = 30280
)

// Video quality codes.
const (
	Video360P        Quality = 16
	Video480P        Quality = 32
	Video720P        Quality = 64
	Video720P60      Quality = 74
	Video1080P       Quality = 80
	VideoAIRepair    Quality = 100
	Video1080PPlus   Quality = 112
	Video1080P60     Quality = 116
	Video4K          Quality = 120
	VideoHDR         Quality = 125
	VideoDolbyVision Quality = 126
	Video8K          Quality = 127
)

// AudioQualities lists audio codes from worst to best.
var AudioQualities = []Quality{
	Audio64K,
	Audio132K,
	AudioDolby,
	AudioHiRes,
	Audio192K,
}

// VideoQualities lists video codes from worst to best.
var VideoQualities = []Quality{
	Video360P,
	Video480P,
	Video720P,
	Video720P60,
	Video1080P,
	VideoAIRepair,
	Video1080PPlus,
	Video1080P60,
	Video4K,
	VideoHDR,
	VideoDolbyVision,
	Video8K,
}

var qualityNames = map[Quality]string{
	Audio64K:         "64K",
	Audio132K:        "132K",
	AudioDolby:       "Dolby Atmos",
	AudioHiRes:       "Hi-Res",
	Audio192K:        "192K",
	Video360P:        "360P",
	Video480P:        "480P",
	Video720P:        "720P",
	Video720P60:      "720P60",
	Video1080P:       "1080P",
	VideoAIRepair:    "AI Repair",
	Video1080PPlus:   "1080P+",
	Video1080P60:     "1080P60",
	Video4K:          "4K",
	VideoHDR:         "HDR",
	VideoDolbyVision: "Dolby Vision",
	Video8K:          "8K",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("q%d", int(q))
}

// Rank returns the position of q in the quality table of kind, or -1 when the
// kind has no table or the code is not listed.
func Rank(kind Kind, q Quality) int {
	var table []Quality
	switch kind {
	case KindAudio:
		table = AudioQualities
	case KindVideo:
		table = VideoQualities
	default:
		return -1
	}

	for i, candidate := range table {
		if candidate == q {
			return i
		}
	}
	return -1
}

// Stream is one playable encoding of a track.
type Stream struct {
	Kind    Kind    `json:"kind"`
	Quality Quality `json:"quality"`
	// Direct media URL.
	URL string `json:"url"`
	// Codec string as reported by the API (e.g. "mp4a.40.2"), may be empty.
	Codec string `json:"codec,omitempty"`
	// Bandwidth in bits per second, zero when unknown.
	Bandwidth int `json:"bandwidth,omitempty"`
}

// String returns a short human readable label.
func (s *Stream) String() string {
	if s.Kind == KindUnknown {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Quality)
}
