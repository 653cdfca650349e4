package model

// FFProbeOutput is the subset of `ffprobe -print_format json -show_streams -show_format` we read.
type FFProbeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// AudioInfo describes the first audio stream of a file.
type AudioInfo struct {
	Container  string  `json:"container" yaml:"container"`
	Codec      string  `json:"codec" yaml:"codec"`
	SampleRate int     `json:"sample_rate" yaml:"sample_rate"`
	Channels   int     `json:"channels" yaml:"channels"`
	BitDepth   int     `json:"bit_depth,omitempty" yaml:"bit_depth,omitempty"`
	Duration   float64 `json:"duration_seconds" yaml:"duration_seconds"`
}
