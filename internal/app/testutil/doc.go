// Package testutil provides shared test helpers for fir-voice.
//
// Fixtures (fixtures.go) render synthetic PCM WAV files at any sample rate,
// bit depth and channel count, so normalizer and pipeline tests need no
// checked-in audio:
//
//	path := testutil.WriteToneWAV(t, t.TempDir(), "in.wav", testutil.Stereo44k)
//
// MockEngine (mock_engine.go) is a testify mock of provider.Engine that can
// inspect the audio it is handed while the file still exists:
//
//	engine := testutil.NewMockEngine()
//	engine.ExpectTranscript("hello")
//	engine.Inspect = func(path string) { info := probe(path); ... }
//
// ObservedLogger (logger.go) returns a zap logger whose entries can be
// asserted on.
package testutil
