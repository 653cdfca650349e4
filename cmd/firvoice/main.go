package main

import (
	"fir-voice/cmd/firvoice/cmd"

	// Import engines to register them
	_ "fir-voice/internal/app/api/openai/whisper"
	_ "fir-voice/internal/app/api/whisper_cpp"
	_ "fir-voice/internal/app/api/whisper_server"
)

// @title fir-voice API
// @version 1.0
// @description Upload an audio file and get its transcript back. Uploads are normalized to 16 kHz mono PCM before recognition.
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cmd.Execute()
}
