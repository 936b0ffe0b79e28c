// ABOUTME: Entry point for the interactive sound board
// ABOUTME: Parses CLI flags and starts the board application
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/sfxmix/internal/app"
	"github.com/Resonate-Protocol/sfxmix/internal/version"
)

var (
	assetsDir  = flag.String("assets", "sounds", "Directory of sound lumps (.lmp, .wav, .flac, .mp3)")
	sampleRate = flag.Int("rate", 44100, "Requested output sample rate")
	bufferSize = flag.Int("buffer", 0, "Output buffer in frames (default: about one tic)")
	channels   = flag.Int("channels", 32, "Number of mixer channels (1-32)")
	pitch      = flag.Bool("pitch", false, "Enable pitch variation")
	strict     = flag.Bool("strict", false, "Panic on out-of-range channel handles")
	logFile    = flag.String("log-file", "sfxmix.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, play every sound once with streaming logs")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s", version.String())

	board, err := app.New(app.Config{
		AssetsDir:      *assetsDir,
		SampleRate:     *sampleRate,
		BufferFrames:   *bufferSize,
		Channels:       *channels,
		PitchVariation: *pitch,
		StrictHandles:  *strict,
		UseTUI:         useTUI,
	})
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}

	if err := board.Start(); err != nil {
		log.Fatalf("Failed to start board: %v", err)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if useTUI {
		select {
		case <-board.Done():
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		done := make(chan struct{})
		go func() {
			board.PlayAll(750 * time.Millisecond)
			close(done)
		}()

		select {
		case <-done:
			time.Sleep(time.Second)
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	}

	board.Stop()
	log.Printf("Board stopped")
}
