// ABOUTME: Offline renderer for sound effect mixes
// ABOUTME: Starts sounds headless and writes the capture tap to WAV or raw PCM
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Resonate-Protocol/sfxmix/internal/assets"
	"github.com/Resonate-Protocol/sfxmix/internal/version"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/encode"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/output"
	"github.com/Resonate-Protocol/sfxmix/pkg/mixer"
	"github.com/Resonate-Protocol/sfxmix/pkg/sfx"
	"github.com/google/uuid"
)

var (
	assetsDir  = flag.String("assets", "sounds", "Directory of sound lumps")
	sounds     = flag.String("sounds", "", "Comma-separated sound names to start (default: all)")
	separation = flag.Int("sep", mixer.NormSeparation, "Stereo separation 0-255")
	frames     = flag.Int("frames", 44100, "Number of frames to render")
	sampleRate = flag.Int("rate", 44100, "Output sample rate")
	channels   = flag.Int("channels", 32, "Number of mixer channels (1-32)")
	pitch      = flag.Bool("pitch", false, "Enable pitch variation")
	format     = flag.String("format", encode.CodecWAV, "Output format: wav or pcm")
	outFile    = flag.String("out", "", "Output file (default: dump-<uuid>.<format>)")
	logFile    = flag.String("log-file", "sfxdump.log", "Log file path")
)

func main() {
	flag.Parse()

	// Set up logging (both file and console)
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	log.SetOutput(io.MultiWriter(os.Stdout, f))
	log.Printf("Starting %s offline renderer", version.String())

	provider := assets.NewDir(*assetsDir)
	names, err := selectSounds(provider, *sounds)
	if err != nil {
		log.Fatalf("Failed to select sounds: %v", err)
	}

	// The headless sink is never pumped; the capture tap drives the mix
	system := sfx.New(sfx.Config{
		SampleRate:     *sampleRate,
		Channels:       *channels,
		PitchVariation: *pitch,
	}, provider, output.NewHeadless())
	defer system.Close()

	for i, name := range names {
		system.Register(mixer.SoundDef{ID: i + 1, Name: name, Priority: 64})
	}

	p := sfx.DefaultStartParams()
	p.Separation = *separation
	p.Listener = true
	for i, name := range names {
		slot := system.StartSound(mixer.NoOrigin, i+1, p)
		if slot == mixer.NoChannel {
			log.Printf("Skipping %s: no channel", name)
			continue
		}
		log.Printf("Started %s on channel %d", name, slot)
	}

	path := *outFile
	if path == "" {
		path = fmt.Sprintf("dump-%s.%s", uuid.New().String(), *format)
	}

	out, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", path, err)
	}

	if err := system.Dump(out, *frames, *format); err != nil {
		out.Close()
		log.Fatalf("Dump failed: %v", err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("Failed to close %s: %v", path, err)
	}

	log.Printf("Wrote %s", path)
}

// selectSounds returns the requested names, or every asset when none are given
func selectSounds(provider *assets.Dir, list string) ([]string, error) {
	if list == "" {
		return provider.List()
	}

	var names []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no sounds in %q", list)
	}
	return names, nil
}
