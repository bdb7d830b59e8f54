// Package mp4probe inspects a finished render output for the post-render
// summary and the probe command.
package mp4probe

import (
	"fmt"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Info summarizes a rendered MP4 file.
type Info struct {
	Path     string
	Size     int64
	Duration time.Duration
	Tracks   []TrackInfo
}

// TrackInfo describes one track in the output.
type TrackInfo struct {
	ID      uint32
	Handler string // "vide" or "soun"
}

// Probe reads the moov metadata of a finished output file.
func Probe(path string) (Info, error) {
	info := Info{Path: path}

	stat, err := os.Stat(path)
	if err != nil {
		return info, fmt.Errorf("stat output: %w", err)
	}
	info.Size = stat.Size()

	f, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	mp4File, err := mp4.DecodeFile(f)
	if err != nil {
		return info, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return info, fmt.Errorf("no moov box in %s", path)
	}

	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 {
		seconds := float64(moov.Mvhd.Duration) / float64(moov.Mvhd.Timescale)
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	for _, trak := range moov.Traks {
		track := TrackInfo{}
		if trak.Tkhd != nil {
			track.ID = trak.Tkhd.TrackID
		}
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil {
			track.Handler = trak.Mdia.Hdlr.HandlerType
		}
		info.Tracks = append(info.Tracks, track)
	}

	return info, nil
}

// Summary formats the probe result for logging.
func (i Info) Summary() string {
	video, audio := 0, 0
	for _, t := range i.Tracks {
		switch t.Handler {
		case "vide":
			video++
		case "soun":
			audio++
		}
	}
	return fmt.Sprintf("%s: %d bytes, %s, %d video / %d audio track(s)",
		i.Path, i.Size, i.Duration.Round(time.Millisecond), video, audio)
}
