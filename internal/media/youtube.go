package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/cleanup"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/errs"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

var youtubePattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

// Fetcher resolves a YouTube URL to a local, normalized audio file. The
// metadata probe and the stream stage are fields so tests can stub them.
type Fetcher struct {
	validator Validator
	scratch   *cleanup.Scratch
	log       logrus.FieldLogger

	probe  func(ctx context.Context, url string) (*types.VideoMetadata, error)
	stream func(ctx context.Context, url, outPath string) error
}

// LocalAudio is a finished scratch file holding the extracted audio track.
// The caller owns its deletion.
type LocalAudio struct {
	Path string
	Size int64
	Meta types.VideoMetadata
}

// NewFetcher creates the acquisition engine.
func NewFetcher(v Validator, scratch *cleanup.Scratch, log logrus.FieldLogger) *Fetcher {
	f := &Fetcher{
		validator: v,
		scratch:   scratch,
		log:       log,
	}
	f.probe = probeWithYtDlp
	f.stream = f.streamToMP3
	return f
}

// Fetch acquires the audio track of a remote video as a 128 kbps mp3 scratch
// file. Admission checks run before any transfer starts, and every failure
// path removes the scratch file it may have created.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*LocalAudio, error) {
	if !youtubePattern.MatchString(url) {
		return nil, errs.New(errs.InvalidReference, "not a valid YouTube URL: %s", url)
	}

	meta, err := f.probe(ctx, url)
	if err != nil {
		// lookup output carries the unavailability markers Classify matches on
		kind, msg := errs.Classify(err)
		return nil, errs.New(kind, "%s", msg)
	}

	if err := f.validator.CheckDuration(meta.Duration); err != nil {
		return nil, err
	}

	outPath := f.scratch.Path("youtube-audio", ".mp3")

	f.log.WithFields(logrus.Fields{
		"video_id": meta.ID,
		"duration": meta.Duration,
	}).Info("starting audio download and transcode")

	if err := f.stream(ctx, url, outPath); err != nil {
		f.scratch.Remove(outPath)
		return nil, errs.New(errs.TranscodeFailed, "audio extraction failed: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		f.scratch.Remove(outPath)
		return nil, errs.New(errs.TranscodeFailed, "transcoded file missing: %v", err)
	}
	if err := f.validator.CheckSize(info.Size()); err != nil {
		f.scratch.Remove(outPath)
		return nil, err
	}

	return &LocalAudio{Path: outPath, Size: info.Size(), Meta: *meta}, nil
}

// ytDlpInfo is the subset of yt-dlp's JSON dump we care about.
type ytDlpInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
}

// probeWithYtDlp resolves video metadata without downloading anything.
func probeWithYtDlp(ctx context.Context, url string) (*types.VideoMetadata, error) {
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--dump-single-json",
		"--no-download",
		"--no-warnings",
		url,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// stderr carries the "Video unavailable" / "Private video" markers
		return nil, fmt.Errorf("metadata lookup failed: %v: %s", err, stderr.String())
	}

	var info ytDlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &types.VideoMetadata{
		ID:       info.ID,
		Title:    info.Title,
		Author:   info.Uploader,
		Duration: info.Duration,
	}, nil
}

// streamToMP3 pulls the audio-only stream with yt-dlp and pipes it straight
// into ffmpeg, which writes a single-track 128 kbps mp3 to outPath. The pull
// is throttled by ffmpeg's write rate through the pipe.
func (f *Fetcher) streamToMP3(ctx context.Context, url, outPath string) error {
	pull := exec.CommandContext(ctx, "yt-dlp",
		"-f", "bestaudio",
		"-o", "-",
		"--quiet",
		url,
	)
	transcode := exec.CommandContext(ctx, "ffmpeg",
		"-i", "pipe:0",
		"-vn",
		"-codec:a", "libmp3lame",
		"-b:a", "128k",
		"-f", "mp3",
		"-y",
		outPath,
	)

	pipe, err := pull.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open pull pipe: %w", err)
	}
	transcode.Stdin = pipe

	var pullErr, transcodeErr bytes.Buffer
	pull.Stderr = &pullErr
	transcode.Stderr = &transcodeErr

	if err := transcode.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	if err := pull.Start(); err != nil {
		_ = transcode.Process.Kill()
		_ = transcode.Wait()
		return fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	// Reap the consumer first. If ffmpeg quits early, yt-dlp may be blocked
	// writing into the pipe with nobody draining it, so it has to be killed
	// before its Wait can return.
	if err := transcode.Wait(); err != nil {
		_ = pull.Process.Kill()
		_ = pull.Wait()
		return fmt.Errorf("ffmpeg failed: %v: %s", err, transcodeErr.String())
	}
	if err := pull.Wait(); err != nil {
		return fmt.Errorf("yt-dlp failed: %v: %s", err, pullErr.String())
	}
	return nil
}
