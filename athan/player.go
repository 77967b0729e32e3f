package athan

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yllada/prayer-times/common"
)

type playerCmd struct {
	name string
	args []string
}

// Candidates are tried in order; the first one installed wins.
var (
	mp3Players = []playerCmd{
		{"mpg123", []string{"-q"}},
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
		{"pw-play", nil},
		{"paplay", nil},
	}
	wavPlayers = []playerCmd{
		{"paplay", nil},
		{"pw-play", nil},
		{"aplay", []string{"-q"}},
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	}
)

// ExecPlayer plays sound files through an external command-line player.
// Starting a new sound stops the previous one.
type ExecPlayer struct {
	mu      sync.Mutex
	current *exec.Cmd

	lookPath func(file string) (string, error)
	bell     io.Writer
	logger   common.Logger
}

// NewExecPlayer creates a player that rings the terminal bell on Beep.
func NewExecPlayer() *ExecPlayer {
	return &ExecPlayer{
		lookPath: exec.LookPath,
		bell:     os.Stdout,
		logger:   common.Component("player"),
	}
}

func candidatesFor(path string) []playerCmd {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		return mp3Players
	}
	return wavPlayers
}

// Play starts playback of path and returns without waiting for it to end.
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	if !common.HasSoundExtension(path) {
		return fmt.Errorf("%w: %s", common.ErrUnsupportedSound, filepath.Base(path))
	}
	if !common.FileExists(path) {
		return fmt.Errorf("%w: %s does not exist", common.ErrPlayback, path)
	}

	for _, c := range candidatesFor(path) {
		bin, err := p.lookPath(c.name)
		if err != nil {
			continue
		}

		args := append(append([]string{}, c.args...), path)
		cmd := exec.CommandContext(ctx, bin, args...)

		p.mu.Lock()
		p.stopLocked()
		if err := cmd.Start(); err != nil {
			p.mu.Unlock()
			return fmt.Errorf("%w: %s: %v", common.ErrPlayback, c.name, err)
		}
		p.current = cmd
		p.mu.Unlock()

		p.logger.Info("playing %s with %s", filepath.Base(path), c.name)
		go p.wait(cmd)
		return nil
	}
	return common.ErrNoSoundPlayer
}

func (p *ExecPlayer) wait(cmd *exec.Cmd) {
	if err := cmd.Wait(); err != nil {
		p.logger.Debug("player exited: %v", err)
	}
	p.mu.Lock()
	if p.current == cmd {
		p.current = nil
	}
	p.mu.Unlock()
}

// Stop ends the current playback, if any.
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *ExecPlayer) stopLocked() {
	if p.current != nil && p.current.Process != nil {
		_ = p.current.Process.Kill()
	}
	p.current = nil
}

// Beep rings the terminal bell.
func (p *ExecPlayer) Beep() {
	_, _ = io.WriteString(p.bell, "\a")
}
