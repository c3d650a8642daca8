package player

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

type State int

const (
	StateIdle State = iota
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	}

	panic("unexpected player state: " + strconv.Itoa(int(s)))
}

// Player tracks the single currently selected track. Playback is
// independent of downloads.
type Player struct {
	mux     sync.Mutex
	current string
	state   State
}

func New() *Player {
	return &Player{
		mux:     sync.Mutex{},
		current: "",
		state:   StateIdle,
	}
}

// Toggle flips playback for the given track and reports the resulting
// state. Selecting a different track always starts it playing, implicitly
// transitioning the previous track out of playing.
func (p *Player) Toggle(trackID string) State {
	p.mux.Lock()
	defer p.mux.Unlock()

	if p.current == trackID {
		if p.state == StatePlaying {
			p.state = StateIdle
		} else {
			p.state = StatePlaying
		}

		return p.state
	}

	p.current = trackID
	p.state = StatePlaying

	return p.state
}

func (p *Player) Current() (string, State) {
	p.mux.Lock()
	defer p.mux.Unlock()

	return p.current, p.state
}

func (p *Player) Stop() {
	p.mux.Lock()
	defer p.mux.Unlock()

	p.state = StateIdle
}

// Launch streams a resolved media URL through ffplay until it finishes or
// the context is canceled.
func Launch(ctx context.Context, logger zerolog.Logger, streamURL string) error {
	cmd := exec.CommandContext(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "error", streamURL)
	logger.Debug().Strs("args", cmd.Args).Msg("Starting ffplay command")

	if err := cmd.Run(); nil != err {
		if ctxErr := ctx.Err(); nil != ctxErr {
			return ctxErr
		}

		return fmt.Errorf("failed to run ffplay: %v", err)
	}

	return nil
}
