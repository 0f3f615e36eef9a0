// Package speech provides the on-device speech synthesizer used when the
// remote speech model is unavailable.
package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/nitisetu/niti-setu/internal/domain"
)

// Local shells out to an espeak-ng style synthesizer. Quality is below the
// remote model but the path has no network dependency.
type Local struct {
	command string
}

// NewLocal returns a synthesizer backed by the given command. The command
// must accept "-w <file> <text>" and write a WAV file.
func NewLocal(command string) *Local {
	return &Local{command: command}
}

// Synthesize renders text to a WAV payload.
func (l *Local) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("op=speech.Synthesize: %w: empty text", domain.ErrInvalidArgument)
	}
	tmp, err := os.CreateTemp("", "speech-*.wav")
	if err != nil {
		return nil, fmt.Errorf("op=speech.Synthesize: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(path) }()

	cmd := exec.CommandContext(ctx, l.command, "-w", path, text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("op=speech.Synthesize command=%s: %w: %s", l.command, err, strings.TrimSpace(string(out)))
	}
	wav, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=speech.Synthesize: %w", err)
	}
	if len(wav) == 0 {
		return nil, fmt.Errorf("op=speech.Synthesize command=%s: empty output", l.command)
	}
	return wav, nil
}
