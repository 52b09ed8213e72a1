package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/daybook/internal/apperr"
	"github.com/ayoisaiah/daybook/internal/models"
)

var (
	errEmptySamplerCmd = &apperr.Error{
		Message: "tracker.sampler_cmd must be set to a command that reports the focused window",
	}

	errSamplerExec = &apperr.Error{
		Message: "sampler command failed: %v",
	}

	errSamplerOutput = &apperr.Error{
		Message: "sampler produced invalid output: %v",
	}

	errSamplerNoApp = &apperr.Error{
		Message: "sampler reported no focused application",
	}
)

// Sample is one point-in-time observation of the focused window and the
// user's idle state.
type Sample struct {
	Identity models.Identity
	Idle     time.Duration
}

// Sampler reports the currently focused window. Implementations must be
// safe to call repeatedly; a failed call is skipped by the tracker and
// never closes an open session.
type Sampler interface {
	Sample(ctx context.Context) (Sample, error)
}

// ExecSampler shells out to a user-configured command and decodes its
// JSON output. The command contract is a single object on stdout:
//
//	{"app": "...", "title": "...", "url": "...", "idle_seconds": 0}
//
// url and idle_seconds are optional.
type ExecSampler struct {
	argv    []string
	timeout time.Duration
}

type samplerOutput struct {
	App         string `json:"app"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	IdleSeconds int    `json:"idle_seconds"`
}

// NewExecSampler parses the configured command line once. The timeout
// bounds each invocation so a hung script cannot stall the poll loop.
func NewExecSampler(cmdline string, timeout time.Duration) (*ExecSampler, error) {
	argv, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, errSamplerExec.Wrap(err)
	}

	if len(argv) == 0 {
		return nil, errEmptySamplerCmd
	}

	return &ExecSampler{argv: argv, timeout: timeout}, nil
}

func (e *ExecSampler) Sample(ctx context.Context) (Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, e.argv[0], e.argv[1:]...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return Sample{}, errSamplerExec.Fmt(err)
	}

	var out samplerOutput

	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return Sample{}, errSamplerOutput.Fmt(err)
	}

	if out.App == "" {
		return Sample{}, errSamplerNoApp
	}

	return Sample{
		Identity: models.Identity{
			App:   out.App,
			Title: out.Title,
			URL:   out.URL,
		},
		Idle: time.Duration(out.IdleSeconds) * time.Second,
	}, nil
}
