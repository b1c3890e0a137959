// Package synth runs the CDK synthesis command as a subprocess to
// produce CloudFormation templates for analysis.
package synth

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cdk-cost/internal/errors"
	"cdk-cost/internal/logging"
)

const (
	// DefaultTimeout bounds one synthesis run
	DefaultTimeout = 25 * time.Second

	// killGracePeriod is how long a process gets between SIGTERM and
	// SIGKILL
	killGracePeriod = 3 * time.Second

	// outputTailBytes bounds how much captured output ends up in the
	// error message
	outputTailBytes = 2048
)

// Options configures a synthesis run
type Options struct {
	// Command is the synthesis command line (default "cdk synth")
	Command []string

	// Dir is the working directory for the command
	Dir string

	// OutputDir is where the command writes templates (default cdk.out)
	OutputDir string

	// Timeout bounds the run (default 25 s)
	Timeout time.Duration
}

// Runner executes synthesis commands
type Runner struct {
	opts Options
}

// NewRunner creates a synthesis runner.
func NewRunner(opts Options) *Runner {
	if len(opts.Command) == 0 {
		opts.Command = []string{"cdk", "synth"}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "cdk.out"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Runner{opts: opts}
}

// Synthesize runs the command and returns the paths of the produced
// template files. A run that overshoots its budget gets SIGTERM, then
// SIGKILL after a grace period.
func (r *Runner) Synthesize(ctx context.Context) ([]string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.opts.Command[0], r.opts.Command[1:]...)
	cmd.Dir = r.opts.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGracePeriod

	logging.Debug("running synthesis command",
		zap.Strings("command", r.opts.Command),
		zap.Duration("timeout", r.opts.Timeout))

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, errors.Newf(errors.TypeSynthesis,
			"synthesis timed out after %s: %s", r.opts.Timeout, outputTail(&stdout, &stderr))
	}
	if err != nil {
		return nil, errors.Wrapf(errors.TypeSynthesis, err,
			"synthesis command failed: %s", outputTail(&stdout, &stderr))
	}

	templates, err := r.collectTemplates()
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, errors.Newf(errors.TypeSynthesis,
			"synthesis produced no templates under %s", r.outputPath())
	}
	return templates, nil
}

// collectTemplates lists the *.template.json files the CDK writes.
func (r *Runner) collectTemplates() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(r.outputPath(), "*.template.json"))
	if err != nil {
		return nil, errors.Wrap(errors.TypeSynthesis, "listing synthesized templates", err)
	}
	return matches, nil
}

func (r *Runner) outputPath() string {
	if filepath.IsAbs(r.opts.OutputDir) {
		return r.opts.OutputDir
	}
	return filepath.Join(r.opts.Dir, r.opts.OutputDir)
}

// StackName derives the stack name from a template file path.
func StackName(templatePath string) string {
	base := filepath.Base(templatePath)
	return strings.TrimSuffix(base, ".template.json")
}

// ReadTemplate loads one synthesized template file.
func ReadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(errors.TypeInput, err, "reading template %s", path)
	}
	return string(data), nil
}

// outputTail joins the last bytes of stdout and stderr for error
// messages, favoring stderr.
func outputTail(stdout, stderr *bytes.Buffer) string {
	tail := func(b *bytes.Buffer) string {
		s := strings.TrimSpace(b.String())
		if len(s) > outputTailBytes {
			s = s[len(s)-outputTailBytes:]
		}
		return s
	}
	if errOut := tail(stderr); errOut != "" {
		return errOut
	}
	if out := tail(stdout); out != "" {
		return out
	}
	return "(no output)"
}
