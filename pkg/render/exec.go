package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
)

// waitDelay bounds how long Wait keeps draining pipes after the process
// was killed; grandchildren that inherited stdout cannot hold us forever.
const waitDelay = 2 * time.Second

// execute runs the configured program with code on stdin.
func (i *Invoker) execute(ctx context.Context, opts *config.Options, code string) ([]byte, error) {
	program := opts.Program.String()

	runCtx, cancel := context.WithTimeout(ctx, i.timeout())
	defer cancel()

	cmd, err := command(runCtx, opts)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(code)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = opts.Cwd
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeCannotRun, err,
			"the %s program %q cannot be run, check languages.%s.program", opts.Language, program, opts.Language)
	}

	// Wait always runs so the process handle is released on every path.
	waitErr := cmd.Wait()

	perr := &ProcessError{
		Program: program,
		Pid:     cmd.Process.Pid,
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Err:     waitErr,
	}

	if err := i.failure(ctx, runCtx, opts, perr); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

// failure classifies a finished run, returning nil on success. A run that
// exited cleanly is not a timeout even if the deadline passed meanwhile.
func (i *Invoker) failure(ctx, runCtx context.Context, opts *config.Options, perr *ProcessError) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if perr.Err != nil && runCtx.Err() == context.DeadlineExceeded {
		return errors.Wrap(errors.ErrCodeTimeout, perr,
			"the %s program timed out after %s", opts.Language, i.timeout())
	}
	if len(perr.Stderr) > 0 {
		return errors.Wrap(errors.ErrCodeRendererStderr, perr,
			"the %s program produced errors", opts.Language)
	}
	if perr.Err != nil {
		return errors.Wrap(errors.ErrCodeRendererExit, perr,
			"the %s program exited with error", opts.Language)
	}
	return nil
}

// command builds the exec.Cmd for opts, going through the shell when asked.
func command(ctx context.Context, opts *config.Options) (*exec.Cmd, error) {
	if opts.Shell {
		line := opts.Program.ShellLine()
		if strings.TrimSpace(line) == "" {
			return nil, errors.New(errors.ErrCodeCannotRun, "the %s program is empty", opts.Language)
		}
		argv := append(shellArgv(), line)
		return exec.CommandContext(ctx, argv[0], argv[1:]...), nil
	}

	argv := opts.Program.Argv()
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeCannotRun, "the %s program is empty", opts.Language)
	}
	return exec.CommandContext(ctx, argv[0], argv[1:]...), nil
}
