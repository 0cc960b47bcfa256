package render

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pic/pkg/cache"
	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/observability"
)

// Output is the result of one render.
type Output struct {
	Data   []byte
	Format config.Format
	// Cached is true when Data came from the render cache.
	Cached bool
}

// Text returns the output decoded as text.
func (o *Output) Text() string {
	return string(o.Data)
}

// Invoker runs renderers. The zero value is not usable; use NewInvoker.
type Invoker struct {
	// Timeout bounds one renderer run. Defaults to config.DefaultTimeout.
	Timeout time.Duration
	// CacheTTL is the expiry of cached output.
	CacheTTL time.Duration

	cache  cache.Cache
	logger *log.Logger
}

// NewInvoker creates an invoker. A nil cache disables caching; a nil
// logger falls back to log.Default().
func NewInvoker(c cache.Cache, logger *log.Logger) *Invoker {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Invoker{
		Timeout:  config.DefaultTimeout,
		CacheTTL: cache.DefaultTTL,
		cache:    c,
		logger:   logger,
	}
}

// Render produces the output for code under the effective options opts.
// Markup output is sanitized before it is returned and cached.
func (i *Invoker) Render(ctx context.Context, opts *config.Options, code string) (*Output, error) {
	if opts == nil {
		return nil, errors.New(errors.ErrCodeInternal, "render called without options")
	}

	key := cache.RenderKey(code, cache.RenderKeyOpts{
		Engine:  string(opts.Engine),
		Program: programKey(opts.Program),
		Shell:   opts.Shell,
		Cwd:     opts.Cwd,
		Format:  string(opts.Format),
		Depends: dependsKey(opts.Depends),
	})
	if data, hit, err := i.cache.Get(ctx, key); err != nil {
		i.logger.Warn("render cache read failed", "err", err)
	} else if hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return &Output{Data: data, Format: opts.Format, Cached: true}, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	observability.Render().OnRenderStart(ctx, opts.Language, string(opts.Engine))
	start := time.Now()

	var data []byte
	var err error
	switch opts.Engine {
	case config.EngineGraphviz:
		data, err = i.renderGraphviz(ctx, opts, code)
	case config.EngineExec, "":
		data, err = i.execute(ctx, opts, code)
	default:
		err = errors.New(errors.ErrCodeInvalidConfig, "unknown engine %q", opts.Engine)
	}

	observability.Render().OnRenderComplete(ctx, opts.Language, time.Since(start), err)
	if err != nil {
		i.logger.Debug("renderer failed", "language", opts.Language, "code", code)
		return nil, err
	}

	if opts.Format == config.FormatMarkup {
		data = Sanitize(data)
	}

	if err := i.cache.Set(ctx, key, data, i.CacheTTL); err != nil {
		i.logger.Warn("render cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return &Output{Data: data, Format: opts.Format}, nil
}

func (i *Invoker) timeout() time.Duration {
	if i.Timeout > 0 {
		return i.Timeout
	}
	return config.DefaultTimeout
}

// programKey identifies a command in cache keys. List and string forms of
// the same argv stay distinct since only the string form can use a shell.
func programKey(c config.Command) []string {
	key := make([]string, 0, len(c.Args)+1)
	key = append(key, c.Args...)
	return append(key, c.Line)
}

// dependsKey hashes the contents of the depends file so that editing it
// invalidates cached output. An unreadable file hashes as its path.
func dependsKey(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "missing:" + path
	}
	return cache.Hash(data)
}
