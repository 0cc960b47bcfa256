package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/site"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, a live preview server that
// renders pages on every request.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Preview the site, rendering pages on request",
		Long: `Serve renders Markdown pages when they are requested, so edits show up on
reload. Diagram output is cached like in a build. Other files are served
as-is from the source directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			e, err := c.newEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			src := e.cfg.Build.Source
			if len(args) > 0 {
				src = args[0]
			}
			if info, err := os.Stat(src); err != nil || !info.IsDir() {
				return errors.New(errors.ErrCodeFileNotFound, "source directory %s not found", src)
			}

			s := &server{
				builder: site.NewBuilder(e.cfg, e.resolver, e.invoker, logger),
				src:     src,
				logger:  logger,
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           s.routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			printInfo("Serving %s on %s", src, StyleLink.Render("http://"+displayAddr(addr)))
			return listen(ctx, srv)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8000", "listen address")
	return cmd
}

// listen runs srv until ctx is cancelled, then shuts it down gracefully.
func listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// server renders pages from src per request.
type server struct {
	builder *site.Builder
	src     string
	logger  *log.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/*", s.handle)
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *server) handle(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if hidden(rel) {
		http.NotFound(w, r)
		return
	}
	file := filepath.Join(s.src, filepath.FromSlash(rel))

	if page, ok := s.pageSource(rel); ok {
		s.servePage(w, r, page)
		return
	}
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		http.ServeFile(w, r, file)
		return
	}
	http.NotFound(w, r)
}

// hidden reports whether any segment of rel is a dotfile. The builder
// skips those entries, so the preview does not serve them either.
func hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." {
			return true
		}
	}
	return false
}

// pageSource maps a request path onto a Markdown file: "" and directories
// to index.md, "x.html" and "x" to x.md.
func (s *server) pageSource(rel string) (string, bool) {
	var candidates []string
	switch ext := path.Ext(rel); {
	case rel == "" || rel == ".":
		candidates = []string{"index.md"}
	case ext == ".md":
		candidates = []string{rel}
	case ext == ".html":
		candidates = []string{strings.TrimSuffix(rel, ext) + ".md"}
	case ext == "":
		candidates = []string{rel + ".md", path.Join(rel, "index.md")}
	}
	for _, c := range candidates {
		p := filepath.Join(s.src, filepath.FromSlash(c))
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	return "", false
}

func (s *server) servePage(w http.ResponseWriter, r *http.Request, file string) {
	data, err := os.ReadFile(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	page, err := s.builder.RenderPage(r.Context(), file, data)
	if err != nil {
		s.logger.Error("page failed", "page", file, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, d := range page.Diagnostics {
		s.logger.Warn("diagram failed", "page", file, "line", d.Line, "err", d.Err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page.HTML)
}
