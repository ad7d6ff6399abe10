// Package lspserver implements a Language Server Protocol server that
// re-runs pattern detection on save and republishes the patterns touching
// the saved file's class as informational diagnostics.
package lspserver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple" // required runtime backend for glsp

	"github.com/dmrimawi/patroid/driver"
	"github.com/dmrimawi/patroid/pattern"
	"github.com/dmrimawi/patroid/relation"
)

const serverName = "patroid-lsp"

// Server is the patroid language server. It holds no cached graph: each
// analysis re-runs driver.AnalyzeProject from scratch, since a single pass
// over a project's sources is cheap relative to round-tripping with an
// editor.
type Server struct {
	logger  *slog.Logger
	driver  *driver.Driver
	handler protocol.Handler
	server  *server.Server

	mu    sync.Mutex
	roots []string // workspace folder paths, longest-prefix-matched to a document

	shutdownCalled bool
}

// NewServer constructs a patroid language server around d. If logger is
// nil, slog.Default() is used.
func NewServer(logger *slog.Logger, d *driver.Driver) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger: logger.With(slog.String("component", "lspserver")),
		driver: d,
	}

	// glsp requires commonlog at runtime; we route everything through slog
	// instead, so commonlog itself is silenced.
	commonlog.Configure(0, nil)

	s.handler = protocol.Handler{
		Initialize:    s.initialize,
		Initialized:   s.initialized,
		Shutdown:      s.shutdown,
		Exit:          s.exit,
		SetTrace:      s.setTrace,
		CancelRequest: s.cancelRequest,

		TextDocumentDidOpen: s.textDocumentDidOpen,
		TextDocumentDidSave: s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio runs the server over stdio, the transport every LSP client
// launches a server subprocess with.
func (s *Server) RunStdio() error {
	if err := s.server.RunStdio(); err != nil {
		return fmt.Errorf("run stdio: %w", err)
	}
	return nil
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.logger.Info("initialize request received")

	switch {
	case params.WorkspaceFolders != nil:
		for _, folder := range params.WorkspaceFolders {
			s.addRoot(folder.URI)
		}
	case params.RootURI != nil:
		s.addRoot(*params.RootURI)
	case params.RootPath != nil:
		s.addRoot(pathToURI(*params.RootPath))
	}

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	if syncOpts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		syncOpts.Change = &syncKind
		t := true
		syncOpts.Save = &protocol.SaveOptions{IncludeText: &t}
	}

	version := "dev"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) addRoot(uri string) {
	path, err := uriToPath(uri)
	if err != nil {
		s.logger.Warn("ignoring non-file workspace root", slog.String("uri", uri))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = append(s.roots, path)
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.logger.Info("server initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.logger.Info("shutdown request received")
	s.shutdownCalled = true
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) exit(_ *glsp.Context) error {
	if !s.shutdownCalled {
		s.logger.Warn("exit called without shutdown")
	}
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) cancelRequest(ctx *glsp.Context, params *protocol.CancelParams) error {
	s.logger.Debug("cancelRequest", slog.Any("id", params.ID))
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.analyzeAndPublish(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.analyzeAndPublish(ctx, params.TextDocument.URI)
	return nil
}

// analyzeAndPublish re-runs the analysis pipeline for the project owning
// uri and republishes, as informational diagnostics on that document, the
// patterns whose witness set includes the document's class.
func (s *Server) analyzeAndPublish(ctx *glsp.Context, uri string) {
	path, err := uriToPath(uri)
	if err != nil {
		s.logger.Warn("ignoring non-file document", slog.String("uri", uri))
		return
	}

	root := s.projectRoot(path)
	r, err := s.driver.AnalyzeProject(context.Background(), root, "")
	if err != nil {
		s.logger.Warn("analysis failed", slog.String("root", root), slog.Any("error", err))
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
		return
	}

	class := classOf(path)
	var diags []protocol.Diagnostic
	var names []string
	for name, occs := range r.Occurrences {
		for _, occ := range occs {
			if occurrenceTouches(occ, class) {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	if len(names) > 0 {
		diags = []protocol.Diagnostic{patternDiagnostic(class, names)}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func patternDiagnostic(class relation.ClassID, patterns []string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityInformation
	source := "patroid"
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 1},
		},
		Severity: &severity,
		Source:   &source,
		Message:  fmt.Sprintf("%s participates in: %s", class, strings.Join(patterns, ", ")),
	}
}

// projectRoot returns the longest known workspace root containing path, or
// path's own directory when no workspace root was announced.
func (s *Server) projectRoot(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	best := ""
	for _, root := range s.roots {
		if strings.HasPrefix(path, root) && len(root) > len(best) {
			best = root
		}
	}
	if best != "" {
		return best
	}
	return filepath.Dir(path)
}

// classOf approximates the class declared in path by its base file name,
// matching the lexical extractor's own fallback: for well-formed Java
// sources the file name and the declared class name coincide.
func classOf(path string) relation.ClassID {
	base := filepath.Base(path)
	return relation.ClassID(strings.TrimSuffix(base, filepath.Ext(base)))
}

// occurrenceTouches reports whether class appears among occ's witness
// class identifiers.
func occurrenceTouches(occ pattern.Occurrence, class relation.ClassID) bool {
	for _, w := range occ.Witnesses {
		cc, ok := w.(interface{ ClassIDs() []relation.ClassID })
		if !ok {
			continue
		}
		for _, c := range cc.ClassIDs() {
			if c == class {
				return true
			}
		}
	}
	return false
}
