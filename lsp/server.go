package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/confdoc/config"
	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
)

const lsName = "confdoc"

type Server struct {
	workspace *Workspace
	options   *config.Options
	handler   protocol.Handler
	server    *server.Server
	watcher   *FileWatcher
	version   string

	notifyMu sync.Mutex
	notify   glsp.NotifyFunc
}

// NewServer returns a language server analyzing workspaces with opts,
// which may be nil for the defaults.
func NewServer(version string, opts *config.Options) *Server {
	s := &Server{
		version: version,
		options: opts,
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentHover:     s.textDocumentHover,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	s.workspace = NewWorkspace(rootDir, s.options)

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.setNotify(ctx.Notify)
	if err := s.workspace.ScanAll(context.Background()); err != nil {
		log.Errorf("initial scan: %s", err)
		return nil
	}
	s.publish()

	s.watcher = NewFileWatcher(s.workspace, s.publish)
	s.watcher.Start()
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.setNotify(ctx.Notify)
	return s.update(params.TextDocument.URI, []byte(params.TextDocument.Text))
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		path, err := uriToPath(params.TextDocument.URI)
		if err != nil {
			return nil
		}
		// diagnostics wait for save
		s.workspace.SetContent(path, []byte(whole.Text))
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.setNotify(ctx.Notify)
	if params.Text != nil {
		return s.update(params.TextDocument.URI, []byte(*params.Text))
	}
	if err := s.workspace.ScanAll(context.Background()); err != nil {
		log.Errorf("rescan: %s", err)
		return nil
	}
	s.publish()
	return nil
}

func (s *Server) update(uri protocol.DocumentUri, content []byte) error {
	path, err := uriToPath(uri)
	if err != nil || filepath.Ext(path) != ".java" {
		return nil
	}
	if err := s.workspace.UpdateFile(context.Background(), path, content); err != nil {
		log.Errorf("update %s: %s", path, err)
		return nil
	}
	s.publish()
	return nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	h, ok := s.workspace.Hover(path, int(params.Position.Line)+1, int(params.Position.Character)+1)
	if !ok {
		return nil, nil
	}
	rng := nameRange(h.Pos, h.Name)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: h.Text,
		},
		Range: &rng,
	}, nil
}

func (s *Server) setNotify(fn glsp.NotifyFunc) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if fn != nil {
		s.notify = fn
	}
}

// publish sends the diagnostics of every file that has or had some.
func (s *Server) publish() {
	s.notifyMu.Lock()
	notify := s.notify
	s.notifyMu.Unlock()
	if notify == nil {
		return
	}

	byFile := s.workspace.Diagnostics()
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(file),
			Diagnostics: toProtocolDiagnostics(byFile[file]),
		})
	}
}

func toProtocolDiagnostics(ds []diagnostic.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(ds))
	source := lsName
	for _, d := range ds {
		severity := toProtocolSeverity(d.Severity)
		out = append(out, protocol.Diagnostic{
			Range:    nameRange(d.Subject.Pos, d.Subject.Name),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func toProtocolSeverity(s diagnostic.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diagnostic.Error:
		return protocol.DiagnosticSeverityError
	case diagnostic.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// nameRange converts a 1-based position to the zero-based range covering
// name, or one character when name is empty.
func nameRange(pos java.Pos, name string) protocol.Range {
	line := protocol.UInteger(max(pos.Line-1, 0))
	start := protocol.UInteger(max(pos.Column-1, 0))
	end := start + protocol.UInteger(len(name))
	if name == "" {
		end = start + 1
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: start},
		End:   protocol.Position{Line: line, Character: end},
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
