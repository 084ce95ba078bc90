package codebase

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/config"
	"github.com/dhamidi/entitygen/java/source"
)

const lsName = "entitygen"

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	config   *config.Config
	cfgDir   string
	handler  protocol.Handler
	server   *server.Server
	version  string
}

// NewLSPServer creates a server. A nil cfg is looked up from the workspace
// root on initialize.
func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	ls := &LSPServer{
		version: version,
		config:  cfg,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCodeAction: ls.textDocumentCodeAction,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	if ls.config == nil {
		cfg, path, err := config.Find(rootDir)
		if err != nil {
			log.Warningf("config: %s", err)
			cfg = config.Default()
		}
		ls.config = cfg
		if path != "" {
			ls.cfgDir = filepath.Dir(path)
		}
	}
	if ls.cfgDir == "" {
		ls.cfgDir = rootDir
	}

	ls.codebase = New(rootDir, WithMarkers(ls.config.Markers...), WithIndent(ls.config.Indent))

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Errorf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	archives := ls.config.SourcePaths(ls.cfgDir)
	if javaSrc := os.Getenv("JAVA_SRC"); javaSrc != "" {
		archives = append(archives, javaSrc)
	}
	for _, err := range ls.codebase.ScanDependencies(archives, ls.config.ClasspathPaths(ls.cfgDir)) {
		log.Warningf("%s", err)
	}
	ls.watcher = NewFileWatcher(ls.codebase, 0)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line := int(params.Range.Start.Line) + 1
	col := int(params.Range.Start.Character) + 1
	return ls.CodeActions(context.Background(), path, line, col), nil
}

// CodeActions returns one action per intention for the call at the 1-based
// line and column of path, or none when the call is not eligible.
func (ls *LSPServer) CodeActions(ctx context.Context, path string, line, col int) []protocol.CodeAction {
	snap := ls.codebase.Snapshot()
	call, err := snap.CallAt(path, line, col)
	if err != nil || !Eligible(snap, call) {
		return nil
	}

	engine := clone.NewEngine(snap, nil, ls.config.EngineOptions())
	kind := protocol.CodeActionKindQuickFix
	var actions []protocol.CodeAction
	for _, in := range clone.Intentions() {
		res, err := engine.Generate(ctx, RequestFromCall(call, in))
		if err != nil {
			log.Infof("%s at %s:%d:%d: %s", in.ID, path, line, col, err)
			continue
		}
		f, edits, err := ls.codebase.MethodEdits(res.Receiver, res.Method.String())
		if err != nil {
			log.Infof("%s at %s:%d:%d: %s", in.ID, path, line, col, err)
			continue
		}
		actions = append(actions, protocol.CodeAction{
			Title: in.Title,
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					pathToURI(f.Path): toTextEdits(edits),
				},
			},
			Data: in.ID,
		})
	}
	return actions
}

func toTextEdits(edits []source.Edit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(e.Start.Line - 1), Character: protocol.UInteger(e.Start.Column - 1)},
				End:   protocol.Position{Line: protocol.UInteger(e.End.Line - 1), Character: protocol.UInteger(e.End.Column - 1)},
			},
			NewText: e.NewText,
		})
	}
	return out
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
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return protocol.DocumentUri(u.String())
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
