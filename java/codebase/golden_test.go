package codebase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/config"
)

// goldenRequest is the request.yaml of a golden archive. Either At names a
// call site as FILE:LINE:COL or the request is spelled out.
type goldenRequest struct {
	At        string `yaml:"at"`
	Intention string `yaml:"intention"`
	Receiver  string `yaml:"receiver"`
	Method    string `yaml:"method"`
	Returns   string `yaml:"returns"`
	Args      []struct {
		Expr string `yaml:"expr"`
		Type string `yaml:"type"`
	} `yaml:"args"`
	Error string `yaml:"error"`
}

var goldenErrors = map[string]error{
	clone.ErrUnresolvableTarget.Error(): clone.ErrUnresolvableTarget,
	clone.ErrMalformedHierarchy.Error(): clone.ErrMalformedHierarchy,
	clone.ErrStaleModel.Error():         clone.ErrStaleModel,
	clone.ErrNoExpectedType.Error():     clone.ErrNoExpectedType,
}

func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			runGolden(t, path)
		})
	}
}

func runGolden(t *testing.T, archivePath string) {
	ar, err := txtar.ParseFile(archivePath)
	require.NoError(t, err)

	dir := t.TempDir()
	var gr goldenRequest
	want := map[string]string{}
	for _, f := range ar.Files {
		switch {
		case f.Name == "request.yaml":
			require.NoError(t, yaml.Unmarshal(f.Data, &gr))
		case strings.HasPrefix(f.Name, "want/"):
			want[strings.TrimPrefix(f.Name, "want/")] = string(f.Data)
		default:
			target := filepath.Join(dir, filepath.FromSlash(f.Name))
			require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
			require.NoError(t, os.WriteFile(target, f.Data, 0o644))
		}
	}

	cfg := config.Default()
	cb := New(dir, WithMarkers(cfg.Markers...), WithIndent(cfg.Indent))
	require.NoError(t, cb.ScanAll())
	snap := cb.Snapshot()

	intention := cfg.DefaultIntention()
	if gr.Intention != "" {
		var ok bool
		intention, ok = clone.IntentionByID(gr.Intention)
		require.True(t, ok, "unknown intention %s", gr.Intention)
	}

	var req clone.Request
	if gr.At != "" {
		call, err := snap.CallAtLocation(gr.At)
		require.NoError(t, err)
		req = RequestFromCall(call, intention)
	} else {
		req = clone.Request{
			Receiver:     gr.Receiver,
			Method:       gr.Method,
			ExpectedType: gr.Returns,
			Strict:       intention.Strict,
		}
		for _, a := range gr.Args {
			req.Arguments = append(req.Arguments, clone.Argument{Expr: a.Expr, Type: a.Type})
		}
	}

	engine := clone.NewEngine(snap, nil, cfg.EngineOptions())
	_, err = engine.Apply(context.Background(), req, cb)
	if gr.Error != "" {
		sentinel, ok := goldenErrors[gr.Error]
		require.True(t, ok, "unknown error %q", gr.Error)
		assert.ErrorIs(t, err, sentinel)
	} else {
		require.NoError(t, err)
	}

	for name, content := range want {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, content, string(got), name)
	}
}
