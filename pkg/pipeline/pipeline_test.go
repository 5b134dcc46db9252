package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	rerrors "github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/layout"
	"github.com/matzehuels/railyard/pkg/loader"
	"github.com/matzehuels/railyard/pkg/observability"
)

const exampleJSON = `[
  {"type": "end_node", "id": "EN001", "track": "T1"},
  {"type": "points_node", "id": "PN001", "facing": "T1", "forward": "T2", "reverse": "T3"},
  {"type": "track", "id": "T1", "start_node": "PN001", "end_node": "EN001", "length": 12.5}
]`

const exampleYAML = `
end_nodes:
  - {id: EN001, track: T1}
points_nodes:
  - {id: PN001, facing: T1, forward: T2, reverse: T3}
tracks:
  - {id: T1, start_node: PN001, end_node: EN001, length: 12.5}
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// memCache is an in-memory cache that counts operations.
type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	gets     int
	sets     int
	failGets bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGets {
		return nil, false, errors.New("backend down")
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		doc    string
		schema string
	}{
		{"json flat", "layout.json", exampleJSON, ""},
		{"yaml segregated", "layout.yaml", exampleYAML, "segregated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDoc(t, tt.file, tt.doc)
			r := NewRunner(nil, nil)

			res, err := r.Load(context.Background(), Options{Path: path, Schema: tt.schema})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if res.Stats.NodeCount != 2 || res.Stats.TrackCount != 1 {
				t.Errorf("stats = %+v", res.Stats)
			}
			if len(res.DocHash) != 64 {
				t.Errorf("DocHash = %q", res.DocHash)
			}

			got, err := r.Find(context.Background(), res, DefaultFrom, DefaultTo)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			want := layout.Track{ID: "T1", StartNode: "PN001", EndNode: "EN001", Length: 12.5, HasLength: true}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Find() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	dangling := writeDoc(t, "layout.json", `[
  {"type": "end_node", "id": "EN001", "track": "T1"},
  {"type": "track", "id": "T1", "start_node": "EN001", "end_node": "EN999"}
]`)
	malformed := writeDoc(t, "broken.json", `[{"type": "end_node",`)
	noExt := writeDoc(t, "layout", exampleJSON)

	tests := []struct {
		name     string
		opts     Options
		wantCode rerrors.Code
	}{
		{"missing file", Options{Path: missing}, rerrors.ErrCodeFileNotFound},
		{"dangling track endpoint", Options{Path: dangling}, rerrors.ErrCodeReferenceIntegrity},
		{"malformed document", Options{Path: malformed}, rerrors.ErrCodeInvalidFormat},
		{"unknown extension", Options{Path: noExt}, rerrors.ErrCodeInvalidFormat},
		{"unknown schema", Options{Path: dangling, Schema: "mixed"}, rerrors.ErrCodeInvalidInput},
		{"wrong shape for schema", Options{Path: dangling, Schema: "segregated"}, rerrors.ErrCodeInvalidSchema},
		{"control characters in path", Options{Path: "lay\x00out.json"}, rerrors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewRunner(nil, nil).Load(context.Background(), tt.opts)
			if res != nil {
				t.Error("Load() returned a result alongside an error")
			}
			if got := rerrors.GetCode(err); got != tt.wantCode {
				t.Errorf("Load() code = %q, want %q (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestLoadExplicitFormat(t *testing.T) {
	path := writeDoc(t, "layout.txt", exampleYAML)
	res, err := NewRunner(nil, nil).Load(context.Background(), Options{Path: path, Format: "yml", Schema: "segregated"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Schema != loader.SchemaSegregated {
		t.Errorf("Schema = %q", res.Schema)
	}
}

func TestLoadStrict(t *testing.T) {
	path := writeDoc(t, "layout.json", exampleJSON)

	_, err := NewRunner(nil, nil).Load(context.Background(), Options{Path: path, Strict: true})
	var dt *layout.DanglingTrackError
	if !errors.As(err, &dt) {
		t.Fatalf("Load(strict) error = %v, want *layout.DanglingTrackError", err)
	}
	if dt.NodeID != "PN001" || dt.MissingTrackID != "T2" {
		t.Errorf("DanglingTrackError = %+v", dt)
	}
}

func TestLoadCanceled(t *testing.T) {
	path := writeDoc(t, "layout.json", exampleJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRunner(nil, nil).Load(ctx, Options{Path: path}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestFindNotFound(t *testing.T) {
	path := writeDoc(t, "layout.json", exampleJSON)
	r := NewRunner(nil, nil)
	res, err := r.Load(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	_, err = r.Find(context.Background(), res, "PN001", "EN002")
	if !errors.Is(err, layout.ErrNotFound) {
		t.Fatalf("Find() error = %v, want ErrNotFound", err)
	}
	if _, err := r.Find(context.Background(), res, "EN001", "PN001"); err != nil {
		t.Errorf("layout not queryable after a failed query: %v", err)
	}
}

func TestRenderCaching(t *testing.T) {
	ctx := context.Background()
	path := writeDoc(t, "layout.json", exampleJSON)
	c := newMemCache()
	r := NewRunner(c, nil)

	res, err := r.Load(ctx, Options{Path: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	opts := Options{Formats: []string{"DOT"}}
	first, cached, err := r.Render(ctx, res, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if cached {
		t.Error("first Render() reported a cache hit")
	}
	if !strings.Contains(string(first["dot"]), `"PN001" -- "EN001"`) {
		t.Errorf("dot artifact:\n%s", first["dot"])
	}

	second, cached, err := r.Render(ctx, res, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !cached {
		t.Error("second Render() missed the cache")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached artifact differs (-first +second):\n%s", diff)
	}

	// Different render options use a different key.
	if _, cached, _ := r.Render(ctx, res, Options{Formats: []string{"dot"}, Detailed: true}); cached {
		t.Error("Detailed render hit the plain render's cache entry")
	}

	// Refresh skips the read but still stores the result.
	sets := c.sets
	if _, cached, _ := r.Render(ctx, res, Options{Formats: []string{"dot"}, Refresh: true}); cached {
		t.Error("Refresh render reported a cache hit")
	}
	if c.sets != sets+1 {
		t.Errorf("Refresh render wrote %d entries, want 1", c.sets-sets)
	}
}

func TestRenderCacheFailureIsMiss(t *testing.T) {
	ctx := context.Background()
	path := writeDoc(t, "layout.json", exampleJSON)
	c := newMemCache()
	c.failGets = true
	r := NewRunner(c, nil)

	res, err := r.Load(ctx, Options{Path: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	out, cached, err := r.Render(ctx, res, Options{Formats: []string{"dot"}})
	if err != nil || cached || len(out["dot"]) == 0 {
		t.Errorf("Render() = %d bytes, cached %v, err %v", len(out["dot"]), cached, err)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	path := writeDoc(t, "layout.json", exampleJSON)
	r := NewRunner(nil, nil)
	res, err := r.Load(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	_, _, err = r.Render(context.Background(), res, Options{Formats: []string{"gif"}})
	if !rerrors.Is(err, rerrors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) code = %v", rerrors.GetCode(err))
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png", "pdf", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "json"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateForLoadDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateForLoad(); err != nil {
		t.Fatalf("ValidateForLoad() error = %v", err)
	}
	if o.Path != DefaultPath || o.Schema != string(DefaultSchema) || o.Format != "json" {
		t.Errorf("defaults = %+v", o)
	}
	if o.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestHooksReceiveEvents(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r := NewRunner(nil, nil)
	res, err := r.Load(ctx, Options{Path: writeDoc(t, "layout.json", exampleJSON)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	_, _ = r.Find(ctx, res, "PN001", "EN002")
	if _, _, err := r.Render(ctx, res, Options{Formats: []string{"dot"}}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []string{"load-start", "load-complete 2 1", "query PN001 EN002 false", "render-start dot", "render-complete dot"}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnLoadStart(context.Context, string) {
	h.events = append(h.events, "load-start")
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, nodes, tracks int, _ time.Duration, _ error) {
	h.events = append(h.events, fmt.Sprintf("load-complete %d %d", nodes, tracks))
}

func (h *recordingHooks) OnQuery(_ context.Context, a, b string, found bool) {
	h.events = append(h.events, fmt.Sprintf("query %s %s %t", a, b, found))
}

func (h *recordingHooks) OnRenderStart(_ context.Context, format string) {
	h.events = append(h.events, "render-start "+format)
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	h.events = append(h.events, "render-complete "+format)
}
