package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/board/boardtest"
	"pcb-editor/internal/netlist"
	"pcb-editor/internal/project"
	"pcb-editor/internal/version"
	"pcb-editor/pkg/geometry"
)

// testEnv holds a config pointing the clipboard into a temp dir and a
// project with R1 -- J -- R2 on net N1.
type testEnv struct {
	config  string
	project string
	r2      uuid.UUID
	trace   uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	data := "clipboard:\n  dir: " + filepath.Join(dir, "clipboard") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfg, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := boardtest.New(t)
	r1 := f.Place("R1", geometry.Point{})
	r2 := f.Place("R2", geometry.Point{X: geometry.Mm(10)})
	j := boardtest.Junction(5, 0)
	tr := boardtest.Trace(j.Anchor(), f.Pad(r2, 0))
	f.Segment(f.Net("N1"), netlist.Segment{
		Junctions: []netlist.Junction{j},
		Traces:    []netlist.Trace{boardtest.Trace(f.Pad(r1, 1), j.Anchor()), tr},
	})
	proj := project.New("demo")
	proj.Board = f.Board
	path := filepath.Join(dir, "demo"+project.Extension)
	if err := proj.Save(path); err != nil {
		t.Fatalf("save project: %v", err)
	}
	return &testEnv{config: cfg, project: path, r2: r2.Component, trace: tr.ID}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func (e *testEnv) load(t *testing.T) *project.File {
	t.Helper()
	p, err := project.Load(e.project)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}
	return p
}

func TestVersionCmd(t *testing.T) {
	origVersion, origCommit := version.Version, version.GitCommit
	version.Version, version.GitCommit = "1.2.3", "abc123"
	defer func() { version.Version, version.GitCommit = origVersion, origCommit }()

	env := newTestEnv(t)
	out, err := env.run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "pcbedit 1.2.3") {
		t.Errorf("expected output to contain 'pcbedit 1.2.3', got: %s", out)
	}
	if !strings.Contains(out, "commit: abc123") {
		t.Errorf("expected output to contain 'commit: abc123', got: %s", out)
	}
}

func TestRootCmdHelp(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"new", "info", "check", "remove", "copy", "paste", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help output to list %q, got: %s", sub, out)
		}
	}
}

func TestNewCmd(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "empty")

	out, err := env.run(t, "new", path)
	if err != nil {
		t.Fatalf("new command failed: %v", err)
	}
	if !strings.Contains(out, "empty"+project.Extension) {
		t.Errorf("expected created path in output, got: %s", out)
	}
	p, err := project.Load(path + project.Extension)
	if err != nil {
		t.Fatalf("load new project: %v", err)
	}
	if p.Board.Name != "empty" {
		t.Errorf("board name = %q, want %q", p.Board.Name, "empty")
	}
}

func TestInfoCmd(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "info", env.project)
	if err != nil {
		t.Fatalf("info command failed: %v", err)
	}
	if !strings.Contains(out, "2 devices, 1 net segments") {
		t.Errorf("expected board summary, got: %s", out)
	}
	if !strings.Contains(out, "net N1: 0 vias, 1 junctions, 2 traces") {
		t.Errorf("expected net summary, got: %s", out)
	}
}

func TestCheckCmd(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "check", env.project)
	if err != nil {
		t.Fatalf("check command failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok") {
		t.Errorf("expected ok, got: %s", out)
	}
}

func TestCheckBoardDangling(t *testing.T) {
	f := boardtest.New(t)
	j := boardtest.Junction(0, 0)
	f.Segment(f.Net("N1"), netlist.Segment{
		Junctions: []netlist.Junction{j},
		Traces:    []netlist.Trace{boardtest.Trace(j.Anchor(), anchor.Pad(uuid.New(), uuid.New()))},
	})

	problems := checkBoard(f.Board)
	if len(problems) != 1 || !strings.Contains(problems[0], "dangling") {
		t.Errorf("expected one dangling anchor, got: %v", problems)
	}
}

func TestRemoveCmd(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "remove", env.project, "--id", env.r2.String(), "--keep-traces")
	if err != nil {
		t.Fatalf("remove command failed: %v", err)
	}
	if !strings.Contains(out, "1 devices") {
		t.Errorf("expected one device left, got: %s", out)
	}

	b := env.load(t).Board
	if b.Device(env.r2) != nil {
		t.Error("R2 still placed")
	}
	if len(b.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(b.Segments))
	}
	s := b.Segments[0]
	if len(s.Traces) != 2 {
		t.Errorf("expected both traces kept, got %d", len(s.Traces))
	}
	if len(s.Junctions) != 2 {
		t.Errorf("expected a junction in place of the pad, got %d junctions", len(s.Junctions))
	}
	if !netlist.IsConnected(s.Segment) {
		t.Error("segment not connected")
	}
}

func TestRemoveCmdUnknownID(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "remove", env.project, "--id", uuid.NewString()); err == nil {
		t.Fatal("expected error for unknown id")
	}
	if _, err := env.run(t, "remove", env.project, "--id", "nope"); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

func TestCopyPasteCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "copy", env.project, "--id", env.trace.String(), "--cursor", "5,0")
	if err != nil {
		t.Fatalf("copy command failed: %v", err)
	}
	entry := strings.TrimSpace(out)
	if len(entry) != 26 {
		t.Fatalf("expected a ULID entry id, got: %q", out)
	}

	out, err = env.run(t, "paste", env.project, "--entry", entry, "--at", "5,20")
	if err != nil {
		t.Fatalf("paste command failed: %v", err)
	}
	if !strings.Contains(out, "pasted 3 items from "+entry) {
		t.Errorf("unexpected paste output: %s", out)
	}

	b := env.load(t).Board
	if len(b.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(b.Segments))
	}
	pasted := b.Segments[1]
	want := []geometry.Point{
		{X: geometry.Mm(5), Y: geometry.Mm(20)},
		{X: geometry.Mm(9), Y: geometry.Mm(20)},
	}
	if len(pasted.Junctions) != 2 || pasted.Junctions[0].Position != want[0] || pasted.Junctions[1].Position != want[1] {
		t.Errorf("pasted junctions = %+v, want positions %v", pasted.Junctions, want)
	}
	if pasted.NetSignal != b.Segments[0].NetSignal {
		t.Error("pasted segment not on net N1")
	}
}

func TestPasteCmdLatest(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "copy", env.project, "--all"); err != nil {
		t.Fatalf("copy command failed: %v", err)
	}

	// Every device is already placed, so only the segment comes back.
	out, err := env.run(t, "paste", env.project, "--at", "0,10")
	if err != nil {
		t.Fatalf("paste command failed: %v", err)
	}
	if !strings.Contains(out, "pasted 5 items") {
		t.Errorf("unexpected paste output: %s", out)
	}
	if n := len(env.load(t).Board.Segments); n != 2 {
		t.Errorf("expected 2 segments, got %d", n)
	}
}

func TestPasteCmdEmptyClipboard(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "paste", env.project, "--at", "0,0"); err == nil {
		t.Fatal("expected error for empty clipboard")
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.Point
		wantErr bool
	}{
		{"1,2", geometry.Point{X: geometry.Mm(1), Y: geometry.Mm(2)}, false},
		{" 0.5 , -3 ", geometry.Point{X: geometry.Mm(0.5), Y: geometry.Mm(-3)}, false},
		{"1", geometry.Point{}, true},
		{"a,2", geometry.Point{}, true},
		{"1,b", geometry.Point{}, true},
	}
	for _, tt := range tests {
		got, err := parsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePoint(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewCmdFormFactor(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "card"+project.Extension)

	if _, err := env.run(t, "new", path, "--form", "ecb", "--name", "ECB card"); err != nil {
		t.Fatalf("new command failed: %v", err)
	}
	p, err := project.Load(path)
	if err != nil {
		t.Fatalf("load new project: %v", err)
	}
	if p.Board.Name != "ECB card" {
		t.Errorf("board name = %q, want %q", p.Board.Name, "ECB card")
	}
	if len(p.Board.Polygons) != 33 {
		t.Errorf("expected outline and 32 contacts, got %d polygons", len(p.Board.Polygons))
	}

	if _, err := env.run(t, "new", path, "--form", "vme"); err == nil {
		t.Fatal("expected error for unknown form factor")
	}
}
