package install

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeRunner struct {
	name string
	args []string
	dir  string
	runs int
	code int
	err  error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args []string, dir string) (int, error) {
	f.runs++
	f.name, f.args, f.dir = name, args, dir
	return f.code, f.err
}

func newInstaller(r *fakeRunner) *Installer {
	return &Installer{Runner: r, Command: "npm", Args: []string{"install"}, Manifest: "package.json"}
}

func TestInstallRunsInDestination(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	fr := &fakeRunner{}
	outcome, err := newInstaller(fr).Install(context.Background(), dir)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if outcome != Installed {
		t.Errorf("outcome = %v, want Installed", outcome)
	}
	if fr.name != "npm" || strings.Join(fr.args, " ") != "install" {
		t.Errorf("ran %s %v", fr.name, fr.args)
	}
	if fr.dir != dir {
		t.Errorf("dir = %q, want %q", fr.dir, dir)
	}
}

func TestInstallSkipsWithoutManifest(t *testing.T) {
	fr := &fakeRunner{}
	outcome, err := newInstaller(fr).Install(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if outcome != Skipped {
		t.Errorf("outcome = %v, want Skipped", outcome)
	}
	if fr.runs != 0 {
		t.Error("runner should not be invoked without a manifest")
	}
}

func TestInstallManifestInSubdirIgnored(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "packages", "web")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	fr := &fakeRunner{}
	if _, err := newInstaller(fr).Install(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if fr.runs != 0 {
		t.Error("only a manifest at the destination root triggers install")
	}
}

func TestInstallNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := newInstaller(&fakeRunner{code: 1}).Install(context.Background(), dir)
	if err == nil {
		t.Fatal("expected error for failed install")
	}
	if !strings.Contains(err.Error(), "status 1") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInstallStartFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("npm: not found")
	_, err := newInstaller(&fakeRunner{code: -1, err: boom}).Install(context.Background(), dir)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestManifestPath(t *testing.T) {
	i := &Installer{Manifest: "Cargo.toml"}
	if got := i.ManifestPath("/work/app"); got != filepath.Join("/work/app", "Cargo.toml") {
		t.Errorf("ManifestPath = %q", got)
	}
}
