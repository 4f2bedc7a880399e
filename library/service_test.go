package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reckonlang/reckon"
	"github.com/reckonlang/reckon/interp"
)

type testDiag struct {
	loading []string
	errs    []error
}

func (d *testDiag) Debug(msg string)            {}
func (d *testDiag) Error(msg string, err error) { d.errs = append(d.errs, err) }
func (d *testDiag) Loading(file string)         { d.loading = append(d.loading, file) }

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServiceOpen(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "10-base.rk", "base.rate <- 2\n")
	writeScript(t, dir, "20-helpers.rk", "scaled <- function(x) x * base.rate\n")
	writeScript(t, dir, "notes.txt", "not a script\n")

	session := reckon.New()
	svc := NewService(Config{Enabled: true, Dir: dir}, &testDiag{})
	if err := svc.Open(session); err != nil {
		t.Fatal(err)
	}

	exp := []string{
		filepath.Join(dir, "10-base.rk"),
		filepath.Join(dir, "20-helpers.rk"),
	}
	if diff := cmp.Diff(exp, svc.Loaded()); diff != "" {
		t.Errorf("unexpected load order: %s", diff)
	}

	v, err := session.Eval("scaled(21)")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(interp.Value(interp.Number(42)), v); diff != "" {
		t.Errorf("unexpected result: %s", diff)
	}
}

func TestServiceOpenDisabled(t *testing.T) {
	svc := NewService(NewConfig(), &testDiag{})
	if err := svc.Open(reckon.New()); err != nil {
		t.Fatal(err)
	}
	if len(svc.Loaded()) != 0 {
		t.Error("expected nothing loaded when disabled")
	}
}

func TestServiceOpenBadScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.rk", "f <- function(\n")

	diag := &testDiag{}
	svc := NewService(Config{Enabled: true, Dir: dir}, diag)
	if err := svc.Open(reckon.New()); err == nil {
		t.Fatal("expected an error for a broken script")
	}
	if len(diag.errs) != 1 {
		t.Errorf("expected 1 diagnostic error, got %d", len(diag.errs))
	}
}

func TestConfigValidate(t *testing.T) {
	c := Config{Enabled: true, Dir: "relative/path"}
	if err := c.Validate(); err == nil {
		t.Error("expected relative dir to be invalid")
	}

	c = Config{Enabled: false, Dir: "relative/path"}
	if err := c.Validate(); err != nil {
		t.Errorf("disabled config should not validate dir: %v", err)
	}
}
