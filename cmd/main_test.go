package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aaprofile/internal/profile"
)

func TestTimestampWriterKeepsPartialLines(t *testing.T) {
	var out bytes.Buffer
	tw := &timestampWriter{w: &out}
	if _, err := tw.Write([]byte("hello ")); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("partial line should not be flushed, got %q", out.String())
	}
	if _, err := tw.Write([]byte("world\nnext")); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.HasSuffix(got, " hello world\n") || strings.Contains(got, "next") {
		t.Fatalf("unexpected flushed output %q", got)
	}
}

func TestRootCommandWritesTable(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "toy.fasta")
	b := filepath.Join(dir, "other.fasta")
	if err := os.WriteFile(a, []byte(">sp|P1 Example protein\nAACCDD\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(">x\n----\n>y two\nW\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.csv")
	cfgPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(cfgPath, []byte(`{"log_level": "error"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--config", cfgPath, "--out", outPath, "--on-empty", "skip", a, b})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "rows:    2") || !strings.Contains(stdout.String(), "skipped: 1") {
		t.Fatalf("unexpected summary: %s", stdout.String())
	}
	tbl, err := profile.Load(outPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	rows := tbl.Rows()
	if len(rows) != 2 || !strings.HasPrefix(rows[0].ID, "toy_sp|P1_Example_") || !strings.HasPrefix(rows[1].ID, "other_y_two_") {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestRootCommandAbortsOnEmptyByDefault(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "gaps.fasta")
	if err := os.WriteFile(a, []byte(">x\n----\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(cfgPath, []byte(`{"log_level": "error"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.csv")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "--out", outPath, a})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected the run to abort")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("output must not exist after abort")
	}
}
