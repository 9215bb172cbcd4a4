package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aaprofile/internal/composition"
)

func mustCompute(t *testing.T, seq string) composition.Profile {
	t.Helper()
	p, err := composition.Compute(seq)
	if err != nil {
		t.Fatalf("compute %q: %v", seq, err)
	}
	return p
}

func TestWriteCSV(t *testing.T) {
	tbl := NewTable("")
	tbl.Append("toy_sp|P1_Example_abc", mustCompute(t, "AACCDD"))
	tbl.Append("toy_P2_def", mustCompute(t, "W"))

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "identifier,A,C,D,E,F,G,H,I,K,L,M,N,P,Q,R,S,T,V,W,Y" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	third := "33.33333333333333"
	if !strings.HasPrefix(lines[1], "toy_sp|P1_Example_abc,"+third+","+third+","+third+",0,") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	if lines[2] != "toy_P2_def,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,100,0" {
		t.Fatalf("unexpected second row: %s", lines[2])
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(path, []byte("stale content that must go\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl := NewTable("id")
	tbl.Append("r1", mustCompute(t, "MKTAYIAKQRQISFVKSHFSRQ"))
	tbl.Append("r2", mustCompute(t, "GGGGA"))
	if err := tbl.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.IDLabel != "id" || got.Len() != 2 {
		t.Fatalf("unexpected table: label=%q rows=%d", got.IDLabel, got.Len())
	}
	for i, r := range got.Rows() {
		want := tbl.Rows()[i]
		if r.ID != want.ID || r.Profile != want.Profile {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, r, want)
		}
	}
}

func TestReadCSVRejectsWrongSchema(t *testing.T) {
	bad := "identifier,A,C,D,E,F,G,H,I,K,L,M,N,P,Q,R,S,T,V,Y,W\n"
	if _, err := ReadCSV(strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for reordered columns")
	}
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	tbl := NewTable("")
	if err := tbl.Save(filepath.Join(t.TempDir(), "missing", "out.csv")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
