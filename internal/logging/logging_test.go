package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry := map[string]interface{}{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("decode entry %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestTraceDisabledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	SetTraceEnabled(false)
	t.Cleanup(func() { Close(); Configure("") })

	Trace("explain.submit", map[string]interface{}{"id": "x"})
	Close()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file when tracing disabled, stat err=%v", err)
	}
}

func TestTraceAndErrorEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	SetTraceEnabled(true)
	t.Cleanup(func() { SetTraceEnabled(false); Close(); Configure("") })

	Trace("explain.submit", map[string]interface{}{"id": "abc"})
	Error(errors.New("boom"))
	Close()

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %#v", len(entries), entries)
	}
	if entries[0]["event"] != "explain.submit" {
		t.Fatalf("expected trace event name, got %v", entries[0]["event"])
	}
	payload, ok := entries[0]["payload"].(map[string]interface{})
	if !ok || payload["id"] != "abc" {
		t.Fatalf("expected payload id abc, got %#v", entries[0]["payload"])
	}
	if entries[1]["error"] != "boom" {
		t.Fatalf("expected error field boom, got %#v", entries[1])
	}
}

func TestConfigureEmptyFallsBackToDefault(t *testing.T) {
	Configure("")
	if got := Path(); got != defaultLogFile {
		t.Fatalf("expected default path %q, got %q", defaultLogFile, got)
	}
}
