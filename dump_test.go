package errtree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDumpMessages_TextFormat(t *testing.T) {
	m := NewMessages(map[string]string{
		"size.arg.range": "size must be within %{left} - %{right}",
		"filled":         "must be filled",
	})

	var buf bytes.Buffer
	if err := DumpMessages(&buf, m); err != nil {
		t.Fatalf("DumpMessages failed: %v", err)
	}

	want := "filled: \"must be filled\"\nsize.arg.range: \"size must be within %{left} - %{right}\"\n"
	if got := buf.String(); got != want {
		t.Errorf("DumpMessages() text\ngot:  %q\nwant: %q", got, want)
	}
}

func TestDumpMessages_WithSources(t *testing.T) {
	m, err := NewLoader().
		WithSource(&mockSource{name: "file:errors.yaml", data: map[string]any{"filled": "must be filled"}}).
		WithSource(&mockKeysSource{
			mockSource: mockSource{name: "env:MSG_", data: map[string]any{"key": "is missing"}},
			keys:       map[string]string{"key": "MSG_KEY"},
		}).
		Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var buf bytes.Buffer
	if err := DumpMessages(&buf, m, WithSources()); err != nil {
		t.Fatalf("DumpMessages failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `filled: "must be filled" (source: file:errors.yaml)`) {
		t.Errorf("Expected file source attribution, got: %s", output)
	}
	if !strings.Contains(output, `key: "is missing" (source: env:MSG_KEY)`) {
		t.Errorf("Expected env source attribution, got: %s", output)
	}
}

func TestDumpMessages_JSONFormat(t *testing.T) {
	m := NewMessages(map[string]string{
		"filled":                        "must be filled",
		"size":                          "size is wrong",
		"size.arg.range":                "within %{left} - %{right}",
		"size.value.string.arg.default": "length must be %{size}",
	})

	var buf bytes.Buffer
	if err := DumpMessages(&buf, m, AsJSON()); err != nil {
		t.Fatalf("DumpMessages failed: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\n%s", err, buf.String())
	}

	if result["filled"] != "must be filled" {
		t.Errorf("filled = %v", result["filled"])
	}

	size, ok := result["size"].(map[string]any)
	if !ok {
		t.Fatalf("size should be an object, got %T", result["size"])
	}
	if size["_"] != "size is wrong" {
		t.Errorf("size._ = %v, want the bare size template", size["_"])
	}
	arg, ok := size["arg"].(map[string]any)
	if !ok || arg["range"] != "within %{left} - %{right}" {
		t.Errorf("size.arg = %v", size["arg"])
	}
	value := size["value"].(map[string]any)["string"].(map[string]any)["arg"].(map[string]any)
	if value["default"] != "length must be %{size}" {
		t.Errorf("size.value.string.arg.default = %v", value["default"])
	}
}

func TestDumpMessages_JSONWithSources(t *testing.T) {
	m, err := NewLoader().
		WithSource(&mockSource{name: "file:errors.yaml", data: map[string]any{"gt": "must be greater than %{num}"}}).
		Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var buf bytes.Buffer
	if err := DumpMessages(&buf, m, AsJSON(), WithSources()); err != nil {
		t.Fatalf("DumpMessages failed: %v", err)
	}

	var result map[string]map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\n%s", err, buf.String())
	}
	if result["gt"]["template"] != "must be greater than %{num}" || result["gt"]["source"] != "file:errors.yaml" {
		t.Errorf("gt = %v", result["gt"])
	}
}

func TestDumpMessages_WithIndent(t *testing.T) {
	m := NewMessages(map[string]string{"filled": "must be filled"})

	var buf bytes.Buffer
	if err := DumpMessages(&buf, m, AsJSON(), WithIndent("\t")); err != nil {
		t.Fatalf("DumpMessages failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\t\"filled\"") {
		t.Errorf("Expected tab indentation, got: %q", buf.String())
	}

	buf.Reset()
	if err := DumpMessages(&buf, m, AsJSON(), WithIndent("")); err != nil {
		t.Fatalf("DumpMessages failed: %v", err)
	}
	if got := buf.String(); got != "{\"filled\":\"must be filled\"}\n" {
		t.Errorf("compact output = %q", got)
	}
}

func TestDumpMessages_NoProvenance(t *testing.T) {
	m := NewMessages(map[string]string{"filled": "must be filled"})

	var buf bytes.Buffer
	if err := DumpMessages(&buf, m, WithSources()); err != nil {
		t.Fatalf("DumpMessages failed: %v", err)
	}
	if strings.Contains(buf.String(), "source:") {
		t.Errorf("no source expected without provenance, got: %s", buf.String())
	}
}

func TestDumpMessages_NilCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := DumpMessages(&buf, nil); err == nil {
		t.Error("expected error for nil catalog")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestDumpMessages_WriteError(t *testing.T) {
	m := NewMessages(map[string]string{"filled": "must be filled"})

	for _, opts := range [][]DumpOption{nil, {AsJSON()}} {
		err := DumpMessages(failingWriter{}, m, opts...)
		if err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Errorf("DumpMessages() error = %v, want write failure", err)
		}
	}
}
