package cli

import (
	"io"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	fallback := []string{"html"}

	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"html"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{"svg, png ,dot", []string{"svg", "png", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in, fallback); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseGroups(t *testing.T) {
	if got := parseGroups(""); got != nil {
		t.Errorf("parseGroups(\"\") = %v, want nil", got)
	}
	want := []string{"Critical", "Deprecated"}
	if got := parseGroups("Critical, Deprecated,"); !reflect.DeepEqual(got, want) {
		t.Errorf("parseGroups = %v, want %v", got, want)
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		output string
		input  string
		want   string
	}{
		{"", "interfaces.csv", "interfaces"},
		{"", "dir/interfaces.csv", "dir/interfaces"},
		{"out/graph", "interfaces.csv", "out/graph"},
		{"out/graph.svg", "interfaces.csv", "out/graph"},
		{"out/graph.data", "interfaces.csv", "out/graph.data"},
	}
	for _, tt := range tests {
		if got := outputBase(tt.output, tt.input); got != tt.want {
			t.Errorf("outputBase(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestCacheDirXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if dir != filepath.Join(base, appName) {
		t.Errorf("cacheDir = %q, want under XDG_CACHE_HOME", dir)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"build", "columns", "render", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q", name)
		}
	}
}
