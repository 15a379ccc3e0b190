package cli

import (
	"strings"
	"testing"

	"github.com/Fepozopo/localeq/pkg/stdimg"
)

func TestCommandStoreNormalize(t *testing.T) {
	store := NewCommandStore(stdimg.Commands)
	for _, tc := range []struct {
		cmd     string
		args    []string
		want    []string
		wantErr string
	}{
		{"equalizeLocal", []string{"4"}, []string{"4", "", ""}, ""},
		{"equalizeLocal", []string{" 07 ", "Parallel", "3"}, []string{"7", "parallel", "3"}, ""},
		{"equalizeLocal", []string{""}, nil, "missing required parameter: radius"},
		{"equalizeLocal", []string{"-2"}, nil, "< min"},
		{"equalizeLocal", []string{"2", "sweep"}, nil, "not one of"},
		{"equalizeLocal", []string{"2", "auto", "x"}, nil, "expected integer"},
		{"equalizeLocal", []string{"1", "auto", "1", "extra"}, nil, "at most"},
		{"histogram", []string{"512"}, nil, "> max"},
		{"histogram", nil, []string{""}, ""},
		{"equalize", nil, []string{}, ""},
		{"blur", nil, nil, "unknown command"},
	} {
		got, err := store.Normalize(tc.cmd, tc.args)
		if tc.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("%s %v: expected error containing %q, got %v", tc.cmd, tc.args, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s %v: %v", tc.cmd, tc.args, err)
		}
		if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
			t.Fatalf("%s %v: got %q, want %q", tc.cmd, tc.args, got, tc.want)
		}
	}
}

func TestCommandStoreHelp(t *testing.T) {
	store := NewCommandStore(stdimg.Commands)
	help, rules, err := store.Help("equalizeLocal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(help, "equalizeLocal <radius>") || !strings.Contains(help, "radius (int, required)") || !strings.Contains(help, "[auto]") {
		t.Fatalf("unexpected help: %q", help)
	}
	mode := rules["mode"]
	if mode.Kind != ArgEnum || len(mode.Choices) != len(stdimg.LocalModes) || mode.Default != "auto" {
		t.Fatalf("unexpected mode rule %+v", mode)
	}
	if r := rules["radius"]; r.Min == nil || *r.Min != 0 || r.Max != nil {
		t.Fatalf("unexpected radius bounds %+v", r)
	}
	if _, _, err := store.Help("nope"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
	var none *CommandStore
	if _, err := none.Normalize("equalize", nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
