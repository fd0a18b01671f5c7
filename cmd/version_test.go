package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_JSON(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--json"})
	if err != nil {
		t.Fatalf("version --json failed: %v\n%s", err, out)
	}
	var v map[string]any
	if json.Unmarshal([]byte(out), &v) != nil {
		t.Fatalf("version output is not valid JSON: %s", out)
	}
	for _, key := range []string{"version", "goVersion", "platform", "arch"} {
		if _, ok := v[key].(string); !ok {
			t.Errorf("expected %s field in JSON", key)
		}
	}
}

func TestVersion_Extended(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--extended"})
	if err != nil {
		t.Fatalf("version --extended failed: %v\n%s", err, out)
	}
	for _, want := range []string{"brandkit ", "Go version:", "Platform:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
