package env

import (
	"strings"
	"testing"
)

type sampleConfig struct {
	APIKey    string `env:"OPENAI_API_KEY"`
	Workspace string `env:"COUNSEL_WORKSPACE"`
	Debug     bool   `env:"COUNSEL_DEBUG"`
	Limit     int    `env:"CALL_LIMIT"`
	ignored   string `env:"IGNORED"`
	NoTag     string
}

func TestMarshalEnv(t *testing.T) {
	cfg := &sampleConfig{
		APIKey: "sk-test",
		Debug:  true,
		Limit:  3,
	}

	out, err := MarshalEnv(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"OPENAI_API_KEY=sk-test", "COUNSEL_DEBUG=true", "CALL_LIMIT=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	// Zero values and untagged/unexported fields stay out of the file.
	for _, bad := range []string{"COUNSEL_WORKSPACE", "IGNORED", "NoTag"} {
		if strings.Contains(out, bad) {
			t.Errorf("did not expect %q in output:\n%s", bad, out)
		}
	}

	if !strings.HasSuffix(out, "\n") {
		t.Error("output should end with a newline")
	}
}

func TestMarshalEnv_Empty(t *testing.T) {
	out, err := MarshalEnv(&sampleConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestMarshalEnv_NotAStruct(t *testing.T) {
	if _, err := MarshalEnv("nope"); err == nil {
		t.Error("expected error for non-struct input")
	}
}
