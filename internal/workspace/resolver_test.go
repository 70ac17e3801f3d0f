package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestState_SetOverridesEverything(t *testing.T) {
	state := NewState()
	r := NewResolver(state)

	pinned := t.TempDir()
	state.Set(pinned)

	if got := r.Resolve(); got != pinned {
		t.Errorf("expected pinned workspace %q, got %q", pinned, got)
	}

	other := t.TempDir()
	state.Set(other)
	if got := r.Resolve(); got != other {
		t.Errorf("expected re-pinned workspace %q, got %q", other, got)
	}
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		env  string
		want string
	}{
		{"valid_dir", dir, dir},
		{"unset", "", ""},
		{"missing_dir", filepath.Join(dir, "nope"), ""},
		{"root", string(filepath.Separator), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(WorkspaceEnvVar, tt.env)
			if got := fromEnv(); got != tt.want {
				t.Errorf("fromEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromEnv_HomeRejected(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir in this environment")
	}
	t.Setenv(WorkspaceEnvVar, home)
	if got := fromEnv(); got != "" {
		t.Errorf("home directory should be rejected, got %q", got)
	}
}

func TestDetectUpward(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "project")
	nested := filepath.Join(project, "src", "deep", "deeper")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(project, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := detectUpward(nested, maxWalkDepth); got != project {
		t.Errorf("detectUpward = %q, want %q", got, project)
	}
}

func TestDetectUpward_DepthLimit(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	deep := root
	for i := 0; i < 12; i++ {
		deep = filepath.Join(deep, "d")
	}
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := detectUpward(deep, maxWalkDepth); got != "" {
		t.Errorf("expected depth limit to stop the walk, got %q", got)
	}
}

func TestDetectUpward_NoIndicator(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := detectUpward(dir, maxWalkDepth); got != "" {
		t.Errorf("expected no result, got %q", got)
	}
}

func TestHasProjectIndicator(t *testing.T) {
	tests := []struct {
		name      string
		indicator string
		isDir     bool
		want      bool
	}{
		{"git_dir", ".git", true, true},
		{"go_mod", "go.mod", false, true},
		{"package_json", "package.json", false, true},
		{"editor_config", ".vscode", true, true},
		{"unrelated", "notes.txt", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.indicator)
			if tt.isDir {
				if err := os.Mkdir(path, 0o755); err != nil {
					t.Fatal(err)
				}
			} else {
				if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if got := hasProjectIndicator(dir); got != tt.want {
				t.Errorf("hasProjectIndicator = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLooksLikeInstallDir(t *testing.T) {
	for _, name := range []string{"counsel", ".counsel", "node_modules", "Bin", "DIST"} {
		if !looksLikeInstallDir(name) {
			t.Errorf("%q should look like an install dir", name)
		}
	}
	for _, name := range []string{"myproject", "src", "counsel-client"} {
		if looksLikeInstallDir(name) {
			t.Errorf("%q should not look like an install dir", name)
		}
	}
}

func TestResolve_NeverEmpty(t *testing.T) {
	t.Setenv(WorkspaceEnvVar, "")
	r := NewResolver(NewState())
	if got := r.Resolve(); got == "" {
		t.Error("Resolve must always return a path")
	}
}
