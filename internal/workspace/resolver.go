package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

// WorkspaceEnvVar may be set by the hosting tool to point at the active
// project directory.
const WorkspaceEnvVar = "COUNSEL_WORKSPACE"

const maxWalkDepth = 10

// projectIndicators mark a directory as a project root.
var projectIndicators = []string{
	".git",
	".svn",
	".hg",
	"go.mod",
	"package.json",
	"pyproject.toml",
	"Cargo.toml",
	"requirements.txt",
	"Makefile",
	".vscode",
	".idea",
}

// installDirNames are directory names that suggest the resolver is looking
// at the tool's own install location rather than a user project.
var installDirNames = []string{
	"counsel",
	".counsel",
	"node_modules",
	"bin",
	"dist",
	"build",
}

// Strategy returns a workspace candidate, or "" when it has nothing.
type Strategy func() string

// Resolver picks the active workspace from an ordered strategy chain.
// The hosting tool does not reliably tell a detached background process
// which project it is working in, so detection is layered: explicit state,
// environment, cwd, then upward filesystem probing, and finally an
// unconditional cwd fallback. Resolve never fails.
type Resolver struct {
	state      *State
	strategies []Strategy
}

func NewResolver(state *State) *Resolver {
	r := &Resolver{state: state}
	r.strategies = []Strategy{
		r.fromState,
		fromEnv,
		fromCwd,
		fromExecutable,
		fromCwdWalk,
	}
	return r
}

// Resolve returns the first non-empty strategy result, degrading to the
// current working directory even when that is home or root.
func (r *Resolver) Resolve() string {
	for _, strategy := range r.strategies {
		if path := strategy(); path != "" {
			return path
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (r *Resolver) fromState() string {
	return r.state.Get()
}

func fromEnv() string {
	path := os.Getenv(WorkspaceEnvVar)
	if path == "" {
		return ""
	}
	if !isUsableDir(path) {
		return ""
	}
	return path
}

func fromCwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if !isUsableDir(wd) {
		return ""
	}
	return wd
}

func fromExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	// Skip past install-looking components so the enclosing project wins
	// over the tool's own package folder.
	dir := filepath.Dir(exe)
	for depth := 0; depth < maxWalkDepth; depth++ {
		if dir == "" || isRootOrHome(dir) {
			return ""
		}
		if !looksLikeInstallDir(filepath.Base(dir)) && hasProjectIndicator(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
	return ""
}

func fromCwdWalk() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return detectUpward(wd, maxWalkDepth)
}

// detectUpward walks from start toward the filesystem root, returning the
// first directory holding a project indicator.
func detectUpward(start string, maxDepth int) string {
	dir := start
	for depth := 0; depth < maxDepth; depth++ {
		if dir == "" || isRootOrHome(dir) {
			return ""
		}
		if hasProjectIndicator(dir) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
	return ""
}

func hasProjectIndicator(dir string) bool {
	for _, indicator := range projectIndicators {
		if _, err := os.Stat(filepath.Join(dir, indicator)); err == nil {
			return true
		}
	}
	return false
}

func looksLikeInstallDir(name string) bool {
	name = strings.ToLower(name)
	for _, install := range installDirNames {
		if name == install {
			return true
		}
	}
	return false
}

// isUsableDir reports whether path is an existing directory that is
// neither the user's home nor the filesystem root.
func isUsableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return !isRootOrHome(path)
}

func isRootOrHome(path string) bool {
	cleaned := filepath.Clean(path)
	if cleaned == string(filepath.Separator) {
		return true
	}
	if vol := filepath.VolumeName(cleaned); vol != "" && cleaned == vol+string(filepath.Separator) {
		return true
	}
	if home, err := os.UserHomeDir(); err == nil && cleaned == filepath.Clean(home) {
		return true
	}
	return false
}
