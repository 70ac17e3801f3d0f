package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/pkg/conv"
)

const (
	// Placeholders keep a partially unreadable workspace usable: a failed
	// field degrades to its placeholder instead of failing the snapshot.
	PlaceholderNoReadme    = "No README found"
	PlaceholderNoManifest  = "No project manifest found"
	PlaceholderNoStructure = "Project structure unavailable"

	maxListingEntries = 30
)

var readmeNames = []string{"README.md", "README.markdown", "README.txt", "README", "readme.md"}

var manifestNames = []string{"package.json", "go.mod", "Cargo.toml", "pyproject.toml", "requirements.txt"}

// skipListing filters noise out of the structure listing.
var skipListing = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"__pycache__":  true,
}

func readSnapshot(workspace string) core.ProjectContext {
	return core.ProjectContext{
		Readme:    readReadme(workspace),
		Manifest:  readManifest(workspace),
		Structure: readStructure(workspace),
	}
}

func readReadme(workspace string) string {
	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(workspace, name))
		if err != nil {
			continue
		}
		if strings.HasSuffix(strings.ToLower(name), ".md") || strings.HasSuffix(name, ".markdown") {
			return conv.MarkdownToPlainText(data)
		}
		return strings.TrimSpace(string(data))
	}
	return PlaceholderNoReadme
}

func readManifest(workspace string) string {
	for _, name := range manifestNames {
		data, err := os.ReadFile(filepath.Join(workspace, name))
		if err != nil {
			continue
		}
		return name + ":\n" + strings.TrimSpace(string(data))
	}
	return PlaceholderNoManifest
}

func readStructure(workspace string) string {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return PlaceholderNoStructure
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || skipListing[name] {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > maxListingEntries {
		names = names[:maxListingEntries]
		names = append(names, "...")
	}
	if len(names) == 0 {
		return PlaceholderNoStructure
	}
	return strings.Join(names, "\n")
}
