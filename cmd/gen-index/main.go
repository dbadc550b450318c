package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quizrun/quizrun-backend/internal/catalog"
	"github.com/quizrun/quizrun-backend/internal/model"
)

// Folder display names (can be customized via a names.json next to the data).
var defaultDisplayNames = map[string]string{
	catalog.UncategorizedFolderID: "Uncategorized",
}

func main() {
	dataDir := flag.String("dir", "./data", "quiz data directory to index")
	flag.Parse()

	displayNames := loadDisplayNames(*dataDir)

	index, err := buildIndex(*dataDir, displayNames)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not build index:", err)
		os.Exit(1)
	}

	if err := writeIndex(*dataDir, index); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to write index.json:", err)
		os.Exit(1)
	}

	fmt.Println("index.json updated successfully!")
	fmt.Printf("Found %d folders:\n", len(index.Folders))
	for _, f := range index.Folders {
		fmt.Printf("  - %s: %d quizzes\n", f.Name, len(f.Files))
	}
}

// buildIndex scans dataDir: each subdirectory becomes a folder listing its
// JSON quiz files. With no subdirectories at all, loose root files are
// wrapped in a single uncategorized folder.
func buildIndex(dataDir string, displayNames map[string]string) (*model.FolderIndex, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	var subdirs []os.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry)
		}
	}

	if len(subdirs) == 0 {
		files := quizFiles(entries)
		if len(files) == 0 {
			return &model.FolderIndex{Folders: []model.Folder{}}, nil
		}
		return &model.FolderIndex{Folders: []model.Folder{{
			ID:    catalog.UncategorizedFolderID,
			Name:  displayName(displayNames, catalog.UncategorizedFolderID),
			Files: files,
		}}}, nil
	}

	folders := make([]model.Folder, 0, len(subdirs))
	for _, subdir := range subdirs {
		subEntries, err := os.ReadDir(filepath.Join(dataDir, subdir.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not read directory %s: %v\n", subdir.Name(), err)
			continue
		}

		files := quizFiles(subEntries)
		if len(files) == 0 {
			continue
		}

		folders = append(folders, model.Folder{
			ID:    subdir.Name(),
			Name:  displayName(displayNames, subdir.Name()),
			Files: files,
		})
	}

	// Sort folders: uncategorized last, others alphabetically.
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].ID == catalog.UncategorizedFolderID {
			return false
		}
		if folders[j].ID == catalog.UncategorizedFolderID {
			return true
		}
		return folders[i].Name < folders[j].Name
	})

	return &model.FolderIndex{Folders: folders}, nil
}

// quizFiles picks the sorted .json files out of a directory listing,
// skipping index.json itself.
func quizFiles(entries []os.DirEntry) []string {
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == "index.json" || name == "names.json" {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".json") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files
}

// loadDisplayNames reads an optional names.json mapping folder IDs to
// display names, merged over the built-in defaults.
func loadDisplayNames(dataDir string) map[string]string {
	names := make(map[string]string, len(defaultDisplayNames))
	for id, name := range defaultDisplayNames {
		names[id] = name
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, "names.json"))
	if err != nil {
		return names
	}

	var custom map[string]string
	if err := json.Unmarshal(raw, &custom); err != nil {
		fmt.Fprintln(os.Stderr, "Ignoring malformed names.json:", err)
		return names
	}
	for id, name := range custom {
		names[id] = name
	}
	return names
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func writeIndex(dataDir string, index *model.FolderIndex) error {
	raw, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataDir, "index.json"), raw, 0o644)
}
