package model

// Folder is one entry of the folder index: a stable identifier, a display
// name and the ordered quiz filenames it contains.
type Folder struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Files []string `json:"files"`
}

// FolderIndex is the contract of the generated index.json file.
type FolderIndex struct {
	Folders []Folder `json:"folders"`
}
