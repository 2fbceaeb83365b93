package models

// FileDescriptor describes a file found by a directory scan.
type FileDescriptor struct {
	// Name is the base name of the file
	Name string `json:"name"`
	// Path is the absolute path of the file
	Path string `json:"path"`
	// RelativePath is the path relative to the scan root (host separators)
	RelativePath string `json:"relative_path"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// ContextEntry is one file's contribution to an assembled context.
// When the file could not be read, Content holds a placeholder message and
// Err holds the underlying failure.
type ContextEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Err     error  `json:"-"`
}

// Failed reports whether the entry carries a read-error placeholder.
func (e ContextEntry) Failed() bool {
	return e.Err != nil
}

// FileContent is the result of a strict single-file read.
type FileContent struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}
