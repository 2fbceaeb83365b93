// Package fileutil walks a project directory and produces the list of files
// a user can pick from when building an LLM context.
//
// # Scanning
//
// ScanDirectory performs a recursive descent from a root directory. At every
// level the child directories are filtered through an exclusion.Matcher
// before descent, so excluded subtrees (.git, node_modules, build output)
// are never opened. Files are filtered through the same matcher and stat'ed
// for their size.
//
//	rules := exclusion.RuleSet{ExcludeDirs: []string{".git", "build"}}
//	result, err := fileutil.ScanDirectory("/path/to/project", exclusion.NewMatcher(rules))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range result.Files {
//	    fmt.Println(f.RelativePath, f.Size)
//	}
//
// # Error Tolerance
//
// Only failures that prevent the scan from starting are returned as errors:
// a missing root (models.KindNotFound) or an unreadable root
// (models.KindPermissionDenied). A file that vanishes between listing and
// stat is silently omitted. A subdirectory that cannot be listed contributes
// no files; its relative path is recorded in ScanResult.Skipped so callers
// can tell it apart from a directory that was empty after filtering.
//
// # Ordering
//
// Files are returned in walk order: the files of a directory first, then the
// contents of its subdirectories. Entries within a directory follow
// os.ReadDir order. Callers must not rely on any particular order.
//
// # Symlinks
//
// Symlinks to files are reported like regular files, with the size of the
// target. Symlinks to directories are never followed, which also rules out
// symlink cycles.
package fileutil
