package interp

import (
	"os"
	"path/filepath"

	"github.com/teachlang/teachlang/internal/ast"
)

// execImport implements §4.I: importing the same resolved path twice is
// a no-op, and a fresh import executes the target file's top-level
// statements directly into whatever scope is currently active, so its
// functions and global variables merge into the importer's namespace
// rather than living in an isolated scope of their own.
func (ip *Interpreter) execImport(s *ast.ImportStatement) error {
	resolved, err := ip.resolveImportPath(s.Path)
	if err != nil {
		return ip.errf(s, "%v", err)
	}
	if ip.Imported[resolved] {
		return nil
	}
	ip.Imported[resolved] = true

	source, err := readSourceFile(resolved)
	if err != nil {
		return ip.errf(s, "%v", err)
	}
	return ip.interpretFile(resolved, source)
}

// resolveImportPath finds the file an import path names: first relative
// to the current working directory, then relative to the importing
// file's own directory, then relative to each configured ImportPaths
// entry in order. The result is cleaned so the same file reached by
// different spellings is recognized as already imported.
func (ip *Interpreter) resolveImportPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return cleanImportPath(path), nil
	}

	candidates := []string{filepath.Clean(path)}
	if rel := filepath.Join(filepath.Dir(ip.CurrentFile), path); rel != candidates[0] {
		candidates = append(candidates, rel)
	}
	for _, dir := range ip.ImportPaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return cleanImportPath(c), nil
		}
	}
	return "", &importNotFoundError{path: path, tried: candidates}
}

type importNotFoundError struct {
	path  string
	tried []string
}

func (e *importNotFoundError) Error() string {
	msg := "cannot find imported file " + e.path + " (tried:"
	for i, t := range e.tried {
		if i > 0 {
			msg += ","
		}
		msg += " " + t
	}
	return msg + ")"
}
