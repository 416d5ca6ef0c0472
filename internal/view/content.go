package view

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed content
var contentFS embed.FS

// ErrNoDocument is returned for names outside the document set.
var ErrNoDocument = errors.New("document not found")

// Documents serves markdown documents (about, terms, privacy). Files in
// Dir override the embedded copies.
type Documents struct {
	Dir string
}

// Load returns the raw markdown for name. name must be a bare file stem.
func (d Documents) Load(name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, ErrNoDocument
	}
	if d.Dir != "" {
		b, err := d.readDir(name)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	b, err := contentFS.ReadFile("content/" + name + ".md")
	if err != nil {
		return nil, ErrNoDocument
	}
	return b, nil
}

func (d Documents) readDir(name string) ([]byte, error) {
	absDir, err := filepath.Abs(d.Dir)
	if err != nil {
		return nil, err
	}
	p := filepath.Join(absDir, name+".md")
	if !strings.HasPrefix(p, absDir+string(filepath.Separator)) {
		return nil, fmt.Errorf("%s escapes %s: %w", name, absDir, fs.ErrNotExist)
	}
	return os.ReadFile(p)
}
