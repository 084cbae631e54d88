package generator

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// Status is the outcome of committing one artifact.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// Artifact is one autogenerated file of a module.
type Artifact struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Status Status `json:"status"`
}

// renameFunc promotes a staged file into place.
type renameFunc func(oldpath, newpath string) error

const filePerm = 0o644

func safetyErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrGenerationSafety)
}

// pending is one artifact scheduled for promotion.
type pending struct {
	target  string
	temp    string
	data    []byte
	prev    []byte
	existed bool
}

// commit writes files into dir as one unit. Unchanged files are left alone.
// Either every changed file is promoted or every target keeps its previous
// content.
func commit(dir string, files []renderedFile, rename renameFunc) ([]Artifact, error) {
	if err := ensureModuleDir(dir); err != nil {
		return nil, err
	}

	arts := make([]Artifact, 0, len(files))
	var work []*pending
	for _, f := range files {
		if !isAutogen(f.name) || isManual(f.name) || filepath.Base(f.name) != f.name {
			return nil, safetyErrorf("refusing to write %q: not an autogenerated artifact name", f.name)
		}
		target := filepath.Join(dir, f.name)
		sum := sha256.Sum256(f.data)
		art := Artifact{Name: f.name, Path: target, SHA256: hex.EncodeToString(sum[:]), Status: StatusCreated}

		p := &pending{target: target, data: f.data}
		info, err := os.Lstat(target)
		switch {
		case err == nil:
			if info.Mode()&fs.ModeSymlink != 0 || !info.Mode().IsRegular() {
				return nil, safetyErrorf("refusing to write %s: target is not a regular file", target)
			}
			prev, err := os.ReadFile(target)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", target)
			}
			if bytes.Equal(prev, f.data) {
				art.Status = StatusUnchanged
				arts = append(arts, art)
				continue
			}
			p.prev, p.existed = prev, true
			art.Status = StatusUpdated
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, errors.Wrapf(err, "inspecting %s", target)
		}
		arts = append(arts, art)
		work = append(work, p)
	}

	if err := stage(dir, work); err != nil {
		return nil, err
	}
	if err := promote(work, rename); err != nil {
		return nil, err
	}
	return arts, nil
}

// ensureModuleDir creates dir if needed and refuses anything but a real
// directory.
func ensureModuleDir(dir string) error {
	info, err := os.Lstat(dir)
	switch {
	case err == nil:
		if info.Mode()&fs.ModeSymlink != 0 || !info.IsDir() {
			return safetyErrorf("refusing to write into %s: not a regular directory", dir)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(os.MkdirAll(dir, 0o755), "creating %s", dir)
	default:
		return errors.Wrapf(err, "inspecting %s", dir)
	}
}

// stage writes each payload to a synced temporary file beside its target.
func stage(dir string, work []*pending) error {
	for _, p := range work {
		if err := writeTemp(dir, p); err != nil {
			discard(work)
			return err
		}
	}
	return nil
}

func writeTemp(dir string, p *pending) error {
	f, err := os.CreateTemp(dir, "."+filepath.Base(p.target)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "staging %s", p.target)
	}
	p.temp = f.Name()
	if _, err := f.Write(p.data); err != nil {
		f.Close()
		return errors.Wrapf(err, "staging %s", p.target)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrapf(err, "syncing %s", p.target)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "staging %s", p.target)
	}
	return errors.Wrapf(os.Chmod(p.temp, filePerm), "staging %s", p.target)
}

// promote renames every temporary into place. On failure the targets
// promoted so far are restored.
func promote(work []*pending, rename renameFunc) error {
	for i, p := range work {
		if err := rename(p.temp, p.target); err != nil {
			restore(work[:i])
			discard(work[i:])
			return errors.Wrapf(err, "promoting %s", p.target)
		}
		p.temp = ""
	}
	return nil
}

func restore(done []*pending) {
	for _, p := range done {
		if !p.existed {
			_ = os.Remove(p.target)
			continue
		}
		_ = os.WriteFile(p.target, p.prev, filePerm)
	}
}

func discard(work []*pending) {
	for _, p := range work {
		if p.temp != "" {
			_ = os.Remove(p.temp)
			p.temp = ""
		}
	}
}
