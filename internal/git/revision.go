// Package git reads the revision of the work tree holding the contracts, so
// validation reports can name the exact commit they describe.
package git

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// DetachedHead is the branch name reported when HEAD is not a branch.
const DetachedHead = "detached"

// Revision identifies the commit checked out in a work tree.
type Revision struct {
	Commit string `json:"commit" yaml:"commit"` // 40-character hex SHA
	Branch string `json:"branch" yaml:"branch"`
}

// Short returns the first seven characters of the commit.
func (r *Revision) Short() string {
	if len(r.Commit) > 7 {
		return r.Commit[:7]
	}
	return r.Commit
}

// Opener abstracts opening a repository so tests can use in-memory storage.
type Opener interface {
	Open(path string) (Repository, error)
}

// Repository is the part of a go-git repository the revision needs.
type Repository interface {
	Head() (*plumbing.Reference, error)
}

// DefaultOpener opens the repository containing path, searching parent
// directories for .git.
type DefaultOpener struct{}

// Open implements Opener.
func (DefaultOpener) Open(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "opening repository at %s", path)
	}
	return repo, nil
}

// InMemoryOpener returns a pre-built repository regardless of path.
type InMemoryOpener struct {
	repo *git.Repository
}

// NewInMemoryOpener wraps repo.
func NewInMemoryOpener(repo *git.Repository) *InMemoryOpener {
	return &InMemoryOpener{repo: repo}
}

// Open implements Opener.
func (o *InMemoryOpener) Open(_ string) (Repository, error) {
	if o.repo == nil {
		return nil, errors.New("no repository configured")
	}
	return o.repo, nil
}

// CaptureRevision reads HEAD of the repository containing path.
func CaptureRevision(opener Opener, path string) (*Revision, error) {
	repo, err := opener.Open(path)
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, errors.Wrap(err, "reading HEAD")
	}

	rev := &Revision{Commit: head.Hash().String(), Branch: DetachedHead}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return rev, nil
}

// LookupRevision returns the revision of path, or nil when path is not
// inside a git work tree or HEAD has no commit yet.
func LookupRevision(path string) *Revision {
	rev, err := CaptureRevision(DefaultOpener{}, path)
	if err != nil {
		return nil
	}
	return rev
}
