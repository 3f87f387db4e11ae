package repo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/object"
)

// LogEntry pairs a commit with its hash.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Commit records the working directory as a new commit.
//
//  1. WriteTree over the repository root
//  2. Resolve HEAD; its value, if any, becomes the parent
//  3. Write the commit object
//  4. Point HEAD at the new commit: the ref at the end of HEAD's symbolic
//     chain is updated, so a checked-out branch advances
//  5. Return the commit hash
func (r *Repo) Commit(message string) (object.Hash, error) {
	treeHash, err := r.WriteTree(r.RootDir)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	target, head, err := r.resolveRef(HeadRef, true)
	if err != nil {
		return "", fmt.Errorf("commit: resolve HEAD: %w", err)
	}

	commitHash, err := r.Store.WriteCommit(&object.CommitObj{
		TreeHash: treeHash,
		Parent:   head.Hash(),
		Message:  message,
	})
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	if err := r.UpdateRef(target, Direct(commitHash)); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("commit created",
		zap.String("oid", string(commitHash)),
		zap.String("tree", string(treeHash)),
		zap.String("parent", string(head.Hash())),
		zap.String("ref", target),
	)
	return commitHash, nil
}

// GetCommit reads and parses a commit object.
func (r *Repo) GetCommit(h object.Hash) (*object.CommitObj, error) {
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}
	return c, nil
}

// Log walks the commit history starting from the given hash, following
// parent links, returning up to limit commits newest first. A limit of zero
// or less means no limit. Revisiting a commit is reported as ErrCorruption.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	seen := make(map[object.Hash]struct{})
	current := start

	for current != "" && (limit <= 0 || len(entries) < limit) {
		if _, ok := seen[current]; ok {
			return nil, fmt.Errorf("log: commit %s reached twice: %w", current, ErrCorruption)
		}
		seen[current] = struct{}{}

		c, err := r.GetCommit(current)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})
		current = c.Parent
	}

	return entries, nil
}
