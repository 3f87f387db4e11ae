package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/odvcencio/ugit/pkg/object"
)

const (
	oidA = object.Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	oidB = object.Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

func TestGetRef_Absent(t *testing.T) {
	r := initRepo(t)
	v, err := r.GetRef("refs/heads/nope")
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if !v.IsAbsent() {
		t.Errorf("GetRef(missing) = %v, want Absent", v)
	}

	// Fresh repo: HEAD -> refs/heads/main, which does not exist yet.
	head, err := r.GetRef(HeadRef)
	if err != nil {
		t.Fatalf("GetRef(HEAD): %v", err)
	}
	if head != Absent {
		t.Errorf("GetRef(HEAD) = %v, want Absent", head)
	}
}

func TestUpdateRef_CreatesNestedPath(t *testing.T) {
	r := initRepo(t)
	if err := r.UpdateRef("refs/remotes/origin/feature/x", Direct(oidA)); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(r.UgitDir, "refs", "remotes", "origin", "feature", "x"))
	if err != nil {
		t.Fatalf("read ref file: %v", err)
	}
	if string(data) != string(oidA)+"\n" {
		t.Errorf("ref file = %q", data)
	}
	v, err := r.GetRef("refs/remotes/origin/feature/x")
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if v != Direct(oidA) {
		t.Errorf("GetRef = %v, want %v", v, Direct(oidA))
	}
}

func TestUpdateRef_RejectsSymbolic(t *testing.T) {
	r := initRepo(t)
	err := r.UpdateRef(HeadRef, Symbolic("refs/heads/other"))
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("UpdateRef(symbolic): got %v, want ErrPrecondition", err)
	}
	head, err := r.ReadRef(HeadRef, false)
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if head != Symbolic("refs/heads/main") {
		t.Errorf("HEAD changed to %v", head)
	}
}

func TestUpdateRef_AbsentIsNoop(t *testing.T) {
	r := initRepo(t)
	if err := r.UpdateRef("refs/tags/v1", Direct(oidA)); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	if err := r.UpdateRef("refs/tags/v1", Absent); err != nil {
		t.Fatalf("UpdateRef(Absent): %v", err)
	}
	v, err := r.GetRef("refs/tags/v1")
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if v != Direct(oidA) {
		t.Errorf("GetRef = %v, want %v preserved", v, Direct(oidA))
	}
}

func TestUpdateRef_RejectsMalformed(t *testing.T) {
	r := initRepo(t)
	if err := r.UpdateRef("refs/tags/v1", Direct("not-a-hash")); !errors.Is(err, ErrInvalidName) {
		t.Errorf("UpdateRef(bad oid): got %v, want ErrInvalidName", err)
	}
	for _, name := range []string{"", "config.toml", "refs/../HEAD", "refs//x", "refs/heads/.hidden", "refs/heads/a b", "/abs"} {
		if err := r.UpdateRef(name, Direct(oidA)); !errors.Is(err, ErrInvalidName) {
			t.Errorf("UpdateRef(%q): got %v, want ErrInvalidName", name, err)
		}
	}
}

func TestGetRef_FollowsSymbolicHEAD(t *testing.T) {
	r := initRepo(t)
	if err := r.UpdateRef("refs/heads/main", Direct(oidA)); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	v, err := r.GetRef(HeadRef)
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if v != Direct(oidA) {
		t.Errorf("GetRef(HEAD) = %v, want %v", v, Direct(oidA))
	}
	if v.Symbolic || v.Value == "ref: refs/heads/main" {
		t.Errorf("GetRef leaked the symbolic marker: %v", v)
	}
}

func TestGetRef_MultiLevelChain(t *testing.T) {
	r := initRepo(t)
	if err := r.SetSymbolicRef("refs/heads/main", "refs/heads/alias"); err != nil {
		t.Fatalf("SetSymbolicRef: %v", err)
	}
	if err := r.SetSymbolicRef("refs/heads/alias", "refs/tags/v1"); err != nil {
		t.Fatalf("SetSymbolicRef: %v", err)
	}
	if err := r.UpdateRef("refs/tags/v1", Direct(oidB)); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	v, err := r.GetRef(HeadRef)
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if v != Direct(oidB) {
		t.Errorf("GetRef(HEAD) = %v, want %v", v, Direct(oidB))
	}
}

func TestGetRef_CycleIsCorruption(t *testing.T) {
	r := initRepo(t)
	if err := r.SetSymbolicRef("refs/heads/main", "refs/heads/loop"); err != nil {
		t.Fatalf("SetSymbolicRef: %v", err)
	}
	if err := r.SetSymbolicRef("refs/heads/loop", "refs/heads/main"); err != nil {
		t.Fatalf("SetSymbolicRef: %v", err)
	}
	if _, err := r.GetRef(HeadRef); !errors.Is(err, ErrCorruption) {
		t.Fatalf("GetRef on cycle: got %v, want ErrCorruption", err)
	}
	if err := r.SetSymbolicRef("refs/heads/self", "refs/heads/self"); !errors.Is(err, ErrPrecondition) {
		t.Errorf("self-pointing ref: got %v, want ErrPrecondition", err)
	}
}

func TestGetRef_MalformedContentIsCorruption(t *testing.T) {
	r := initRepo(t)
	writeFiles(t, r.UgitDir, map[string]string{"refs/heads/junk": "hello world\n"})
	if _, err := r.GetRef("refs/heads/junk"); !errors.Is(err, ErrCorruption) {
		t.Fatalf("GetRef(junk): got %v, want ErrCorruption", err)
	}
}

func TestReadRef_NoDeref(t *testing.T) {
	r := initRepo(t)
	if err := r.UpdateRef("refs/heads/main", Direct(oidA)); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	raw, err := r.ReadRef(HeadRef, false)
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if raw != Symbolic("refs/heads/main") {
		t.Errorf("ReadRef(HEAD, false) = %v", raw)
	}
}

func TestUpdateRef_HEADDetaches(t *testing.T) {
	r := initRepo(t)
	if err := r.UpdateRef("refs/heads/main", Direct(oidA)); err != nil {
		t.Fatalf("UpdateRef main: %v", err)
	}
	if err := r.UpdateRef(HeadRef, Direct(oidB)); err != nil {
		t.Fatalf("UpdateRef HEAD: %v", err)
	}
	main, err := r.GetRef("refs/heads/main")
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if main != Direct(oidA) {
		t.Errorf("main = %v, want untouched %v", main, Direct(oidA))
	}
	head, err := r.ReadRef(HeadRef, false)
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if head != Direct(oidB) {
		t.Errorf("HEAD = %v, want %v", head, Direct(oidB))
	}
}

func TestIterRefs_HEADFirstThenLexical(t *testing.T) {
	r := initRepo(t)
	updates := map[string]object.Hash{
		"refs/tags/v1":           oidA,
		"refs/heads/main":        oidB,
		"refs/heads/feature/x":   oidA,
		"refs/notes/deep/er/one": oidB,
	}
	for name, h := range updates {
		if err := r.UpdateRef(name, Direct(h)); err != nil {
			t.Fatalf("UpdateRef(%s): %v", name, err)
		}
	}
	// A stray temp file from an interrupted write is not a ref.
	writeFiles(t, r.UgitDir, map[string]string{"refs/heads/.tmp-123": "garbage"})

	refs, err := r.IterRefs()
	if err != nil {
		t.Fatalf("IterRefs: %v", err)
	}
	want := []NamedRef{
		{Name: "HEAD", Value: Direct(oidB)},
		{Name: "refs/heads/feature/x", Value: Direct(oidA)},
		{Name: "refs/heads/main", Value: Direct(oidB)},
		{Name: "refs/notes/deep/er/one", Value: Direct(oidB)},
		{Name: "refs/tags/v1", Value: Direct(oidA)},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("IterRefs mismatch (-want +got):\n%s", diff)
	}
}

func TestRefs_NamespaceDirectoryRejected(t *testing.T) {
	r := initRepo(t)
	if err := r.SetSymbolicRef(HeadRef, "refs/heads"); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("SetSymbolicRef(HEAD, refs/heads): got %v, want ErrPrecondition", err)
	}
	head, err := r.ReadRef(HeadRef, false)
	if err != nil {
		t.Fatalf("ReadRef: %v", err)
	}
	if head != Symbolic("refs/heads/main") {
		t.Errorf("HEAD = %v, want unchanged", head)
	}

	if err := r.UpdateRef("refs/tags", Direct(oidA)); !errors.Is(err, ErrPrecondition) {
		t.Errorf("UpdateRef(refs/tags): got %v, want ErrPrecondition", err)
	}

	// A HEAD edited by hand to name a namespace fails the commit cleanly.
	writeFiles(t, r.UgitDir, map[string]string{"HEAD": "ref: refs/heads\n"})
	_, err = r.Commit("stray")
	if Kind(err) != KindPrecondition {
		t.Errorf("Commit through namespace HEAD: kind %v (%v), want precondition", Kind(err), err)
	}
}
