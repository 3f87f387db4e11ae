package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

// runCLI runs ugit with -C dir prepended and returns stdout, stderr and the
// exit code.
func runCLI(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-C", dir}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// mustRun runs ugit and fails the test on a non-zero exit.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, errOut, code := runCLI(t, dir, args...)
	if code != exitOK {
		t.Fatalf("ugit %s: exit %d\nstderr:\n%s", strings.Join(args, " "), code, errOut)
	}
	return out
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", rel, err)
	}
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", rel, err)
	}
	return string(data)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "init")
	if !strings.Contains(out, filepath.Join(dir, repo.DirName)) {
		t.Errorf("init output = %q, want repository path", out)
	}
	head := readFile(t, dir, ".ugit/HEAD")
	if head != "ref: refs/heads/main\n" {
		t.Errorf("HEAD = %q", head)
	}

	// init with an explicit path creates it.
	sub := filepath.Join(dir, "nested", "repo")
	mustRun(t, dir, "init", "nested/repo")
	if _, err := os.Stat(filepath.Join(sub, repo.DirName, "objects")); err != nil {
		t.Errorf("nested init: %v", err)
	}
}

func TestHashObjectAndCatFile(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	writeFile(t, dir, "hello.txt", "hello")

	out := mustRun(t, dir, "hash-object", "hello.txt")
	want := "5b211494ba9e0f5c98ca51e8732bda579d8487ef"
	if strings.TrimSpace(out) != want {
		t.Fatalf("hash-object = %q, want %s", out, want)
	}

	if got := mustRun(t, dir, "cat-file", want); got != "hello" {
		t.Errorf("cat-file = %q, want hello", got)
	}
	if got := mustRun(t, dir, "cat-file", "--show-type", want); got != "blob\n" {
		t.Errorf("cat-file --show-type = %q, want blob", got)
	}
	if got := mustRun(t, dir, "cat-file", "-t", "blob", want); got != "hello" {
		t.Errorf("cat-file -t blob = %q, want hello", got)
	}

	_, _, code := runCLI(t, dir, "cat-file", "-t", "tree", want)
	if code != exitCorruption {
		t.Errorf("cat-file -t tree on a blob: exit %d, want %d", code, exitCorruption)
	}
	_, _, code = runCLI(t, dir, "cat-file", "-t", "bogus", want)
	if code != exitInvalidName {
		t.Errorf("cat-file -t bogus: exit %d, want %d", code, exitInvalidName)
	}
	_, _, code = runCLI(t, dir, "cat-file", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	if code != exitNotFound {
		t.Errorf("cat-file missing: exit %d, want %d", code, exitNotFound)
	}
	_, _, code = runCLI(t, dir, "cat-file", "no-such-ref")
	if code != exitInvalidName {
		t.Errorf("cat-file bad name: exit %d, want %d", code, exitInvalidName)
	}
}

func TestCommitLogCheckout(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")

	if out := mustRun(t, dir, "log"); !strings.Contains(out, "no commits yet") {
		t.Errorf("log before first commit = %q", out)
	}

	writeFile(t, dir, "a.txt", "one")
	mustRun(t, dir, "commit", "-m", "first")
	first := strings.TrimSpace(mustRun(t, dir, "show-ref"))
	writeFile(t, dir, "a.txt", "two")
	writeFile(t, dir, "sub/b.txt", "b")
	out := mustRun(t, dir, "commit", "-m", "second\n\nwith body")
	if !strings.HasPrefix(out, "[main ") || !strings.Contains(out, "] second") {
		t.Errorf("commit output = %q", out)
	}

	log := mustRun(t, dir, "log")
	if strings.Index(log, "second") > strings.Index(log, "first") {
		t.Errorf("log not newest first:\n%s", log)
	}
	if !strings.Contains(log, "(HEAD, main)") {
		t.Errorf("log missing decoration:\n%s", log)
	}
	if !strings.Contains(log, "    with body\n") {
		t.Errorf("log dropped message body:\n%s", log)
	}
	oneline := mustRun(t, dir, "log", "--oneline", "-n", "1")
	if lines := strings.Split(strings.TrimSpace(oneline), "\n"); len(lines) != 1 {
		t.Errorf("log --oneline -n 1 = %q", oneline)
	}

	// show-ref printed "<oid> HEAD\n<oid> refs/heads/main" after the first
	// commit; take the oid.
	firstOid := strings.Fields(first)[0]
	mustRun(t, dir, "checkout", firstOid)
	if got := readFile(t, dir, "a.txt"); got != "one" {
		t.Errorf("a.txt = %q after checkout", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "sub")); !os.IsNotExist(err) {
		t.Errorf("sub/ survived checkout: %v", err)
	}
	_, _, code := runCLI(t, dir, "symbolic-ref", "HEAD")
	if code != exitPrecondition {
		t.Errorf("symbolic-ref on detached HEAD: exit %d, want %d", code, exitPrecondition)
	}

	mustRun(t, dir, "switch", "main")
	if got := readFile(t, dir, "sub/b.txt"); got != "b" {
		t.Errorf("sub/b.txt = %q after switch", got)
	}
	if got := mustRun(t, dir, "symbolic-ref", "HEAD"); got != "refs/heads/main\n" {
		t.Errorf("symbolic-ref HEAD = %q", got)
	}
}

func TestTagAndBranchCmds(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	writeFile(t, dir, "a.txt", "a")
	mustRun(t, dir, "commit", "-m", "first")

	mustRun(t, dir, "tag", "v1")
	mustRun(t, dir, "branch", "topic")
	if got := mustRun(t, dir, "tag"); got != "v1\n" {
		t.Errorf("tag list = %q", got)
	}
	if got := mustRun(t, dir, "branch"); got != "* main\n  topic\n" {
		t.Errorf("branch list = %q", got)
	}

	head := strings.TrimSpace(mustRun(t, dir, "cat-file", "--show-type", "v1"))
	if head != string(object.TypeCommit) {
		t.Errorf("v1 resolves to a %s", head)
	}

	_, _, code := runCLI(t, dir, "tag", "bad name")
	if code != exitInvalidName {
		t.Errorf("tag with bad name: exit %d, want %d", code, exitInvalidName)
	}
	_, _, code = runCLI(t, dir, "switch", "ghost")
	if code != exitInvalidName {
		t.Errorf("switch to missing branch: exit %d, want %d", code, exitInvalidName)
	}
}

func TestWriteTreeReadTreeCmds(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	writeFile(t, dir, "a.txt", "hello")

	tree := strings.TrimSpace(mustRun(t, dir, "write-tree"))
	if tree != "accfa819f512c99706884dcd3063986e6d24b27b" {
		t.Fatalf("write-tree = %s", tree)
	}
	writeFile(t, dir, "a.txt", "changed")
	writeFile(t, dir, "extra.txt", "x")
	mustRun(t, dir, "read-tree", tree)
	if got := readFile(t, dir, "a.txt"); got != "hello" {
		t.Errorf("a.txt = %q after read-tree", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "extra.txt")); !os.IsNotExist(err) {
		t.Errorf("extra.txt survived read-tree: %v", err)
	}
}

func TestVerifyCmd(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	writeFile(t, dir, "a.txt", "hello")
	mustRun(t, dir, "commit", "-m", "first")

	out := mustRun(t, dir, "verify")
	if !strings.HasPrefix(out, "ok: verified 3 object(s)") {
		t.Errorf("verify output = %q", out)
	}

	blob := filepath.Join(dir, repo.DirName, "objects", "5b211494ba9e0f5c98ca51e8732bda579d8487ef")
	if err := os.WriteFile(blob, []byte("blob\x00tampered"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, errOut, code := runCLI(t, dir, "verify")
	if code != exitCorruption {
		t.Errorf("verify on tampered store: exit %d, want %d\n%s", code, exitCorruption, errOut)
	}
}

func TestNotARepository(t *testing.T) {
	_, errOut, code := runCLI(t, t.TempDir(), "log")
	if code != exitIO {
		t.Errorf("exit %d, want %d", code, exitIO)
	}
	if !strings.Contains(errOut, "not a ugit repository") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestDebugLogging(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	writeFile(t, dir, "a.txt", "hello")

	_, errOut, code := runCLI(t, dir, "--log-level", "debug", "--log-format", "json", "commit", "-m", "logged")
	if code != exitOK {
		t.Fatalf("commit: exit %d\n%s", code, errOut)
	}
	if !strings.Contains(errOut, `"msg":"commit created"`) {
		t.Errorf("debug log missing commit entry:\n%s", errOut)
	}

	_, _, code = runCLI(t, dir, "--log-level", "loud", "log")
	if code != exitIO {
		t.Errorf("bad log level: exit %d, want %d", code, exitIO)
	}
}
