package cli

import (
	"strings"
	"testing"
)

func TestBuildHookBlockRunsValidate(t *testing.T) {
	block := BuildHookBlock("/repo/path")

	for _, expected := range []string{
		HookStart,
		`repo_root="/repo/path"`,
		`[ -d "$repo_root/openspec" ]`,
		"openspec validate --all) || exit 1",
		HookEnd,
	} {
		if !strings.Contains(block, expected) {
			t.Fatalf("expected hook block to contain %q, got:\n%s", expected, block)
		}
	}
}

func TestUpsertHookCreatesScript(t *testing.T) {
	updated := UpsertHook("", "/repo/path")
	if !strings.HasPrefix(updated, "#!/bin/sh\n\n"+HookStart) {
		t.Fatalf("expected new hook to start with a shebang and the block, got:\n%s", updated)
	}
	if !strings.HasSuffix(updated, HookEnd+"\n") {
		t.Fatalf("expected trailing newline after block, got:\n%s", updated)
	}
}

func TestUpsertHookAppendsToForeignHook(t *testing.T) {
	updated := UpsertHook("echo lint", "/repo/path")
	if !strings.HasPrefix(updated, "#!/bin/sh\necho lint\n\n"+HookStart) {
		t.Fatalf("expected block appended after existing commands, got:\n%s", updated)
	}
}

func TestUpsertHookReplacesExistingBlock(t *testing.T) {
	existing := "#!/bin/sh\n\necho before\n" + HookStart + "\nold block\n" + HookEnd + "\n\necho after\n"
	updated := UpsertHook(existing, "/repo/path")

	if strings.Contains(updated, "old block") {
		t.Fatalf("expected old hook block to be replaced, got:\n%s", updated)
	}
	if strings.Count(updated, HookStart) != 1 || strings.Count(updated, HookEnd) != 1 {
		t.Fatalf("expected exactly one hook block after update, got:\n%s", updated)
	}
	if !strings.Contains(updated, "echo before") || !strings.Contains(updated, "echo after") {
		t.Fatalf("expected foreign hook content to be preserved, got:\n%s", updated)
	}
	if again := UpsertHook(updated, "/repo/path"); again != updated {
		t.Fatalf("expected upsert to be idempotent, got:\n%s", again)
	}
}
