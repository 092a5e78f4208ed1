package promptctx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDocsWholeFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "design.md"), []byte("design notes"), 0644)

	out := ResolveDocs(dir, []string{"design.md"})
	if !contains(out, "design notes") {
		t.Errorf("ResolveDocs() = %q, missing file content", out)
	}
}

func TestResolveDocsMissingFile(t *testing.T) {
	dir := t.TempDir()
	out := ResolveDocs(dir, []string{"missing.md"})
	if !contains(out, "file not found") {
		t.Errorf("ResolveDocs() = %q, want placeholder marker", out)
	}
}

func TestResolveDocsSection(t *testing.T) {
	dir := t.TempDir()
	content := "# Top\n\nintro\n\n## Auth\n\nAuth details here.\nMore auth.\n\n## Billing\n\nBilling stuff.\n"
	os.WriteFile(filepath.Join(dir, "design.md"), []byte(content), 0644)

	out := ResolveDocs(dir, []string{"design.md#Auth"})
	if !contains(out, "Auth details here.") {
		t.Errorf("ResolveDocs() = %q, missing section content", out)
	}
	if contains(out, "Billing stuff.") {
		t.Errorf("ResolveDocs() = %q, should stop at sibling heading", out)
	}
}

func TestResolveDocsMissingSection(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "design.md"), []byte("# Top\n\nbody\n"), 0644)

	out := ResolveDocs(dir, []string{"design.md#NoSuchSection"})
	if !contains(out, "section not found") {
		t.Errorf("ResolveDocs() = %q, want placeholder marker", out)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}
