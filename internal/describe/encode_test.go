package describe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"externals/internal/document"
	"externals/internal/submodule"
)

func loadINI(t *testing.T, data []byte) *Description {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Externals.cfg"), data, 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := document.Read(context.Background(), dir, "Externals.cfg", nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	desc, err := FromDocument(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	return desc
}

func entryMap(d *Description) map[string]Entry {
	out := make(map[string]Entry, d.Len())
	for _, name := range d.Names() {
		e, _ := d.Get(name)
		out[name] = e
	}
	return out
}

func TestEncodeRoundTrip(t *testing.T) {
	doc := document.New()
	doc.Set(document.DescriptionSection, document.VersionItem, "1.0.0")
	doc.Set("mylib", "required", "True")
	doc.Set("mylib", "local_path", "libs/mylib")
	doc.Set("mylib", "protocol", "git")
	doc.Set("mylib", "repo_url", "https://example.com/mylib.git")
	doc.Set("mylib", "tag", "v1.4.0")
	doc.Set("stub", "required", "False")
	doc.Set("stub", "local_path", "stub")
	doc.Set("stub", "protocol", "externals_only")
	doc.Set("stub", "externals", "Externals_stub.cfg")

	first, err := FromDocument(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	encoded, err := first.EncodeINI()
	if err != nil {
		t.Fatalf("EncodeINI: %v", err)
	}

	second := loadINI(t, encoded)
	if diff := cmp.Diff(entryMap(first), entryMap(second)); diff != "" {
		t.Errorf("entries drifted across re-parse (-first +second):\n%s", diff)
	}

	// Byte-for-byte stable on the second pass.
	reencoded, err := second.EncodeINI()
	if err != nil {
		t.Fatalf("EncodeINI (second): %v", err)
	}
	if !bytes.Equal(encoded, reencoded) {
		t.Errorf("encoding is not idempotent:\nfirst:\n%s\nsecond:\n%s", encoded, reencoded)
	}
}

func TestEncodeFromSubmoduleKeepsMarkerOnly(t *testing.T) {
	dir := t.TempDir()
	writeGitModules(t, dir, "[submodule \"mylib\"]\n\tpath = src/mylib\n\turl = https://x/mylib.git\n")

	opts := Options{
		Parent:  fakeParent{name: "parent", protocol: ProtocolGit, manifest: ".gitmodules"},
		RootDir: dir,
		Querier: fakeQuerier{statuses: submodule.StatusMap{"mylib": {Hash: "abc123"}}},
	}
	desc, err := fromRaw(t, submoduleEntry(), opts)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}

	encoded, err := desc.EncodeINI()
	if err != nil {
		t.Fatalf("EncodeINI: %v", err)
	}
	text := string(encoded)
	if !strings.Contains(text, "from_submodule") {
		t.Errorf("marker missing:\n%s", text)
	}
	if strings.Contains(text, "repo_url") || strings.Contains(text, "local_path") {
		t.Errorf("inherited fields must not be serialized:\n%s", text)
	}
}

func TestMarshalYAMLOrder(t *testing.T) {
	doc := document.New()
	doc.Set(document.DescriptionSection, document.VersionItem, "1.0.0")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		doc.Set(name, "required", "True")
		doc.Set(name, "local_path", "libs/"+name)
		doc.Set(name, "protocol", "git")
		doc.Set(name, "repo_url", "https://example.com/"+name+".git")
		doc.Set(name, "branch", "main")
	}

	desc, err := FromDocument(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	out, err := yaml.Marshal(desc)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}

	text := string(out)
	zeta := strings.Index(text, "zeta:")
	alpha := strings.Index(text, "alpha:")
	mid := strings.Index(text, "mid:")
	if zeta < 0 || alpha < 0 || mid < 0 || !(zeta < alpha && alpha < mid) {
		t.Errorf("entries not in document order:\n%s", text)
	}
}
