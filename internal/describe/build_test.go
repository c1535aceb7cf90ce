package describe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"externals/internal/document"
)

// testDoc builds a minimal valid document with one git entry named mylib.
func testDoc() *document.Document {
	doc := document.New()
	doc.Set(document.DescriptionSection, document.VersionItem, "1.0.0")
	doc.Set("mylib", "required", "True")
	doc.Set("mylib", "local_path", "libs/mylib")
	doc.Set("mylib", "protocol", "git")
	doc.Set("mylib", "repo_url", "https://example.com/mylib.git")
	doc.Set("mylib", "tag", "v1.4.0")
	return doc
}

func TestFromDocument(t *testing.T) {
	desc, err := FromDocument(context.Background(), testDoc(), Options{})
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	e, ok := desc.Get("mylib")
	if !ok {
		t.Fatal("missing entry mylib")
	}

	want := Entry{
		Required:  true,
		LocalPath: "libs/mylib",
		Repo: RepoSpec{
			Protocol: ProtocolGit,
			URL:      "https://example.com/mylib.git",
			Tag:      "v1.4.0",
		},
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDocumentUnknownKey(t *testing.T) {
	doc := testDoc()
	doc.Set("mylib", "colour", "blue")

	_, err := FromDocument(context.Background(), doc, Options{})
	var ufe *UnknownFieldError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want UnknownFieldError", err)
	}
	if ufe.Section != "mylib" || ufe.Key != "colour" {
		t.Errorf("error fields = %q/%q", ufe.Section, ufe.Key)
	}
}

func TestFromDocumentKeyCaseFolding(t *testing.T) {
	doc := document.New()
	doc.Set(document.DescriptionSection, document.VersionItem, "1.0.0")
	doc.Set("mylib", "Required", "YES")
	doc.Set("mylib", "LOCAL_PATH", "libs/mylib")
	doc.Set("mylib", "Protocol", "git")
	doc.Set("mylib", "Repo_URL", "https://example.com/mylib.git")
	doc.Set("mylib", "Branch", "main")

	desc, err := FromDocument(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	e, _ := desc.Get("mylib")
	if !e.Required || e.Repo.Branch != "main" {
		t.Errorf("case-folded entry = %+v", e)
	}
}

func TestBooleanCoercion(t *testing.T) {
	accepted := map[string]bool{
		"true": true, "TRUE": true, "Yes": true, "1": true,
		"false": false, "No": false, "0": false,
	}
	for value, want := range accepted {
		got, err := strToBool(value)
		if err != nil {
			t.Errorf("strToBool(%q): %v", value, err)
			continue
		}
		if got != want {
			t.Errorf("strToBool(%q) = %v, want %v", value, got, want)
		}
	}

	doc := testDoc()
	doc.Set("mylib", "required", "maybe")
	_, err := FromDocument(context.Background(), doc, Options{})
	var bfe *BooleanFormatError
	if !errors.As(err, &bfe) {
		t.Fatalf("err = %v, want BooleanFormatError", err)
	}
	if bfe.Value != "maybe" {
		t.Errorf("value = %q", bfe.Value)
	}
}

func TestComponentsFilter(t *testing.T) {
	doc := testDoc()
	doc.Set("other", "required", "True")
	doc.Set("other", "local_path", "libs/other")
	doc.Set("other", "protocol", "git")
	doc.Set("other", "repo_url", "https://example.com/other.git")
	doc.Set("other", "branch", "main")

	desc, err := FromDocument(context.Background(), doc, Options{Components: []string{"mylib"}})
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if desc.Len() != 1 {
		t.Errorf("len = %d, want 1", desc.Len())
	}
	if _, ok := desc.Get("other"); ok {
		t.Error("filtered entry is present")
	}

	desc, err = FromDocument(context.Background(), doc, Options{Exclude: []string{"other"}})
	if err != nil {
		t.Fatalf("FromDocument (exclude): %v", err)
	}
	if _, ok := desc.Get("other"); ok {
		t.Error("excluded entry is present")
	}
}

func TestSchemaGate(t *testing.T) {
	doc := testDoc()
	doc.Set(document.DescriptionSection, document.VersionItem, "1.2.0")

	_, err := FromDocument(context.Background(), doc, Options{})
	if err == nil {
		t.Fatal("expected schema gate rejection for 1.2.0")
	}

	doc.Set(document.DescriptionSection, document.VersionItem, "1.1.5")
	if _, err := FromDocument(context.Background(), doc, Options{}); err != nil {
		t.Errorf("1.1.5 should be accepted (patch ignored): %v", err)
	}
}
