package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFile("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return c
}

func TestLoadFile(t *testing.T) {
	c := loadTestCatalog(t)
	if c.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", c.Len())
	}

	got, ok := c.Get("ayala98")
	if !ok {
		t.Fatal("Get(ayala98) not found")
	}
	want := Source{
		ID:        "ayala98",
		Author:    "Gustavo Ayala",
		Year:      1998,
		Title:     "Mas allá del horizonte",
		Publisher: "No, manzana",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	// entries without an id are keyed by their index
	if src, ok := c.Get("3"); !ok || src.Author != "Perez, Eloisa" {
		t.Errorf("Get(3) = %+v, %v", src, ok)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadFile("testdata/missing.yaml"); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
	if _, err := Load(strings.NewReader("sources: [")); err == nil {
		t.Error("Load of malformed YAML succeeded")
	}
	_, err := Load(strings.NewReader("sources:\n  - id: a\n  - id: a\n"))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Load with duplicate ids error = %v, want ErrDuplicateID", err)
	}

	c, err := Load(strings.NewReader(""))
	if err != nil || c.Len() != 0 {
		t.Errorf("Load of empty input = %v, %v", c, err)
	}
}

func TestPutAssignsIndexID(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"0", "named", "2"} {
		src := Source{Title: "t"}
		if want == "named" {
			src.ID = want
		}
		got, err := c.Put(src)
		if err != nil {
			t.Fatalf("Put #%d: %v", i, err)
		}
		if got != want {
			t.Errorf("Put #%d id = %q, want %q", i, got, want)
		}
	}
}

func TestGetMany(t *testing.T) {
	c := loadTestCatalog(t)
	got := c.GetMany([]string{"patito12", "nope", "ayala98"})
	var ids []string
	for _, src := range got {
		ids = append(ids, src.ID)
	}
	if diff := cmp.Diff([]string{"ayala98", "patito12"}, ids); diff != "" {
		t.Errorf("GetMany() ids mismatch (-want +got):\n%s", diff)
	}
	if got := c.GetMany(nil); got == nil || len(got) != 0 {
		t.Errorf("GetMany(nil) = %v, want empty", got)
	}
}

func TestUpdate(t *testing.T) {
	c := loadTestCatalog(t)
	err := c.Update("permiso05", map[string]any{
		"title":  "Perteneces",
		"year":   2006,
		"id":     "hijacked",
		"colour": "red",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, ok := c.Get("permiso05")
	if !ok {
		t.Fatal("Update changed the id")
	}
	if got.Title != "Perteneces" || got.Year != 2006 || got.Author != "Permiso, Santichudo" {
		t.Errorf("after Update = %+v", got)
	}

	if err := c.Update("nope", map[string]any{"title": "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(nope) error = %v, want ErrNotFound", err)
	}
	if err := c.Update("permiso05", map[string]any{"year": "soon"}); err == nil {
		t.Error("Update accepted a string year")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	c := loadTestCatalog(t)
	src, _ := c.Get("ayala98")
	src.Title = "changed"
	if again, _ := c.Get("ayala98"); again.Title == "changed" {
		t.Error("Get returned shared storage")
	}
}

func TestRange(t *testing.T) {
	c := loadTestCatalog(t)
	got, err := c.Range(1, 2)
	if err != nil {
		t.Fatalf("Range(1, 2): %v", err)
	}
	if len(got) != 2 || got[0].ID != "repeto1898" || got[1].ID != "permiso05" {
		t.Errorf("Range(1, 2) = %+v", got)
	}
	if all, err := c.Range(0, 6); err != nil || len(all) != 7 {
		t.Errorf("Range(0, 6) = %d sources, %v", len(all), err)
	}

	for _, r := range [][2]int{{-1, 2}, {0, 7}, {3, 2}} {
		if _, err := c.Range(r[0], r[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Range(%d, %d) error = %v, want ErrOutOfRange", r[0], r[1], err)
		}
	}
}
