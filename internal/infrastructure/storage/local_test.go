package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestLocalStore_SaveGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, ports.NamespaceBundles, "bundle.zip", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.Save(ctx, ports.NamespaceBundles, "bundle.zip", strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct stored names")
	}
	if !strings.HasSuffix(first, ".zip") {
		t.Fatalf("expected original extension kept, got %q", first)
	}

	rc, err := store.Open(ctx, ports.NamespaceBundles, first)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "v1" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestLocalStore_SaveAsReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveAs(ctx, ports.NamespaceUpdates, "latest.yaml", strings.NewReader("version: 1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveAs(ctx, ports.NamespaceUpdates, "latest.yaml", strings.NewReader("version: 2")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	rc, err := store.Open(ctx, ports.NamespaceUpdates, "latest.yaml")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "version: 2" {
		t.Fatalf("expected replaced content, got %q", data)
	}
}

func TestLocalStore_OpenMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Open(context.Background(), ports.NamespaceBundles, "nope.zip"); err != domain.ErrFileNotFound {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLocalStore_RemoveMissingIsNoError(t *testing.T) {
	store := newTestStore(t)

	if err := store.Remove(context.Background(), ports.NamespaceBundles, "nope.zip"); err != nil {
		t.Fatalf("removing an absent file must not fail: %v", err)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"../escape", "a/b", `a\b`, "..", "."} {
		if err := store.SaveAs(ctx, ports.NamespaceUpdates, name, strings.NewReader("x")); err == nil {
			t.Fatalf("expected rejection for %q", name)
		}
		if _, err := store.Open(ctx, ports.NamespaceUpdates, name); err == nil {
			t.Fatalf("expected rejection for %q", name)
		}
	}
}
