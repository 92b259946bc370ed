package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

type dataFixture struct {
	repo  *stubDataRepo
	perms *stubPermRepo
	files *stubFileStore
	svc   *DataSessionService
}

func newDataFixture() *dataFixture {
	f := &dataFixture{
		repo:  newStubDataRepo(),
		perms: newStubPermRepo(),
		files: newStubFileStore(),
	}
	f.svc = NewDataSessionService(f.repo, f.perms, f.files, zerolog.Nop())
	return f
}

func TestDataSessionService_List_AnnotatesUserCounts(t *testing.T) {
	f := newDataFixture()

	ds, err := f.svc.Create(context.Background(), ports.CreateDataSessionInput{Name: "acct", Proxy: "10.0.0.1:8080"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := f.svc.Create(context.Background(), ports.CreateDataSessionInput{Name: "other", Proxy: "10.0.0.2:8080"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, userID := range []string{"u1", "u2"} {
		if _, err := f.perms.Create(context.Background(), &domain.Permission{UserID: userID, DataSessionID: ds.ID}); err != nil {
			t.Fatalf("seed permission: %v", err)
		}
	}

	sessions, err := f.svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	counts := map[string]int{}
	for _, s := range sessions {
		counts[s.ID] = s.UserCount
	}
	if counts[ds.ID] != 2 {
		t.Fatalf("expected 2 users on %s, got %d", ds.ID, counts[ds.ID])
	}
	if counts[other.ID] != 0 {
		t.Fatalf("expected 0 users on %s, got %d", other.ID, counts[other.ID])
	}
}

func TestDataSessionService_Create_DuplicateNameOrProxy(t *testing.T) {
	f := newDataFixture()

	if _, err := f.svc.Create(context.Background(), ports.CreateDataSessionInput{Name: "acct", Proxy: "10.0.0.1:8080"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), ports.CreateDataSessionInput{Name: "acct", Proxy: "10.0.0.9:8080"}); err != domain.ErrDataSessionExists {
		t.Fatalf("expected ErrDataSessionExists, got %v", err)
	}
}

func TestDataSessionService_AttachBundle_ReplacesPrior(t *testing.T) {
	f := newDataFixture()

	ds, err := f.svc.Create(context.Background(), ports.CreateDataSessionInput{Name: "acct", Proxy: "10.0.0.1:8080"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := f.svc.AttachBundle(context.Background(), ds.ID, "bundle.zip", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if first.FileName == "" {
		t.Fatalf("expected file name recorded")
	}

	second, err := f.svc.AttachBundle(context.Background(), ds.ID, "bundle.zip", strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("second attach: %v", err)
	}
	if second.FileName == first.FileName {
		t.Fatalf("expected a fresh stored name")
	}

	// The first stored file must be gone, the second readable.
	if _, err := f.files.Open(context.Background(), ports.NamespaceBundles, first.FileName); err != domain.ErrFileNotFound {
		t.Fatalf("expected prior bundle removed, got %v", err)
	}
	rc, err := f.files.Open(context.Background(), ports.NamespaceBundles, second.FileName)
	if err != nil {
		t.Fatalf("open current bundle: %v", err)
	}
	rc.Close()
}

func TestDataSessionService_DetachBundle(t *testing.T) {
	f := newDataFixture()

	ds, err := f.svc.Create(context.Background(), ports.CreateDataSessionInput{Name: "acct", Proxy: "10.0.0.1:8080"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	attached, err := f.svc.AttachBundle(context.Background(), ds.ID, "bundle.zip", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	detached, err := f.svc.DetachBundle(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("detach: %v", err)
	}
	if detached.FileName != "" {
		t.Fatalf("expected cleared file name, got %q", detached.FileName)
	}
	if _, err := f.files.Open(context.Background(), ports.NamespaceBundles, attached.FileName); err != domain.ErrFileNotFound {
		t.Fatalf("expected bundle removed, got %v", err)
	}
}

func TestDataSessionService_Delete_RemovesAttachedFile(t *testing.T) {
	f := newDataFixture()

	ds, err := f.svc.Create(context.Background(), ports.CreateDataSessionInput{Name: "acct", Proxy: "10.0.0.1:8080"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	attached, err := f.svc.AttachBundle(context.Background(), ds.ID, "bundle.zip", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := f.svc.Delete(context.Background(), ds.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), ds.ID); err != domain.ErrDataSessionNotFound {
		t.Fatalf("expected record gone, got %v", err)
	}
	if _, err := f.files.Open(context.Background(), ports.NamespaceBundles, attached.FileName); err != domain.ErrFileNotFound {
		t.Fatalf("expected bundle removed, got %v", err)
	}
}
