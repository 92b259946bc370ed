package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/loadboard/access-api/internal/core/domain"
	"github.com/loadboard/access-api/internal/core/ports"
)

// In-memory repository stubs shared by the service tests.

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.users[id])
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsBanned != nil {
		u.IsBanned = *upd.IsBanned
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetBanned(_ context.Context, id string, banned bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsBanned = banned
	return nil
}

func (r *stubUserRepo) TouchOnline(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsOnline = &at
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubPermRepo struct {
	perms map[string]*domain.Permission // keyed by user id
}

func newStubPermRepo() *stubPermRepo {
	return &stubPermRepo{perms: make(map[string]*domain.Permission)}
}

func clonePerm(p *domain.Permission) *domain.Permission {
	if p == nil {
		return nil
	}
	clone := *p
	clone.DomainIDs = append([]string(nil), p.DomainIDs...)
	return &clone
}

func (r *stubPermRepo) Create(_ context.Context, p *domain.Permission) (*domain.Permission, error) {
	if _, exists := r.perms[p.UserID]; exists {
		return nil, domain.ErrPermissionExists
	}
	copy := clonePerm(p)
	copy.ID = "perm-" + p.UserID
	r.perms[p.UserID] = clonePerm(copy)
	return copy, nil
}

func (r *stubPermRepo) FindByUserID(_ context.Context, userID string) (*domain.Permission, error) {
	p, ok := r.perms[userID]
	if !ok {
		return nil, domain.ErrPermissionNotFound
	}
	return clonePerm(p), nil
}

func (r *stubPermRepo) UpdateByUserID(_ context.Context, userID string, upd ports.PermissionUpdate) (*domain.Permission, error) {
	p, ok := r.perms[userID]
	if !ok {
		return nil, domain.ErrPermissionNotFound
	}
	applyPermissionUpdate(p, upd)
	return clonePerm(p), nil
}

func (r *stubPermRepo) DeleteByUserID(_ context.Context, userID string) error {
	if _, ok := r.perms[userID]; !ok {
		return domain.ErrPermissionNotFound
	}
	delete(r.perms, userID)
	return nil
}

func (r *stubPermRepo) CountByDataSession(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, p := range r.perms {
		if p.DataSessionID != "" {
			counts[p.DataSessionID]++
		}
	}
	return counts, nil
}

// stubSessionRepo mirrors the store's contract: at most one session per
// user. It is mutex-guarded so tests can exercise concurrent logins.
type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session // keyed by user id
	nextID   int
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Replace(_ context.Context, s *domain.Session) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	copy := *s
	copy.ID = fmt.Sprintf("sess-%d", r.nextID)
	r.sessions[s.UserID] = &copy
	out := copy
	return &out, nil
}

func (r *stubSessionRepo) FindActive(_ context.Context, userID, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok || s.Token != token || !s.IsActive {
		return nil, domain.ErrSessionNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *stubSessionRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Token == token {
			s.IsActive = false
		}
	}
	return nil
}

func (r *stubSessionRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		s.IsActive = false
	}
	return nil
}

func (r *stubSessionRepo) ListByUser(_ context.Context, userID string) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return []domain.Session{}, nil
	}
	return []domain.Session{*s}, nil
}

func (r *stubSessionRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, s := range r.sessions {
		if s.ID == id {
			delete(r.sessions, userID)
			return nil
		}
	}
	return domain.ErrSessionNotFound
}

func (r *stubSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}

// liveCount reports how many stored sessions for userID are still active.
func (r *stubSessionRepo) liveCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	if s, ok := r.sessions[userID]; ok && s.IsActive {
		n++
	}
	return n
}

type stubDataRepo struct {
	sessions map[string]*domain.DataSession
	nextID   int
}

func newStubDataRepo() *stubDataRepo {
	return &stubDataRepo{sessions: make(map[string]*domain.DataSession)}
}

func (r *stubDataRepo) Create(_ context.Context, ds *domain.DataSession) (*domain.DataSession, error) {
	for _, existing := range r.sessions {
		if existing.Name == ds.Name || existing.Proxy == ds.Proxy {
			return nil, domain.ErrDataSessionExists
		}
	}
	r.nextID++
	copy := *ds
	copy.ID = fmt.Sprintf("ds-%d", r.nextID)
	r.sessions[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubDataRepo) FindByID(_ context.Context, id string) (*domain.DataSession, error) {
	ds, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrDataSessionNotFound
	}
	copy := *ds
	return &copy, nil
}

func (r *stubDataRepo) List(_ context.Context) ([]domain.DataSession, error) {
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.DataSession, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.sessions[id])
	}
	return out, nil
}

func (r *stubDataRepo) Update(_ context.Context, id string, upd ports.DataSessionUpdate) (*domain.DataSession, error) {
	ds, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrDataSessionNotFound
	}
	if upd.Name != nil {
		ds.Name = *upd.Name
	}
	if upd.Proxy != nil {
		ds.Proxy = *upd.Proxy
	}
	if upd.Domain != nil {
		ds.Domain = *upd.Domain
	}
	if upd.IsLoggedIn != nil {
		ds.IsLoggedIn = *upd.IsLoggedIn
	}
	copy := *ds
	return &copy, nil
}

func (r *stubDataRepo) SetFileName(_ context.Context, id, fileName string) (*domain.DataSession, error) {
	ds, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrDataSessionNotFound
	}
	ds.FileName = fileName
	copy := *ds
	return &copy, nil
}

func (r *stubDataRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrDataSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

type stubWhitelistRepo struct {
	domains map[string]*domain.WhitelistedDomain
	nextID  int
}

func newStubWhitelistRepo() *stubWhitelistRepo {
	return &stubWhitelistRepo{domains: make(map[string]*domain.WhitelistedDomain)}
}

func (r *stubWhitelistRepo) Create(_ context.Context, d *domain.WhitelistedDomain) (*domain.WhitelistedDomain, error) {
	for _, existing := range r.domains {
		if existing.Domain == d.Domain {
			return nil, domain.ErrDomainExists
		}
	}
	r.nextID++
	copy := *d
	copy.ID = fmt.Sprintf("dom-%d", r.nextID)
	r.domains[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubWhitelistRepo) List(_ context.Context) ([]domain.WhitelistedDomain, error) {
	ids := make([]string, 0, len(r.domains))
	for id := range r.domains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.WhitelistedDomain, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.domains[id])
	}
	return out, nil
}

func (r *stubWhitelistRepo) FindByIDs(_ context.Context, ids []string) ([]domain.WhitelistedDomain, error) {
	out := []domain.WhitelistedDomain{}
	for _, id := range ids {
		if d, ok := r.domains[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubWhitelistRepo) Update(_ context.Context, id, name string) (*domain.WhitelistedDomain, error) {
	d, ok := r.domains[id]
	if !ok {
		return nil, domain.ErrDomainNotFound
	}
	d.Domain = name
	copy := *d
	return &copy, nil
}

func (r *stubWhitelistRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.domains[id]; !ok {
		return domain.ErrDomainNotFound
	}
	delete(r.domains, id)
	return nil
}

type stubPresence struct {
	touched []string
}

func (p *stubPresence) Touch(userID string) {
	p.touched = append(p.touched, userID)
}

type stubFileStore struct {
	files  map[string][]byte // keyed by "<namespace>/<name>"
	nextID int
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{files: make(map[string][]byte)}
}

func (s *stubFileStore) key(ns ports.FileNamespace, name string) string {
	return string(ns) + "/" + name
}

func (s *stubFileStore) Save(_ context.Context, ns ports.FileNamespace, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.nextID++
	name := fmt.Sprintf("stored-%d", s.nextID)
	s.files[s.key(ns, name)] = data
	return name, nil
}

func (s *stubFileStore) SaveAs(_ context.Context, ns ports.FileNamespace, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.files[s.key(ns, name)] = data
	return nil
}

func (s *stubFileStore) Open(_ context.Context, ns ports.FileNamespace, name string) (io.ReadCloser, error) {
	data, ok := s.files[s.key(ns, name)]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubFileStore) Remove(_ context.Context, ns ports.FileNamespace, name string) error {
	delete(s.files, s.key(ns, name))
	return nil
}
