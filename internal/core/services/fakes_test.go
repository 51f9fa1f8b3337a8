package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

var errBoom = errors.New("boom")

func actorFor(u *models.User) *domain.Actor {
	return toActor(u)
}

// ---- users ----

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	getErr    error
	createErr error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmployeeCode(_ context.Context, code string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.users {
		if u.EmployeeCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repositories.UserFilter, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if q := strings.ToLower(filter.Search); q != "" &&
			!strings.Contains(strings.ToLower(u.EmployeeCode+" "+u.FullName+" "+u.Email), q) {
			continue
		}
		out = append(out, u)
	}
	total := int64(len(out))
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeUserRepo) ExistsByEmployeeCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ---- sessions ----

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  []*models.UserSession
	createErr error
	closeErr  error
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = uint(len(r.sessions) + 1)
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *fakeSessionRepo) CloseOpen(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr != nil {
		return r.closeErr
	}
	for _, s := range r.sessions {
		if s.UserID == userID && s.LogoutAt == nil {
			t := at
			s.LogoutAt = &t
		}
	}
	return nil
}

func (r *fakeSessionRepo) CloseStale(_ context.Context, before, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sessions {
		if s.LogoutAt == nil && s.LoginAt.Before(before) {
			t := at
			s.LogoutAt = &t
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID string, limit int) ([]*models.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- refresh tokens ----

type fakeTokenRepo struct {
	deleted   int64
	deleteErr error
	calls     int
}

func (r *fakeTokenRepo) Create(context.Context, *models.RefreshToken) error { return nil }
func (r *fakeTokenRepo) GetByTokenHash(context.Context, string) (*models.RefreshToken, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeTokenRepo) Revoke(context.Context, uint) (bool, error)           { return true, nil }
func (r *fakeTokenRepo) RevokeByTokenHash(context.Context, string) error      { return nil }
func (r *fakeTokenRepo) RevokeAllByIdentityID(context.Context, string) error { return nil }
func (r *fakeTokenRepo) DeleteExpired(context.Context) (int64, error) {
	r.calls++
	return r.deleted, r.deleteErr
}

// ---- identity provider ----

type fakeIdentity struct {
	mu          sync.Mutex
	passwords   map[string]string // email -> password
	ids         map[string]string // email -> id
	nextID      int
	signInErr   error
	createErr   error
	deleteErr   error
	deleted     []string
	signedOut   []string
	signOutAll  []string
	signInCalls int
	tokenUser   map[string]string // access token -> id
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		passwords: map[string]string{},
		ids:       map[string]string{},
		tokenUser: map[string]string{},
	}
}

func (f *fakeIdentity) add(id, email, pw string) {
	f.passwords[email] = pw
	f.ids[email] = id
}

func (f *fakeIdentity) CreateIdentity(_ context.Context, email, pw string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	if _, ok := f.ids[email]; ok {
		return "", ErrIdentityExists
	}
	f.nextID++
	id := fmt.Sprintf("id-%d", f.nextID)
	f.passwords[email] = pw
	f.ids[email] = id
	return id, nil
}

func (f *fakeIdentity) DeleteIdentity(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for email, v := range f.ids {
		if v == id {
			delete(f.ids, email)
			delete(f.passwords, email)
		}
	}
	return nil
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, pw string) (*TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if stored, ok := f.passwords[email]; !ok || stored != pw {
		return nil, ErrInvalidCredentials
	}
	id := f.ids[email]
	access := "access-" + id
	f.tokenUser[access] = id
	return &TokenPair{IdentityID: id, AccessToken: access, RefreshToken: "refresh-" + id}, nil
}

func (f *fakeIdentity) ValidateAccessToken(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.tokenUser[token]; ok {
		return id, nil
	}
	return "", ErrInvalidToken
}

func (f *fakeIdentity) Refresh(_ context.Context, token string) (*TokenPair, error) {
	id, ok := strings.CutPrefix(token, "refresh-")
	if !ok {
		return nil, ErrInvalidToken
	}
	return &TokenPair{IdentityID: id, AccessToken: "access-" + id, RefreshToken: "refresh-" + id + "-2"}, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeIdentity) SignOutAll(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutAll = append(f.signOutAll, id)
	return nil
}

func (f *fakeIdentity) ChangePassword(_ context.Context, id, current, next string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, v := range f.ids {
		if v == id {
			if f.passwords[email] != current {
				return ErrInvalidCredentials
			}
			f.passwords[email] = next
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ---- branches & parties ----

type fakeBranchRepo struct {
	branches map[string]*models.Branch
}

func newFakeBranchRepo(branches ...*models.Branch) *fakeBranchRepo {
	r := &fakeBranchRepo{branches: map[string]*models.Branch{}}
	for _, b := range branches {
		r.branches[b.Code] = b
	}
	return r
}

func (r *fakeBranchRepo) Create(_ context.Context, b *models.Branch) error {
	r.branches[b.Code] = b
	return nil
}

func (r *fakeBranchRepo) GetByCode(_ context.Context, code string) (*models.Branch, error) {
	b, ok := r.branches[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBranchRepo) Update(_ context.Context, b *models.Branch) error {
	cp := *b
	r.branches[b.Code] = &cp
	return nil
}

func (r *fakeBranchRepo) List(_ context.Context, filter repositories.BranchFilter) ([]*models.Branch, error) {
	var out []*models.Branch
	for _, b := range r.branches {
		if !filter.IncludeInactive && !b.IsActive {
			continue
		}
		if filter.Type != "" && b.Type != filter.Type {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBranchRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.branches[code]
	return ok, nil
}

type fakePartyRepo struct {
	parties    map[string]*models.Party
	lastFilter repositories.PartyFilter
}

func newFakePartyRepo(parties ...*models.Party) *fakePartyRepo {
	r := &fakePartyRepo{parties: map[string]*models.Party{}}
	for _, p := range parties {
		r.parties[p.Code] = p
	}
	return r
}

func (r *fakePartyRepo) Create(_ context.Context, p *models.Party) error {
	r.parties[p.Code] = p
	return nil
}

func (r *fakePartyRepo) GetByCode(_ context.Context, code string) (*models.Party, error) {
	p, ok := r.parties[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePartyRepo) Update(_ context.Context, p *models.Party) error {
	cp := *p
	r.parties[p.Code] = &cp
	return nil
}

func (r *fakePartyRepo) List(_ context.Context, filter repositories.PartyFilter, _, _ int) ([]*models.Party, int64, error) {
	r.lastFilter = filter
	var out []*models.Party
	for _, p := range r.parties {
		if !filter.IncludeInactive && !p.IsActive {
			continue
		}
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, p.Type) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePartyRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.parties[code]
	return ok, nil
}

// ---- bookings ----

type fakeConsignmentRepo struct {
	cns    map[string]*models.Consignment
	nextID uint
}

func newFakeConsignmentRepo() *fakeConsignmentRepo {
	return &fakeConsignmentRepo{cns: map[string]*models.Consignment{}}
}

func (r *fakeConsignmentRepo) Create(_ context.Context, cn *models.Consignment) error {
	r.nextID++
	cn.ID = r.nextID
	no := fmt.Sprintf("S%06d", 800000+cn.ID)
	cn.CNNo = &no
	r.cns[no] = cn
	return nil
}

func (r *fakeConsignmentRepo) GetByCNNo(_ context.Context, no string) (*models.Consignment, error) {
	cn, ok := r.cns[no]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *cn
	return &cp, nil
}

func (r *fakeConsignmentRepo) Update(_ context.Context, cn *models.Consignment) error {
	cp := *cn
	r.cns[*cn.CNNo] = &cp
	return nil
}

func (r *fakeConsignmentRepo) List(context.Context, repositories.ConsignmentFilter, int, int) ([]*models.Consignment, int64, error) {
	var out []*models.Consignment
	for _, cn := range r.cns {
		out = append(out, cn)
	}
	return out, int64(len(out)), nil
}

type fakeChallanRepo struct {
	challans   map[string]*models.Challan
	lastFilter repositories.ChallanFilter
	lastLimit  int
}

func newFakeChallanRepo(taken ...string) *fakeChallanRepo {
	r := &fakeChallanRepo{challans: map[string]*models.Challan{}}
	for _, no := range taken {
		r.challans[no] = &models.Challan{ChallanNo: no}
	}
	return r
}

func (r *fakeChallanRepo) Create(_ context.Context, c *models.Challan) error {
	r.challans[c.ChallanNo] = c
	return nil
}

func (r *fakeChallanRepo) GetByChallanNo(_ context.Context, no string) (*models.Challan, error) {
	c, ok := r.challans[no]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeChallanRepo) ExistsByChallanNo(_ context.Context, no string) (bool, error) {
	_, ok := r.challans[no]
	return ok, nil
}

func (r *fakeChallanRepo) List(_ context.Context, filter repositories.ChallanFilter, _, limit int) ([]*models.Challan, int64, error) {
	r.lastFilter = filter
	r.lastLimit = limit
	var out []*models.Challan
	for _, c := range r.challans {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *models.Challan) int { return strings.Compare(a.ChallanNo, b.ChallanNo) })
	return out, int64(len(out)), nil
}
