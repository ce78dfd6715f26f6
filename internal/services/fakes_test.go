package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"personafeedback/internal/domain"
)

// fakeInvitationRepo implements domain.InvitationRepository in memory with
// the same conditional-update semantics as the Postgres implementation.
type fakeInvitationRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Invitation
	nextID int
	err    error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byID: make(map[string]*domain.Invitation)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	inv.ID = "inv-" + strconv.Itoa(f.nextID)
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) GetByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.byID {
		if inv.Method == domain.MethodCode && inv.Code != nil && inv.Code.Code == code {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) GetByLinkID(ctx context.Context, linkID string) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.byID {
		if inv.Method == domain.MethodLink && inv.Link != nil && inv.Link.LinkID == linkID {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) ListByTestResultID(ctx context.Context, testResultID string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Invitation
	for _, inv := range f.byID {
		if inv.TestResultID == testResultID {
			out = append(out, inv)
		}
	}
	return out, len(out), nil
}

func (f *fakeInvitationRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byID[id]
	if !ok || inv.Method != domain.MethodEmail {
		return domain.ErrNotFound
	}
	inv.Email.SentAt = &at
	return nil
}

func (f *fakeInvitationRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byID[id]
	if !ok || inv.Method != domain.MethodEmail || inv.Status != domain.StatusActive {
		return domain.ErrAlreadyCompleted
	}
	inv.Status = domain.StatusCompleted
	inv.Email.CompletedAt = &at
	return nil
}

func (f *fakeInvitationRepo) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byID[id]
	if !ok || inv.Method != domain.MethodCode {
		return domain.ErrUsageExceeded
	}
	if inv.Code.MaxUsages != nil && inv.Code.UsageCount >= *inv.Code.MaxUsages {
		return domain.ErrUsageExceeded
	}
	inv.Code.UsageCount++
	inv.Code.LastUsedAt = &at
	return nil
}

func (f *fakeInvitationRepo) IncrementResponses(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.byID[id]
	if !ok || inv.Method != domain.MethodLink {
		return domain.ErrUsageExceeded
	}
	if inv.Link.MaxResponses != nil && inv.Link.ResponseCount >= *inv.Link.MaxResponses {
		return domain.ErrUsageExceeded
	}
	inv.Link.ResponseCount++
	return nil
}

// fakeResultRepo implements domain.TestResultRepository for tests.
type fakeResultRepo struct {
	byID   map[string]*domain.TestResult
	nextID int
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{byID: make(map[string]*domain.TestResult)}
}

func (f *fakeResultRepo) Create(ctx context.Context, res *domain.TestResult) error {
	f.nextID++
	res.ID = "tr-" + strconv.Itoa(f.nextID)
	f.byID[res.ID] = res
	return nil
}

func (f *fakeResultRepo) GetByID(ctx context.Context, id string) (*domain.TestResult, error) {
	if res, ok := f.byID[id]; ok {
		return res, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeResultRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.TestResult, error) {
	var out []*domain.TestResult
	for _, res := range f.byID {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

// fakeResponseRepo implements domain.FeedbackResponseRepository for tests.
type fakeResponseRepo struct {
	mu     sync.Mutex
	byKey  map[string]*domain.FeedbackResponse
	all    []*domain.FeedbackResponse
	nextID int
	err    error
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{byKey: make(map[string]*domain.FeedbackResponse)}
}

func (f *fakeResponseRepo) Create(ctx context.Context, resp *domain.FeedbackResponse) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if resp.IdempotencyKey != "" {
		if _, ok := f.byKey[resp.IdempotencyKey]; ok {
			return domain.ErrAlreadySubmitted
		}
	}
	f.nextID++
	resp.ID = "resp-" + strconv.Itoa(f.nextID)
	if resp.IdempotencyKey != "" {
		f.byKey[resp.IdempotencyKey] = resp
	}
	f.all = append(f.all, resp)
	return nil
}

func (f *fakeResponseRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.FeedbackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if resp, ok := f.byKey[key]; ok {
		return resp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeResponseRepo) ListByTestResultID(ctx context.Context, testResultID string, params domain.PaginationParams) ([]*domain.FeedbackResponse, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.FeedbackResponse
	for _, resp := range f.all {
		if resp.TestResultID == testResultID {
			out = append(out, resp)
		}
	}
	return out, len(out), nil
}

// fakeDedupStore implements domain.DedupStore for tests.
type fakeDedupStore struct {
	seen map[string]bool
}

func newFakeDedupStore() *fakeDedupStore {
	return &fakeDedupStore{seen: make(map[string]bool)}
}

func (f *fakeDedupStore) Seen(ctx context.Context, deviceID, invitationID string) (bool, error) {
	return f.seen[deviceID+"|"+invitationID], nil
}

func (f *fakeDedupStore) MarkSeen(ctx context.Context, deviceID, invitationID string) error {
	f.seen[deviceID+"|"+invitationID] = true
	return nil
}

// fakeRegistry implements domain.TestRegistry for tests.
type fakeRegistry struct {
	defs map[string]*domain.TestDefinition
}

func newFakeRegistry(defs ...*domain.TestDefinition) *fakeRegistry {
	r := &fakeRegistry{defs: make(map[string]*domain.TestDefinition)}
	for _, d := range defs {
		r.defs[d.ID] = d
	}
	return r
}

func (f *fakeRegistry) Get(testID string) (*domain.TestDefinition, bool) {
	d, ok := f.defs[testID]
	return d, ok
}

func (f *fakeRegistry) List() []*domain.TestDefinition {
	var out []*domain.TestDefinition
	for _, d := range f.defs {
		out = append(out, d)
	}
	return out
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	roles     map[string][]string
	nextID    int
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		roles:   make(map[string][]string),
	}
}

func (f *fakeUserRepo) add(u *domain.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = "user-" + strconv.Itoa(f.nextID)
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.roles[userID] = append(f.roles[userID], roleID)
	return nil
}

// fakeRoleRepo implements domain.RoleRepository for tests.
type fakeRoleRepo struct {
	byCode    map[string]*domain.Role
	listByUID map[string][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byCode:    make(map[string]*domain.Role),
		listByUID: make(map[string][]*domain.Role),
	}
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return f.listByUID[userID], nil
}

// fakeLoginCodeRepo implements domain.LoginCodeRepository for tests.
type fakeLoginCodeRepo struct {
	hashes map[string]string
}

func newFakeLoginCodeRepo() *fakeLoginCodeRepo {
	return &fakeLoginCodeRepo{hashes: make(map[string]string)}
}

func (f *fakeLoginCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	f.hashes[email] = codeHash
	return nil
}

func (f *fakeLoginCodeRepo) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	if f.hashes[email] == codeHash {
		delete(f.hashes, email)
		return true, nil
	}
	return false, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return domain.ErrForbidden
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	invitations []*domain.FeedbackInvitationEmailData
	sendErr     error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	return f.sendErr
}

func (f *fakeEmailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	return f.sendErr
}

func (f *fakeEmailService) SendFeedbackInvitation(ctx context.Context, data *domain.FeedbackInvitationEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.invitations = append(f.invitations, data)
	return nil
}
