package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daap14/teamcap/internal/activity"
	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/auth"
	"github.com/daap14/teamcap/internal/backupcode"
	"github.com/daap14/teamcap/internal/capability"
	"github.com/daap14/teamcap/internal/skill"
	"github.com/daap14/teamcap/internal/store"
	"github.com/daap14/teamcap/internal/team"
	"github.com/daap14/teamcap/internal/user"
)

// --- Mock User Repository ---

type mockUserRepo struct {
	getByIDFn       func(ctx context.Context, id string) (*user.User, error)
	listFn          func(ctx context.Context) ([]user.User, error)
	updateProfileFn func(ctx context.Context, id string, p user.ProfileUpdate) (*user.User, error)
}

func (m *mockUserRepo) Create(_ context.Context, u user.NewUser) (*user.User, error) {
	return sampleUser(uuid.NewString(), u.Username), nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(context.Context, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) ListArchivedByUsername(context.Context, string) ([]user.User, error) {
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]user.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []user.User{}, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, p user.ProfileUpdate) (*user.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, p)
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) SetPasswordHash(context.Context, string, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) Restore(context.Context, string, string, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) Archive(context.Context, string) error {
	return nil
}

// --- Mock Auth Service ---

type mockAuthService struct {
	loginFn          func(ctx context.Context, username, password string) (*auth.Authentication, error)
	logoutFn         func(ctx context.Context, token string) error
	registerFn       func(ctx context.Context, a auth.Account) (*auth.Registration, error)
	unregisterFn     func(ctx context.Context, userID string) error
	changePasswordFn func(ctx context.Context, p *auth.Principal, current, next string) error
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*auth.Authentication, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return nil, auth.ErrInvalidCredentials
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) Register(ctx context.Context, a auth.Account) (*auth.Registration, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, a)
	}
	return &auth.Registration{User: sampleUser(uuid.NewString(), a.Username), BackupCodes: []string{"0123456789abcd"}}, nil
}

func (m *mockAuthService) Unregister(ctx context.Context, userID string) error {
	if m.unregisterFn != nil {
		return m.unregisterFn(ctx, userID)
	}
	return nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, p *auth.Principal, current, next string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, p, current, next)
	}
	return nil
}

// --- Mock Skill Repository ---

type mockSkillRepo struct {
	createFn     func(ctx context.Context, userID, name string, level int32) (*skill.UserSkill, error)
	listByUserFn func(ctx context.Context, userID string) ([]skill.UserSkill, error)
	updateFn     func(ctx context.Context, userID, id string, u skill.Update) (*skill.UserSkill, error)
	deleteFn     func(ctx context.Context, userID, id string) error
}

func (m *mockSkillRepo) Create(ctx context.Context, userID, name string, level int32) (*skill.UserSkill, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, name, level)
	}
	now := time.Now().UTC()
	return &skill.UserSkill{ID: uuid.NewString(), UserID: userID, SkillName: name, SkillLevel: level, CreatedAt: now, UpdatedAt: now}, nil
}

func (m *mockSkillRepo) GetForUser(context.Context, string, string) (*skill.UserSkill, error) {
	return nil, skill.ErrSkillNotFound
}

func (m *mockSkillRepo) ListByUser(ctx context.Context, userID string) ([]skill.UserSkill, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []skill.UserSkill{}, nil
}

func (m *mockSkillRepo) Update(ctx context.Context, userID, id string, u skill.Update) (*skill.UserSkill, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, u)
	}
	return nil, skill.ErrSkillNotFound
}

func (m *mockSkillRepo) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return skill.ErrSkillNotFound
}

// --- Mock Backup Code Service ---

type mockBackupCodeService struct {
	listFn       func(ctx context.Context, userID string) ([]backupcode.BackupCode, error)
	regenerateFn func(ctx context.Context, userID string) ([]backupcode.BackupCode, error)
	verifyFn     func(ctx context.Context, userID, code string) error
}

func (m *mockBackupCodeService) List(ctx context.Context, userID string) ([]backupcode.BackupCode, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return []backupcode.BackupCode{}, nil
}

func (m *mockBackupCodeService) Regenerate(ctx context.Context, userID string) ([]backupcode.BackupCode, error) {
	if m.regenerateFn != nil {
		return m.regenerateFn(ctx, userID)
	}
	return []backupcode.BackupCode{}, nil
}

func (m *mockBackupCodeService) Verify(ctx context.Context, userID, code string) error {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, userID, code)
	}
	return backupcode.ErrCodeNotFound
}

// --- Mock Team Repository ---

type mockTeamRepo struct {
	createFn    func(ctx context.Context, ownerID, name, description string) (*team.Team, error)
	getByIDFn   func(ctx context.Context, id string) (*team.Team, error)
	getOwnedFn  func(ctx context.Context, ownerID, id string) (*team.Team, error)
	listOwnedFn func(ctx context.Context, ownerID string) ([]team.Team, error)
	updateFn    func(ctx context.Context, id string, u team.Update) (*team.Team, error)
	archiveFn   func(ctx context.Context, id string) error
}

func (m *mockTeamRepo) Create(ctx context.Context, ownerID, name, description string) (*team.Team, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, name, description)
	}
	t := sampleTeam(uuid.NewString(), ownerID)
	t.Name, t.Description = name, description
	return t, nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id string) (*team.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) GetOwned(ctx context.Context, ownerID, id string) (*team.Team, error) {
	if m.getOwnedFn != nil {
		return m.getOwnedFn(ctx, ownerID, id)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) ListOwned(ctx context.Context, ownerID string) ([]team.Team, error) {
	if m.listOwnedFn != nil {
		return m.listOwnedFn(ctx, ownerID)
	}
	return []team.Team{}, nil
}

func (m *mockTeamRepo) ListByInvitee(context.Context, string) ([]team.Team, error) {
	return []team.Team{}, nil
}

func (m *mockTeamRepo) Update(ctx context.Context, id string, u team.Update) (*team.Team, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, u)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) Archive(ctx context.Context, id string) error {
	if m.archiveFn != nil {
		return m.archiveFn(ctx, id)
	}
	return nil
}

// ownedBy returns a team repository whose GetOwned finds t for its owner only.
func ownedBy(t *team.Team) *mockTeamRepo {
	return &mockTeamRepo{
		getOwnedFn: func(_ context.Context, ownerID, id string) (*team.Team, error) {
			if ownerID == t.OwnerID && id == t.ID {
				return t, nil
			}
			return nil, team.ErrTeamNotFound
		},
		getByIDFn: func(_ context.Context, id string) (*team.Team, error) {
			if id == t.ID {
				return t, nil
			}
			return nil, team.ErrTeamNotFound
		},
	}
}

// --- Mock Invitation Repository ---

type mockInvitationRepo struct {
	createFn           func(ctx context.Context, teamID, userID string, role team.Role) (*team.Invitation, error)
	getForUserFn       func(ctx context.Context, userID, id string) (*team.Invitation, error)
	listByTeamFn       func(ctx context.Context, teamID string) ([]team.Invitation, error)
	listByUserFn       func(ctx context.Context, userID string) ([]team.Invitation, error)
	respondFn          func(ctx context.Context, userID, id string, accept bool) (*team.Invitation, error)
	deleteFn           func(ctx context.Context, teamID, id string) error
	listInvitedUsersFn func(ctx context.Context, teamID string) ([]user.User, error)
}

func (m *mockInvitationRepo) Create(ctx context.Context, teamID, userID string, role team.Role) (*team.Invitation, error) {
	if m.createFn != nil {
		return m.createFn(ctx, teamID, userID, role)
	}
	return sampleInvitation(uuid.NewString(), teamID, userID), nil
}

func (m *mockInvitationRepo) GetByID(context.Context, string) (*team.Invitation, error) {
	return nil, team.ErrInvitationNotFound
}

func (m *mockInvitationRepo) GetForUser(ctx context.Context, userID, id string) (*team.Invitation, error) {
	if m.getForUserFn != nil {
		return m.getForUserFn(ctx, userID, id)
	}
	return nil, team.ErrInvitationNotFound
}

func (m *mockInvitationRepo) GetForTeam(context.Context, string, string) (*team.Invitation, error) {
	return nil, team.ErrInvitationNotFound
}

func (m *mockInvitationRepo) FindByTeamAndUser(context.Context, string, string) (*team.Invitation, error) {
	return nil, team.ErrInvitationNotFound
}

func (m *mockInvitationRepo) ListByTeam(ctx context.Context, teamID string) ([]team.Invitation, error) {
	if m.listByTeamFn != nil {
		return m.listByTeamFn(ctx, teamID)
	}
	return []team.Invitation{}, nil
}

func (m *mockInvitationRepo) ListByUser(ctx context.Context, userID string) ([]team.Invitation, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []team.Invitation{}, nil
}

func (m *mockInvitationRepo) Respond(ctx context.Context, userID, id string, accept bool) (*team.Invitation, error) {
	if m.respondFn != nil {
		return m.respondFn(ctx, userID, id, accept)
	}
	return nil, team.ErrInvitationNotFound
}

func (m *mockInvitationRepo) Delete(ctx context.Context, teamID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, teamID, id)
	}
	return team.ErrInvitationNotFound
}

func (m *mockInvitationRepo) ListInvitedUsers(ctx context.Context, teamID string) ([]user.User, error) {
	if m.listInvitedUsersFn != nil {
		return m.listInvitedUsersFn(ctx, teamID)
	}
	return []user.User{}, nil
}

// --- Mock Activity Repository and Service ---

type mockActivityRepo struct {
	createFn         func(ctx context.Context, a activity.NewActivity) (*activity.Activity, error)
	getByIDFn        func(ctx context.Context, id string) (*activity.Activity, error)
	getForTeamFn     func(ctx context.Context, teamID, id string) (*activity.Activity, error)
	listByTeamFn     func(ctx context.Context, teamID string) ([]activity.Activity, error)
	listAssignedToFn func(ctx context.Context, userID string) ([]activity.Activity, error)
	updateFn         func(ctx context.Context, id string, u activity.Update) (*activity.Activity, error)
	archiveFn        func(ctx context.Context, teamID, id string) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a activity.NewActivity) (*activity.Activity, error) {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	act := sampleActivity(uuid.NewString(), a.TeamID)
	act.Name, act.Description, act.DurationInHours = a.Name, a.Description, a.DurationInHours
	return act, nil
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id string) (*activity.Activity, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, activity.ErrActivityNotFound
}

func (m *mockActivityRepo) GetForTeam(ctx context.Context, teamID, id string) (*activity.Activity, error) {
	if m.getForTeamFn != nil {
		return m.getForTeamFn(ctx, teamID, id)
	}
	return nil, activity.ErrActivityNotFound
}

func (m *mockActivityRepo) ListByTeam(ctx context.Context, teamID string) ([]activity.Activity, error) {
	if m.listByTeamFn != nil {
		return m.listByTeamFn(ctx, teamID)
	}
	return []activity.Activity{}, nil
}

func (m *mockActivityRepo) ListAssignedTo(ctx context.Context, userID string) ([]activity.Activity, error) {
	if m.listAssignedToFn != nil {
		return m.listAssignedToFn(ctx, userID)
	}
	return []activity.Activity{}, nil
}

func (m *mockActivityRepo) Update(ctx context.Context, id string, u activity.Update) (*activity.Activity, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, u)
	}
	return nil, activity.ErrActivityNotFound
}

func (m *mockActivityRepo) Apply(context.Context, string, []store.Field) (*activity.Activity, error) {
	return nil, activity.ErrActivityNotFound
}

func (m *mockActivityRepo) Archive(ctx context.Context, teamID, id string) error {
	if m.archiveFn != nil {
		return m.archiveFn(ctx, teamID, id)
	}
	return nil
}

type mockActivityService struct {
	transitionFn func(ctx context.Context, a *activity.Activity, tr activity.Transition) (*activity.Activity, error)
	assignFn     func(ctx context.Context, a *activity.Activity, userID string) (*activity.Activity, error)
}

func (m *mockActivityService) Transition(ctx context.Context, a *activity.Activity, tr activity.Transition) (*activity.Activity, error) {
	if m.transitionFn != nil {
		return m.transitionFn(ctx, a, tr)
	}
	return a, nil
}

func (m *mockActivityService) Assign(ctx context.Context, a *activity.Activity, userID string) (*activity.Activity, error) {
	if m.assignFn != nil {
		return m.assignFn(ctx, a, userID)
	}
	updated := *a
	updated.AssignedTo = &userID
	return &updated, nil
}

// --- Mock Membership and Team Viewer ---

type mockMembership struct {
	access  map[string]team.Access
	teamsOf []team.Team
	err     error
}

func (m *mockMembership) AccessOf(_ context.Context, _ *team.Team, userID string) (team.Access, error) {
	if m.err != nil {
		return team.AccessNone, m.err
	}
	return m.access[userID], nil
}

func (m *mockMembership) TeamsOf(context.Context, string) ([]team.Team, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.teamsOf, nil
}

type mockViewer struct {
	viewFn func(ctx context.Context, t *team.Team) (*capability.TeamView, error)
}

func (m *mockViewer) TeamView(ctx context.Context, t *team.Team) (*capability.TeamView, error) {
	if m.viewFn != nil {
		return m.viewFn(ctx, t)
	}
	return &capability.TeamView{Team: t, Members: []user.User{}, Capabilities: capability.Map{}}, nil
}

// --- Helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

// asUser attaches a principal for userID to req.
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), &auth.Principal{
		UserID:    userID,
		Token:     "token-" + userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
}

// serveOwned sends a request for userID through a chi router that mounts h
// at pattern behind RequireTeamOwner.
func serveOwned(teams *mockTeamRepo, method, pattern, path, userID string, body []byte, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.With(middleware.RequireTeamOwner(teams)).Method(method, pattern, h)

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	req = asUser(req, userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := parseEnvelope(t, w)
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object")
	code, _ := errObj["code"].(string)
	return code
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func sampleUser(id, username string) *user.User {
	now := time.Now().UTC()
	return &user.User{
		ID:        id,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleTeam(id, ownerID string) *team.Team {
	now := time.Now().UTC()
	return &team.Team{
		ID:          id,
		OwnerID:     ownerID,
		Name:        "platform",
		Description: "runs the platform",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sampleInvitation(id, teamID, userID string) *team.Invitation {
	now := time.Now().UTC()
	return &team.Invitation{
		ID:        id,
		TeamID:    teamID,
		UserID:    userID,
		TeamRole:  team.RoleMember,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleActivity(id, teamID string) *activity.Activity {
	now := time.Now().UTC()
	return &activity.Activity{
		ID:              id,
		TeamID:          teamID,
		Name:            "migrate database",
		Description:     "move to the new cluster",
		DurationInHours: 8,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
