package validation

// LoginRequest is the body of POST /api/auth.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Username  string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest is the body of PUT /api/my/user.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=255"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=255"`
	Username  *string `json:"username" validate:"omitempty,min=3,max=64,alphanum"`
}

// ChangePasswordRequest is the body of POST /api/my/user/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required,max=72"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72,nefield=OldPassword"`
}

// CreateSkillRequest is the body of POST /api/my/skills.
type CreateSkillRequest struct {
	SkillName  string `json:"skillName" validate:"required,max=100"`
	SkillLevel int32  `json:"skillLevel" validate:"min=1,max=10"`
}

// UpdateSkillRequest is the body of PUT /api/my/skills/{skillID}.
type UpdateSkillRequest struct {
	SkillName  *string `json:"skillName" validate:"omitempty,min=1,max=100"`
	SkillLevel *int32  `json:"skillLevel" validate:"omitempty,min=1,max=10"`
}

// VerifyCodeRequest is the body of POST /api/my/backup-codes/verify.
type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required,len=14,hexadecimal"`
}

// CreateTeamRequest is the body of POST /api/my/teams.
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateTeamRequest is the body of PUT /api/my/teams/{teamID}.
type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// CreateInvitationRequest is the body of POST /api/my/teams/{teamID}/invitations.
type CreateInvitationRequest struct {
	UserID   string `json:"userId" validate:"required,uuid"`
	TeamRole string `json:"teamRole" validate:"required,oneof=admin manager member"`
}

// CreateActivityRequest is the body of POST /api/my/teams/{teamID}/activities.
type CreateActivityRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Description     string `json:"description" validate:"max=2000"`
	DurationInHours int32  `json:"durationInHours" validate:"min=0,max=10000"`
}

// UpdateActivityRequest is the body of PUT /api/my/teams/{teamID}/activities/{activityID}.
type UpdateActivityRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	DurationInHours *int32  `json:"durationInHours" validate:"omitempty,min=0,max=10000"`
}

// AssignActivityRequest is the body of POST .../activities/{activityID}/assign.
type AssignActivityRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

func (r *RegisterRequest) Clean() {
	r.FirstName = Sanitize(r.FirstName)
	r.LastName = Sanitize(r.LastName)
}

func (r *UpdateProfileRequest) Clean() {
	r.FirstName = SanitizePtr(r.FirstName)
	r.LastName = SanitizePtr(r.LastName)
}

func (r *CreateSkillRequest) Clean() { r.SkillName = Sanitize(r.SkillName) }

func (r *UpdateSkillRequest) Clean() { r.SkillName = SanitizePtr(r.SkillName) }

func (r *CreateTeamRequest) Clean() {
	r.Name = Sanitize(r.Name)
	r.Description = Sanitize(r.Description)
}

func (r *UpdateTeamRequest) Clean() {
	r.Name = SanitizePtr(r.Name)
	r.Description = SanitizePtr(r.Description)
}

func (r *CreateActivityRequest) Clean() {
	r.Name = Sanitize(r.Name)
	r.Description = Sanitize(r.Description)
}

func (r *UpdateActivityRequest) Clean() {
	r.Name = SanitizePtr(r.Name)
	r.Description = SanitizePtr(r.Description)
}
