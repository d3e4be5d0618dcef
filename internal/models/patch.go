package models

// Partial updates are expressed as explicit whitelists of mutable fields
// rather than blind field merges: a nil pointer leaves the current value
// untouched, a non-nil pointer overwrites it. Fields outside the whitelist
// cannot be patched at all.

// UserPatch lists the account fields a user may change about themselves.
type UserPatch struct {
	Name           *string `json:"name,omitempty"`
	Username       *string `json:"username,omitempty"`
	Email          *string `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Username == nil && p.Email == nil && p.ProfilePicture == nil
}

// TouchesIdentity reports whether the patch alters a unique field that must
// be checked against other users before saving.
func (p UserPatch) TouchesIdentity() bool {
	return p.Username != nil || p.Email != nil
}

// Apply copies the set fields onto the user record.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
}

// ProfilePatch lists the profile fields a user may change. PastWork replaces
// the whole ordered sequence when set.
type ProfilePatch struct {
	Bio             *string      `json:"bio,omitempty"`
	CurrentPosition *string      `json:"currentPosition,omitempty"`
	PastWork        *[]WorkEntry `json:"pastWork,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Bio == nil && p.CurrentPosition == nil && p.PastWork == nil
}

// Apply copies the set fields onto the profile record.
func (p ProfilePatch) Apply(pr *Profile) {
	if p.Bio != nil {
		pr.Bio = *p.Bio
	}
	if p.CurrentPosition != nil {
		pr.CurrentPosition = *p.CurrentPosition
	}
	if p.PastWork != nil {
		pr.PastWork = *p.PastWork
	}
}
