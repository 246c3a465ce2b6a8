package permissions

// Capabilities is the set of member rights applied in one restrict call.
type Capabilities struct {
	SendMessages       bool
	SendMedia          bool
	SendPolls          bool
	SendOther          bool
	AddWebPagePreviews bool
	ChangeInfo         bool
	InviteUsers        bool
	PinMessages        bool
}

// MutedPermissions revokes every communication right.
func MutedPermissions() Capabilities {
	return Capabilities{}
}

// DefaultPermissions restores ordinary member rights. Changing chat info and
// pinning stay with administrators.
func DefaultPermissions() Capabilities {
	return Capabilities{
		SendMessages:       true,
		SendMedia:          true,
		SendPolls:          true,
		SendOther:          true,
		AddWebPagePreviews: true,
		InviteUsers:        true,
	}
}
