package rewards

import "strings"

// TierResolver maps a user to the display multiplier applied to their balance.
type TierResolver interface {
	Multiplier(user *User) float64
}

// EmailTierResolver treats accounts whose email contains "premium" or "vip"
// as premium tier. The substring match is case-sensitive on purpose, for
// compatibility with existing accounts.
// TODO: replace with an entitlement lookup once a user roles system exists.
type EmailTierResolver struct{}

func (EmailTierResolver) Multiplier(user *User) float64 {
	if strings.Contains(user.Email, "premium") || strings.Contains(user.Email, "vip") {
		return 1.5
	}
	return 1.0
}
