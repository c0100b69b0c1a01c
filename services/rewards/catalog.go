package rewards

// rewardCatalog is the static redemption catalog. Order and values are part
// of the API contract.
var rewardCatalog = []RewardOption{
	{
		Type:           "cashback",
		Name:           "Cashback",
		Description:    "Redeem points for cashback to your account",
		PointsRequired: 1000,
		Value:          10,
	},
	{
		Type:           "voucher",
		Name:           "Gift Voucher",
		Description:    "Redeem points for gift vouchers",
		PointsRequired: 500,
		Value:          5,
	},
	{
		Type:           "gift_card",
		Name:           "Gift Card",
		Description:    "Redeem points for gift cards from popular retailers",
		PointsRequired: 2000,
		Value:          20,
	},
}

// RewardOptions returns the redemption catalog in its fixed order.
func (s *Service) RewardOptions() []RewardOption {
	options := make([]RewardOption, len(rewardCatalog))
	copy(options, rewardCatalog)
	return options
}
