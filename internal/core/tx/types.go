package tx

import "fmt"

// Type represents a transaction type code
type Type uint16

const (
	TypeInvalid Type = 0xFFFF // Invalid/unknown type

	// Collaborator ledgers
	TypePayment             Type = 0
	TypeTokenApprove        Type = 1
	TypeSetOperatorApproval Type = 2
	TypeOfferLegacyItem     Type = 3

	// Liquidity pool
	TypeOwnerDeposit     Type = 10
	TypeOwnerWithdraw    Type = 11
	TypeGrantCoordinator Type = 12

	// Swap registry
	TypeProposeSwap   Type = 20
	TypeMatchSwap     Type = 21
	TypeAcceptSwap    Type = 22
	TypeWithdrawMatch Type = 23

	// Stake market
	TypeCreateOrder  Type = 30
	TypeCancelOrder  Type = 31
	TypeClaimRevenue Type = 32
	TypeBuyOrder     Type = 33
	TypePauseMarket  Type = 34
	TypeResumeMarket Type = 35
)

var typeNames = map[Type]string{
	TypePayment:             "Payment",
	TypeTokenApprove:        "TokenApprove",
	TypeSetOperatorApproval: "SetOperatorApproval",
	TypeOfferLegacyItem:     "OfferLegacyItem",
	TypeOwnerDeposit:        "OwnerDeposit",
	TypeOwnerWithdraw:       "OwnerWithdraw",
	TypeGrantCoordinator:    "GrantCoordinator",
	TypeProposeSwap:         "ProposeSwap",
	TypeMatchSwap:           "MatchSwap",
	TypeAcceptSwap:          "AcceptSwap",
	TypeWithdrawMatch:       "WithdrawMatch",
	TypeCreateOrder:         "CreateOrder",
	TypeCancelOrder:         "CancelOrder",
	TypeClaimRevenue:        "ClaimRevenue",
	TypeBuyOrder:            "BuyOrder",
	TypePauseMarket:         "PauseMarket",
	TypeResumeMarket:        "ResumeMarket",
}

var typeNameMap = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the transaction type name
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the transaction type for a given name
func TypeFromName(name string) (Type, bool) {
	t, ok := typeNameMap[name]
	return t, ok
}
