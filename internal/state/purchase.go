package state

import (
	"context"
	"fmt"

	"studypoints/pkg/client"
	"studypoints/pkg/domain"
)

// PurchaseController validates affordability locally, issues the purchase,
// and reconciles the balance from the server afterward. The cached balance
// is only a cheap pre-filter; the server stays the sole authority.
type PurchaseController struct {
	store *Store
}

// NewPurchaseController creates a purchase controller over the store.
func NewPurchaseController(store *Store) *PurchaseController {
	return &PurchaseController{store: store}
}

// Buy purchases the given reward. When the cached balance cannot cover
// the cost, the purchase is rejected locally without contacting the
// server. No optimistic decrement is ever applied: after a successful
// purchase the balance is re-fetched.
func (c *PurchaseController) Buy(ctx context.Context, reward domain.Reward) error {
	username, ok := c.store.currentUsername()
	if !ok {
		c.store.setStatus(noSessionMsg, true)
		return ErrNoSession
	}
	if c.store.cachedPoints() < reward.Cost {
		c.store.setStatus(fmt.Sprintf("not enough points for %q — it costs %d", reward.Name, reward.Cost), true)
		return ErrInsufficientPoints
	}
	if !c.store.begin(opPurchase) {
		return ErrBusy
	}
	defer c.store.end(opPurchase)

	name, err := c.store.api.BuyReward(ctx, username, reward.ID)
	if err != nil {
		c.store.setStatus(client.Reason(err, purchaseFallback), true)
		return err
	}

	if name == "" {
		name = reward.Name
	}
	if name == "" {
		name = "reward"
	}
	c.store.setStatus(fmt.Sprintf("%q purchased — enjoy", name), false)

	c.store.RefreshPoints(ctx) //nolint:errcheck // failure is already surfaced as status
	return nil
}
