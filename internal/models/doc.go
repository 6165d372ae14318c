// Package models defines the core domain models for Bonuswiser.
//
// # Models
//
//   - Purchase / LineItem: read-mostly order data owned by the order-sync collaborator
//   - Customer: the owner of purchases, drafts and bonus groups
//   - Bundle: one or more purchases treated as a single accounting unit
//   - Draft: a customer's uncommitted list of bundles (no monetary commitment)
//   - BonusGroup: a committed set of bundles with a snapshotted discount rate
//   - Settings: the global bonus program configuration
//
// # Design Principles
//
// 1. **Money in cents**: every monetary amount is an int64 of minor units
// 2. **Owned collections**: a group owns its bundles; a bundle's index is its
//    position in BonusGroup.Bundles, so indices never drift from membership
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
// 4. **Derived values are not stored**: eligible amounts and redeemability are
//    computed on every read, only TotalDiscount is cached on the group
package models
