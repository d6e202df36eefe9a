// Package assetregistry tracks which asset ids exist, who owns each, and the
// per-owner enumeration index, plus the base metadata locator used to derive
// per-asset resource locators.
//
// Ownership mutation is only reachable through the marketplace engine; this
// module enforces mint uniqueness and transfer integrity at the assignment
// step regardless of what the caller already checked.
package assetregistry
