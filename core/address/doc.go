// Package address canonicalizes free-form US street addresses so that strings
// produced by unrelated data providers can be compared by equality.
//
// # Normalization
//
// Normalize applies an ordered list of rewrite passes:
//
//  1. Lowercase, trim and collapse internal whitespace.
//  2. Strip '.', ',' and '#'.
//  3. Unify highway naming ("highway 17 n" and "sc-17" both become "hwy 17") and drop
//     directional qualifiers that sit next to "hwy".
//  4. Abbreviate street types (street -> st, avenue -> ave, ...).
//  5. Abbreviate directionals (north -> n, ...).
//  6. Collapse whitespace again.
//
// Every pass only matches on word boundaries so that substrings such as "courtney"
// or "stlane" are left alone. The function is pure, deterministic and idempotent:
//
//	address.Normalize("123 North Main Street") == address.Normalize("123 N Main St")
//
// StripCountry and StreetPart are helpers for the formatted addresses returned by
// places providers ("123 Main St, Springfield, IL 12345, United States").
package address
