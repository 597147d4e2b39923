// Package consolecache binds the cache primitives to the compliance
// service surface, one binding per resource family.
//
// # Overview
//
// The cache package knows nothing about applicants or screening checks; it
// stores opaque values under hierarchical keys. This package supplies the
// domain wiring: for each resource family (applicants, companies, screening,
// cases, documents, webhooks, devices, audit, team, settings) there is a
// binding that owns the family's key hierarchy, its queries and its
// mutations. The Registry aggregates all bindings against one Store.
//
// # Key Hierarchy
//
// Every family lives under a namespace derived from its entity type name,
// pluralized and snake_cased: kyc.ScreeningCheck becomes "screening_checks".
// Beneath the namespace the shapes are uniform:
//
//	applicants::detail::<id>        one record
//	applicants::list::<filter>      one page of a filtered listing
//	screening_checks::detail::<id>::hits::<filter>
//
// Hit pages are nested under their check's detail key on purpose: resolving
// a hit invalidates the check subtree, which covers the check record and
// every cached hit page in one prefix.
//
// # Usage
//
//	store := cache.NewDefaultStore()
//	reg, err := consolecache.New(store, svcs)
//	if err != nil {
//		return err
//	}
//
//	res, err := reg.Applicants.Detail("apl_1001").Get(ctx)
//	out, err := reg.Applicants.Approve().Do(ctx, "apl_1001")
//
// Mutations are built once at construction and returned by accessor
// methods, so Pending counts observed on a mutation cover every call site.
//
// # Session Boundary
//
// Registry.Reset clears the whole store. Call it on logout; bindings built
// on the store remain valid and start cold afterwards.
package consolecache
