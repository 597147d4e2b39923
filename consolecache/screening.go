package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// RunScreeningInput names the applicant to screen and which watchlist kind
// to run.
type RunScreeningInput struct {
	ApplicantID string
	Kind        kyc.CheckKind
}

// ResolveHitInput carries everything the console page knows about the hit
// being resolved, so the binding can stage the page on screen and
// invalidate the records the verdict touches.
type ResolveHitInput struct {
	HitID       string
	CheckID     string
	ApplicantID string
	Resolution  kyc.HitResolution

	// Filter is the hit page currently on screen; its cached page gets
	// the optimistic verdict. Other cached pages of the same check
	// converge through settle-time invalidation.
	Filter kyc.HitFilter
}

// Screening binds the watchlist family: check and hit reads, screening
// runs, hit resolution and the convergence watch for processing checks.
type Screening struct {
	store         *cache.Store
	svc           service.Screening
	keys          ScreeningKeys
	applicantKeys ApplicantKeys

	run     *cache.Mutation[RunScreeningInput, kyc.ScreeningCheck]
	resolve *cache.Mutation[ResolveHitInput, kyc.ScreeningHit]
}

func newScreening(store *cache.Store, svc service.Screening) (*Screening, error) {
	s := &Screening{store: store, svc: svc}

	var err error
	s.run, err = cache.NewMutation(store, cache.MutationConfig[RunScreeningInput, kyc.ScreeningCheck]{
		Run: func(ctx context.Context, in RunScreeningInput) (kyc.ScreeningCheck, error) {
			return svc.RunScreening(ctx, in.ApplicantID, in.Kind)
		},
		OnSuccess: func(in RunScreeningInput, out kyc.ScreeningCheck) {
			s.CheckDetail(out.ID).Prime(out)
		},
		Invalidates: func(in RunScreeningInput) []cache.Key {
			return []cache.Key{s.keys.ForApplicant(in.ApplicantID)}
		},
	})
	if err != nil {
		return nil, err
	}

	s.resolve, err = cache.NewMutation(store, cache.MutationConfig[ResolveHitInput, kyc.ScreeningHit]{
		Run: func(ctx context.Context, in ResolveHitInput) (kyc.ScreeningHit, error) {
			return svc.ResolveHit(ctx, in.HitID, in.Resolution)
		},
		OnMutate: func(mc *cache.MutationContext, in ResolveHitInput) {
			key := s.keys.Hits(in.CheckID, in.Filter)
			cache.StagePresent(mc, key, func(cur kyc.Page[kyc.ScreeningHit]) kyc.Page[kyc.ScreeningHit] {
				next := kyc.MustClone(cur)
				for i := range next.Items {
					if next.Items[i].ID == in.HitID {
						next.Items[i].Resolution = in.Resolution
					}
				}
				return next
			})
		},
		Invalidates: func(in ResolveHitInput) []cache.Key {
			// The check prefix covers the check record and every cached
			// hit page beneath it. The applicant detail carries derived
			// risk that a verdict can move.
			return []cache.Key{
				s.keys.Check(in.CheckID),
				s.applicantKeys.Detail(in.ApplicantID),
			}
		},
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Keys exposes the family's key builder.
func (s *Screening) Keys() ScreeningKeys { return s.keys }

// CheckDetail returns the query for one check record.
func (s *Screening) CheckDetail(id string) *cache.Query[kyc.ScreeningCheck] {
	return cache.NewQuery(s.store, s.keys.Check(id), func(ctx context.Context) (kyc.ScreeningCheck, error) {
		return s.svc.Check(ctx, id)
	})
}

// ChecksFor returns the query for one applicant's checks.
func (s *Screening) ChecksFor(applicantID string) *cache.Query[[]kyc.ScreeningCheck] {
	return cache.NewQuery(s.store, s.keys.ForApplicant(applicantID), func(ctx context.Context) ([]kyc.ScreeningCheck, error) {
		return s.svc.ChecksForApplicant(ctx, applicantID)
	})
}

// Hits returns the query for one page of a check's hit listing.
func (s *Screening) Hits(checkID string, filter kyc.HitFilter) *cache.Query[kyc.Page[kyc.ScreeningHit]] {
	return cache.NewQuery(s.store, s.keys.Hits(checkID, filter), func(ctx context.Context) (kyc.Page[kyc.ScreeningHit], error) {
		return s.svc.Hits(ctx, checkID, filter)
	})
}

// Run returns the screening launch mutation. The created check is primed
// into the cache on success so opening it costs no fetch.
func (s *Screening) Run() *cache.Mutation[RunScreeningInput, kyc.ScreeningCheck] { return s.run }

// ResolveHit returns the hit verdict mutation.
func (s *Screening) ResolveHit() *cache.Mutation[ResolveHitInput, kyc.ScreeningHit] {
	return s.resolve
}

// WatchCheck polls one check until it reaches a terminal status. Every poll
// stores the fetched check, so queries and subscribers on the same key see
// live progress.
func (s *Screening) WatchCheck(id string, w WatchConfig[kyc.ScreeningCheck]) (*cache.Poller[kyc.ScreeningCheck], error) {
	return cache.NewPoller(s.store, cache.PollConfig[kyc.ScreeningCheck]{
		Key: s.keys.Check(id),
		Fetch: func(ctx context.Context) (kyc.ScreeningCheck, error) {
			return s.svc.Check(ctx, id)
		},
		Terminal:   kyc.ScreeningCheck.Terminal,
		Interval:   w.Interval,
		OnUpdate:   w.OnUpdate,
		OnComplete: w.OnComplete,
		OnError:    w.OnError,
	})
}

// InvalidateAll marks everything cached for screening stale.
func (s *Screening) InvalidateAll() int { return s.store.Invalidate(s.keys.Root()) }
