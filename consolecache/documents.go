package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// RequestAnalysisInput names the document to analyze and the applicant it
// belongs to, so the applicant's document listing can be invalidated too.
type RequestAnalysisInput struct {
	DocumentID  string
	ApplicantID string
}

// Documents binds the document family: reads, extraction requests and the
// convergence watch for running analyses.
type Documents struct {
	store *cache.Store
	svc   service.Documents
	keys  DocumentKeys

	request *cache.Mutation[RequestAnalysisInput, kyc.Document]
}

func newDocuments(store *cache.Store, svc service.Documents) (*Documents, error) {
	d := &Documents{store: store, svc: svc}

	var err error
	d.request, err = cache.NewMutation(store, cache.MutationConfig[RequestAnalysisInput, kyc.Document]{
		Run: func(ctx context.Context, in RequestAnalysisInput) (kyc.Document, error) {
			return svc.RequestAnalysis(ctx, in.DocumentID)
		},
		OnMutate: func(mc *cache.MutationContext, in RequestAnalysisInput) {
			cache.StagePresent(mc, d.keys.Detail(in.DocumentID), func(cur kyc.Document) kyc.Document {
				next := kyc.MustClone(cur)
				next.Analysis = &kyc.DocumentAnalysis{Status: kyc.AnalysisQueued}
				return next
			})
		},
		Invalidates: func(in RequestAnalysisInput) []cache.Key {
			return []cache.Key{d.keys.Detail(in.DocumentID), d.keys.ForApplicant(in.ApplicantID)}
		},
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Keys exposes the family's key builder.
func (d *Documents) Keys() DocumentKeys { return d.keys }

// Detail returns the query for one document record.
func (d *Documents) Detail(id string) *cache.Query[kyc.Document] {
	return cache.NewQuery(d.store, d.keys.Detail(id), func(ctx context.Context) (kyc.Document, error) {
		return d.svc.Document(ctx, id)
	})
}

// ForApplicant returns the query for one applicant's documents.
func (d *Documents) ForApplicant(applicantID string) *cache.Query[[]kyc.Document] {
	return cache.NewQuery(d.store, d.keys.ForApplicant(applicantID), func(ctx context.Context) ([]kyc.Document, error) {
		return d.svc.DocumentsForApplicant(ctx, applicantID)
	})
}

// RequestAnalysis returns the extraction request mutation. Its optimistic
// write marks the cached document's analysis as queued.
func (d *Documents) RequestAnalysis() *cache.Mutation[RequestAnalysisInput, kyc.Document] {
	return d.request
}

// WatchAnalysis polls one document until its analysis reaches a terminal
// status. A document with no analysis attached is not terminal.
func (d *Documents) WatchAnalysis(id string, w WatchConfig[kyc.Document]) (*cache.Poller[kyc.Document], error) {
	return cache.NewPoller(d.store, cache.PollConfig[kyc.Document]{
		Key: d.keys.Detail(id),
		Fetch: func(ctx context.Context) (kyc.Document, error) {
			return d.svc.Document(ctx, id)
		},
		Terminal: func(doc kyc.Document) bool {
			return doc.Analysis != nil && doc.Analysis.Terminal()
		},
		Interval:   w.Interval,
		OnUpdate:   w.OnUpdate,
		OnComplete: w.OnComplete,
		OnError:    w.OnError,
	})
}

// InvalidateAll marks everything cached for documents stale.
func (d *Documents) InvalidateAll() int { return d.store.Invalidate(d.keys.Root()) }
