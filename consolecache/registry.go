package consolecache

import (
	"errors"
	"fmt"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/service"
)

// Registry aggregates every resource family against one store. It is the
// root object an embedding console builds at login and resets at logout.
type Registry struct {
	store *cache.Store

	Applicants *Applicants
	Companies  *Companies
	Screening  *Screening
	Cases      *Cases
	Documents  *Documents
	Webhooks   *Webhooks
	Devices    *Devices
	Audit      *AuditLog
	Team       *Team
	Settings   *SettingsCache
}

// New wires every family in svcs against store. Every family must be
// present; a console with half its surface unbound is a wiring bug, not a
// configuration.
func New(store *cache.Store, svcs service.Services) (*Registry, error) {
	if store == nil {
		return nil, errors.New("consolecache: store is required")
	}
	if err := checkServices(svcs); err != nil {
		return nil, err
	}

	r := &Registry{store: store}

	var err error
	if r.Applicants, err = newApplicants(store, svcs.Applicants); err != nil {
		return nil, err
	}
	if r.Companies, err = newCompanies(store, svcs.Companies); err != nil {
		return nil, err
	}
	if r.Screening, err = newScreening(store, svcs.Screening); err != nil {
		return nil, err
	}
	if r.Cases, err = newCases(store, svcs.Cases); err != nil {
		return nil, err
	}
	if r.Documents, err = newDocuments(store, svcs.Documents); err != nil {
		return nil, err
	}
	if r.Webhooks, err = newWebhooks(store, svcs.Webhooks); err != nil {
		return nil, err
	}
	if r.Devices, err = newDevices(store, svcs.Devices); err != nil {
		return nil, err
	}
	r.Audit = newAuditLog(store, svcs.Audit)
	if r.Team, err = newTeam(store, svcs.Team); err != nil {
		return nil, err
	}
	if r.Settings, err = newSettingsCache(store, svcs.Settings); err != nil {
		return nil, err
	}

	return r, nil
}

func checkServices(svcs service.Services) error {
	missing := ""
	switch {
	case svcs.Applicants == nil:
		missing = "Applicants"
	case svcs.Companies == nil:
		missing = "Companies"
	case svcs.Screening == nil:
		missing = "Screening"
	case svcs.Cases == nil:
		missing = "Cases"
	case svcs.Documents == nil:
		missing = "Documents"
	case svcs.Webhooks == nil:
		missing = "Webhooks"
	case svcs.Devices == nil:
		missing = "Devices"
	case svcs.Audit == nil:
		missing = "Audit"
	case svcs.Team == nil:
		missing = "Team"
	case svcs.Settings == nil:
		missing = "Settings"
	}
	if missing != "" {
		return fmt.Errorf("consolecache: %s service is required", missing)
	}
	return nil
}

// Store exposes the underlying store for embedders that subscribe to keys
// or read metrics directly.
func (r *Registry) Store() *cache.Store { return r.store }

// Reset drops every cached record and cancels every in-flight fetch. Call
// it on logout; nothing cached before the reset is served after it.
func (r *Registry) Reset() { r.store.Reset() }

// InvalidateAll marks every cached record stale without dropping values.
func (r *Registry) InvalidateAll() int { return r.store.InvalidateAll() }
