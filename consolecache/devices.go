package consolecache

import (
	"context"

	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/kyc"
	"github.com/veraxid/go-console-cache/service"
)

// ReviewDeviceInput names the device under review and the verdict.
type ReviewDeviceInput struct {
	DeviceID string
	Status   kyc.DeviceStatus
}

// Devices binds the fraud-signal device registry.
type Devices struct {
	store *cache.Store
	svc   service.Devices
	keys  DeviceKeys

	review *cache.Mutation[ReviewDeviceInput, kyc.Device]
}

func newDevices(store *cache.Store, svc service.Devices) (*Devices, error) {
	d := &Devices{store: store, svc: svc}

	var err error
	d.review, err = cache.NewMutation(store, cache.MutationConfig[ReviewDeviceInput, kyc.Device]{
		Run: func(ctx context.Context, in ReviewDeviceInput) (kyc.Device, error) {
			return svc.ReviewDevice(ctx, in.DeviceID, in.Status)
		},
		OnMutate: func(mc *cache.MutationContext, in ReviewDeviceInput) {
			cache.StagePresent(mc, d.keys.Detail(in.DeviceID), func(cur kyc.Device) kyc.Device {
				next := kyc.MustClone(cur)
				next.Status = in.Status
				return next
			})
		},
		Invalidates: func(in ReviewDeviceInput) []cache.Key {
			return []cache.Key{d.keys.Detail(in.DeviceID), d.keys.Lists()}
		},
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Keys exposes the family's key builder.
func (d *Devices) Keys() DeviceKeys { return d.keys }

// Detail returns the query for one device record.
func (d *Devices) Detail(id string) *cache.Query[kyc.Device] {
	return cache.NewQuery(d.store, d.keys.Detail(id), func(ctx context.Context) (kyc.Device, error) {
		return d.svc.Device(ctx, id)
	})
}

// List returns the query for one page of a filtered device listing.
func (d *Devices) List(filter kyc.DeviceFilter) *cache.Query[kyc.Page[kyc.Device]] {
	return cache.NewQuery(d.store, d.keys.List(filter), func(ctx context.Context) (kyc.Page[kyc.Device], error) {
		return d.svc.ListDevices(ctx, filter)
	})
}

// Review returns the device verdict mutation.
func (d *Devices) Review() *cache.Mutation[ReviewDeviceInput, kyc.Device] { return d.review }

// InvalidateAll marks everything cached for devices stale.
func (d *Devices) InvalidateAll() int { return d.store.Invalidate(d.keys.Root()) }
