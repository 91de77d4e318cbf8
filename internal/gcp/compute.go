package gcp

import (
	"context"
	"fmt"
	"sort"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/proto"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/pkg/logger"
	"github.com/pratik-mahalle/gcli/internal/resource"
	"github.com/pratik-mahalle/gcli/internal/scope"
)

// Compute talks to the Compute Engine v1 REST API. Clients are created per
// call and closed before returning.
type Compute struct {
	project string
	opts    []option.ClientOption
	waiter  *Waiter
	log     *logger.Logger
}

// NewCompute returns an adapter for project.
func NewCompute(project string, creds Credentials, waiter *Waiter, log *logger.Logger) *Compute {
	if log == nil {
		log = logger.Nop()
	}
	if waiter == nil {
		waiter = NewWaiter(0, nil)
	}
	return &Compute{
		project: project,
		opts:    creds.ClientOptions(),
		waiter:  waiter,
		log:     log.With("api", "compute"),
	}
}

// Project is the default project of the adapter.
func (c *Compute) Project() string {
	return c.project
}

// ScopeChoices lists zone or region names. A prefix limits the zones to
// one region.
func (c *Compute) ScopeChoices(ctx context.Context, kind scope.Kind, prefix string) ([]string, error) {
	var filter *string
	if prefix != "" {
		filter = proto.String(fmt.Sprintf("name eq %s.*", prefix))
	}

	switch kind {
	case scope.Zone:
		client, err := compute.NewZonesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		zones, err := drain(client.List(ctx, &computepb.ListZonesRequest{Project: c.project, Filter: filter}).Next)
		if err != nil {
			return nil, err
		}
		return lo.Map(zones, func(z *computepb.Zone, _ int) string { return z.GetName() }), nil
	case scope.Region:
		client, err := compute.NewRegionsRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		regions, err := drain(client.List(ctx, &computepb.ListRegionsRequest{Project: c.project, Filter: filter}).Next)
		if err != nil {
			return nil, err
		}
		return lo.Map(regions, func(r *computepb.Region, _ int) string { return r.GetName() }), nil
	default:
		return nil, apperrors.Config(fmt.Sprintf("no choices for scope %q", kind), nil)
	}
}

// List returns every resource of a listable type across all scopes.
func (c *Compute) List(ctx context.Context, resourceType string) ([]resource.Record, error) {
	lister, ok := listers[resourceType]
	if !ok {
		return nil, apperrors.UnknownResourceType(resourceType)
	}
	c.log.Debugf("listing %s in %s", resourceType, c.project)
	return lister(ctx, c)
}

// Listable names the resource types List supports.
func Listable() []string {
	names := lo.Keys(listers)
	sort.Strings(names)
	return names
}

// GetAddress fetches a regional or global address.
func (c *Compute) GetAddress(ctx context.Context, ref *scope.Reference) (resource.Record, error) {
	if err := scope.RequireResolved(ref); err != nil {
		return nil, err
	}
	if ref.Scope == scope.Global {
		client, err := compute.NewGlobalAddressesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		addr, err := client.Get(ctx, &computepb.GetGlobalAddressRequest{Project: ref.Project, Address: ref.Name})
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		return ProtoRecord(addr)
	}

	client, err := compute.NewAddressesRESTClient(ctx, c.opts...)
	if err != nil {
		return nil, apperrors.ProviderAPIError("Compute Engine", err)
	}
	defer client.Close()
	addr, err := client.Get(ctx, &computepb.GetAddressRequest{Project: ref.Project, Region: ref.Region(), Address: ref.Name})
	if err != nil {
		return nil, apperrors.ProviderAPIError("Compute Engine", err)
	}
	return ProtoRecord(addr)
}

// GetBackendService fetches a backend service.
func (c *Compute) GetBackendService(ctx context.Context, ref *scope.Reference) (*computepb.BackendService, error) {
	if err := scope.RequireResolved(ref); err != nil {
		return nil, err
	}
	client, err := compute.NewBackendServicesRESTClient(ctx, c.opts...)
	if err != nil {
		return nil, apperrors.ProviderAPIError("Compute Engine", err)
	}
	defer client.Close()
	bs, err := client.Get(ctx, &computepb.GetBackendServiceRequest{Project: ref.Project, BackendService: ref.Name})
	if err != nil {
		return nil, apperrors.ProviderAPIError("Compute Engine", err)
	}
	return bs, nil
}

// UpdateBackendService replaces a backend service and waits for the
// operation.
func (c *Compute) UpdateBackendService(ctx context.Context, ref *scope.Reference, bs *computepb.BackendService) error {
	if err := scope.RequireResolved(ref); err != nil {
		return err
	}
	client, err := compute.NewBackendServicesRESTClient(ctx, c.opts...)
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	defer client.Close()
	op, err := client.Update(ctx, &computepb.UpdateBackendServiceRequest{
		Project:                ref.Project,
		BackendService:         ref.Name,
		BackendServiceResource: bs,
		RequestId:              proto.String(uuid.NewString()),
	})
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	return c.wait(ctx, op, fmt.Sprintf("Updating backend service [%s]", ref.Name))
}

// ResetInstance hard-resets an instance and waits for the operation.
func (c *Compute) ResetInstance(ctx context.Context, ref *scope.Reference) error {
	if err := scope.RequireResolved(ref); err != nil {
		return err
	}
	client, err := compute.NewInstancesRESTClient(ctx, c.opts...)
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	defer client.Close()
	op, err := client.Reset(ctx, &computepb.ResetInstanceRequest{
		Project:   ref.Project,
		Zone:      ref.Zone(),
		Instance:  ref.Name,
		RequestId: proto.String(uuid.NewString()),
	})
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	return c.wait(ctx, op, fmt.Sprintf("Resetting instance [%s]", ref.Name))
}

// GetOperation fetches a global, regional or zonal operation.
func (c *Compute) GetOperation(ctx context.Context, ref *scope.Reference) (resource.Record, error) {
	if err := scope.RequireResolved(ref); err != nil {
		return nil, err
	}
	var (
		op  *computepb.Operation
		err error
	)
	switch ref.Scope {
	case scope.Zone:
		var client *compute.ZoneOperationsClient
		if client, err = compute.NewZoneOperationsRESTClient(ctx, c.opts...); err == nil {
			defer client.Close()
			op, err = client.Get(ctx, &computepb.GetZoneOperationRequest{Project: ref.Project, Zone: ref.Zone(), Operation: ref.Name})
		}
	case scope.Region:
		var client *compute.RegionOperationsClient
		if client, err = compute.NewRegionOperationsRESTClient(ctx, c.opts...); err == nil {
			defer client.Close()
			op, err = client.Get(ctx, &computepb.GetRegionOperationRequest{Project: ref.Project, Region: ref.Region(), Operation: ref.Name})
		}
	default:
		var client *compute.GlobalOperationsClient
		if client, err = compute.NewGlobalOperationsRESTClient(ctx, c.opts...); err == nil {
			defer client.Close()
			op, err = client.Get(ctx, &computepb.GetGlobalOperationRequest{Project: ref.Project, Operation: ref.Name})
		}
	}
	if err != nil {
		return nil, apperrors.ProviderAPIError("Compute Engine", err)
	}
	return ProtoRecord(op)
}

// DeleteForwardingRules deletes regional or global forwarding rules one
// after the other.
func (c *Compute) DeleteForwardingRules(ctx context.Context, refs []*scope.Reference) error {
	if err := scope.RequireResolved(refs...); err != nil {
		return err
	}
	regional, err := compute.NewForwardingRulesRESTClient(ctx, c.opts...)
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	defer regional.Close()
	global, err := compute.NewGlobalForwardingRulesRESTClient(ctx, c.opts...)
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	defer global.Close()

	for _, ref := range refs {
		var op *compute.Operation
		if ref.Scope == scope.Global {
			op, err = global.Delete(ctx, &computepb.DeleteGlobalForwardingRuleRequest{
				Project:        ref.Project,
				ForwardingRule: ref.Name,
				RequestId:      proto.String(uuid.NewString()),
			})
		} else {
			op, err = regional.Delete(ctx, &computepb.DeleteForwardingRuleRequest{
				Project:        ref.Project,
				Region:         ref.Region(),
				ForwardingRule: ref.Name,
				RequestId:      proto.String(uuid.NewString()),
			})
		}
		if err != nil {
			return apperrors.ProviderAPIError("Compute Engine", err)
		}
		if err := c.wait(ctx, op, fmt.Sprintf("Deleting forwarding rule [%s]", ref.Name)); err != nil {
			return err
		}
	}
	return nil
}

// AddInstancesToTargetPool adds instances to a regional target pool. The
// instances must live in the pool's region.
func (c *Compute) AddInstancesToTargetPool(ctx context.Context, pool *scope.Reference, instances []*scope.Reference) error {
	if err := scope.RequireResolved(append([]*scope.Reference{pool}, instances...)...); err != nil {
		return err
	}
	for _, inst := range instances {
		if inst.Region() != pool.Region() {
			return apperrors.Tool("Instances must all be in the same region as the target pool.")
		}
	}

	client, err := compute.NewTargetPoolsRESTClient(ctx, c.opts...)
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	defer client.Close()
	op, err := client.AddInstance(ctx, &computepb.AddInstanceTargetPoolRequest{
		Project:    pool.Project,
		Region:     pool.Region(),
		TargetPool: pool.Name,
		TargetPoolsAddInstanceRequestResource: &computepb.TargetPoolsAddInstanceRequest{
			Instances: lo.Map(instances, func(r *scope.Reference, _ int) *computepb.InstanceReference {
				return &computepb.InstanceReference{Instance: proto.String(r.SelfLink())}
			}),
		},
		RequestId: proto.String(uuid.NewString()),
	})
	if err != nil {
		return apperrors.ProviderAPIError("Compute Engine", err)
	}
	return c.wait(ctx, op, fmt.Sprintf("Adding instances to target pool [%s]", pool.Name))
}

func (c *Compute) wait(ctx context.Context, op *compute.Operation, description string) error {
	return c.waiter.Wait(ctx, description, func(ctx context.Context) (bool, []string, error) {
		if !op.Done() {
			if err := op.Poll(ctx); err != nil && !op.Done() {
				return false, nil, apperrors.ProviderAPIError("Compute Engine", err)
			}
		}
		if !op.Done() {
			return false, nil, nil
		}
		var errs []string
		for _, e := range op.Proto().GetError().GetErrors() {
			errs = append(errs, e.GetMessage())
		}
		return true, errs, nil
	})
}
