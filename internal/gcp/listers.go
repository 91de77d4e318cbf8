package gcp

import (
	"context"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	computev1 "google.golang.org/api/compute/v1"
	"google.golang.org/api/iterator"
	"google.golang.org/protobuf/proto"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/resource"
)

type lister func(ctx context.Context, c *Compute) ([]resource.Record, error)

// drain collects every item of a list iterator.
func drain[T proto.Message](next func() (T, error)) ([]T, error) {
	var out []T
	for {
		item, err := next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		out = append(out, item)
	}
}

// drainAggregated flattens an aggregated list iterator; each pair holds
// the items of one zone or region.
func drainAggregated[P any, T proto.Message](next func() (P, error), items func(P) []T) ([]T, error) {
	var out []T
	for {
		pair, err := next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		out = append(out, items(pair)...)
	}
}

func drainRecords[T proto.Message](next func() (T, error)) ([]resource.Record, error) {
	items, err := drain(next)
	if err != nil {
		return nil, err
	}
	return protoRecords(items)
}

func aggregatedRecords[P any, T proto.Message](next func() (P, error), items func(P) []T) ([]resource.Record, error) {
	all, err := drainAggregated(next, items)
	if err != nil {
		return nil, err
	}
	return protoRecords(all)
}

var listers = map[string]lister{
	"instances": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewInstancesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListInstancesRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.InstancesScopedListPair) []*computepb.Instance {
			return p.Value.GetInstances()
		})
	},
	"disks": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewDisksRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListDisksRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.DisksScopedListPair) []*computepb.Disk {
			return p.Value.GetDisks()
		})
	},
	"diskTypes": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewDiskTypesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListDiskTypesRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.DiskTypesScopedListPair) []*computepb.DiskType {
			return p.Value.GetDiskTypes()
		})
	},
	"machineTypes": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewMachineTypesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListMachineTypesRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.MachineTypesScopedListPair) []*computepb.MachineType {
			return p.Value.GetMachineTypes()
		})
	},
	"targetInstances": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewTargetInstancesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListTargetInstancesRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.TargetInstancesScopedListPair) []*computepb.TargetInstance {
			return p.Value.GetTargetInstances()
		})
	},
	"addresses": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewAddressesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListAddressesRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.AddressesScopedListPair) []*computepb.Address {
			return p.Value.GetAddresses()
		})
	},
	"forwardingRules": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewForwardingRulesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListForwardingRulesRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.ForwardingRulesScopedListPair) []*computepb.ForwardingRule {
			return p.Value.GetForwardingRules()
		})
	},
	"targetPools": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewTargetPoolsRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListTargetPoolsRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.TargetPoolsScopedListPair) []*computepb.TargetPool {
			return p.Value.GetTargetPools()
		})
	},
	"operations": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewGlobalOperationsRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		it := client.AggregatedList(ctx, &computepb.AggregatedListGlobalOperationsRequest{Project: c.project})
		return aggregatedRecords(it.Next, func(p compute.OperationsScopedListPair) []*computepb.Operation {
			return p.Value.GetOperations()
		})
	},
	"globalAddresses": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewGlobalAddressesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListGlobalAddressesRequest{Project: c.project}).Next)
	},
	"globalForwardingRules": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewGlobalForwardingRulesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListGlobalForwardingRulesRequest{Project: c.project}).Next)
	},
	"firewalls": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewFirewallsRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListFirewallsRequest{Project: c.project}).Next)
	},
	"networks": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewNetworksRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListNetworksRequest{Project: c.project}).Next)
	},
	"routes": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewRoutesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListRoutesRequest{Project: c.project}).Next)
	},
	"images": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewImagesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListImagesRequest{Project: c.project}).Next)
	},
	"snapshots": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewSnapshotsRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListSnapshotsRequest{Project: c.project}).Next)
	},
	// The legacy health checks have no apiv1 client; they are only served by
	// the discovery-based REST package.
	"httpHealthChecks": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		svc, err := computev1.NewService(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		var items []*computev1.HttpHealthCheck
		err = svc.HttpHealthChecks.List(c.project).Pages(ctx, func(page *computev1.HttpHealthCheckList) error {
			items = append(items, page.Items...)
			return nil
		})
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		return structRecords(items)
	},
	"backendServices": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewBackendServicesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListBackendServicesRequest{Project: c.project}).Next)
	},
	"urlMaps": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewUrlMapsRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListUrlMapsRequest{Project: c.project}).Next)
	},
	"targetHttpProxies": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewTargetHttpProxiesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListTargetHttpProxiesRequest{Project: c.project}).Next)
	},
	"zones": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewZonesRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListZonesRequest{Project: c.project}).Next)
	},
	"regions": func(ctx context.Context, c *Compute) ([]resource.Record, error) {
		client, err := compute.NewRegionsRESTClient(ctx, c.opts...)
		if err != nil {
			return nil, apperrors.ProviderAPIError("Compute Engine", err)
		}
		defer client.Close()
		return drainRecords(client.List(ctx, &computepb.ListRegionsRequest{Project: c.project}).Next)
	},
}
