package cli

import (
	"fmt"
	"strings"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/pratik-mahalle/gcli/internal/gcp"
	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/pkg/validator"
	"github.com/pratik-mahalle/gcli/internal/resource"
	"github.com/pratik-mahalle/gcli/internal/scope"
)

func newComputeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Read and manipulate Compute Engine resources",
	}

	groups := map[string]*cobra.Command{}
	group := func(resourceType string) *cobra.Command {
		use := kebab(resourceType)
		if g, ok := groups[use]; ok {
			return g
		}
		g := &cobra.Command{
			Use:   use,
			Short: fmt.Sprintf("Read and manipulate %s", scope.FriendlyName(resourceType)),
		}
		groups[use] = g
		cmd.AddCommand(g)
		return g
	}

	for _, resourceType := range gcp.Listable() {
		group(resourceType).AddCommand(newComputeListCmd(a, resourceType))
	}
	group("addresses").AddCommand(newAddressesDescribeCmd(a))
	group("backendServices").AddCommand(newBackendServicesUpdateCmd(a))
	group("instances").AddCommand(newInstancesResetCmd(a))
	group("operations").AddCommand(newOperationsDescribeCmd(a))
	group("forwardingRules").AddCommand(newForwardingRulesDeleteCmd(a))
	group("targetPools").AddCommand(newTargetPoolsAddInstancesCmd(a))

	return cmd
}

// kebab turns "backendServices" into "backend-services".
func kebab(resourceType string) string {
	return strings.ReplaceAll(scope.FriendlyName(resourceType), " ", "-")
}

func newComputeListCmd(a *app, resourceType string) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "list [NAME...]",
		Short: fmt.Sprintf("List %s", scope.FriendlyName(resourceType)),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.registry.Get(resourceType)
			if err != nil {
				return err
			}
			parsed, err := resource.ParseFilters(spec, filters)
			if err != nil {
				return err
			}

			records, err := a.compute.List(cmd.Context(), resourceType)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				records = lo.Filter(records, func(r resource.Record, _ int) bool {
					name, _ := r["name"].(string)
					return lo.Contains(args, name)
				})
			}
			records = resource.FilterRecords(spec, records, parsed)
			a.log.Debugf("%d %s after filtering", len(records), resourceType)
			return a.printRecords(cmd.OutOrStdout(), spec, records)
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "FIELD=GLOB; keep resources whose field matches (repeatable)")
	return cmd
}

func newAddressesDescribeCmd(a *app) *cobra.Command {
	var (
		region string
		global bool
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "describe NAME",
		Short: "Describe an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ref      *scope.Reference
				specName = "addresses"
				err      error
			)
			if global {
				specName = "globalAddresses"
				ref, err = a.resolver.GlobalReference(args[0], "addresses")
			} else {
				ref, err = a.resolver.RegionalReference(cmd.Context(), args[0], region, "addresses")
			}
			if err != nil {
				return err
			}
			spec, err := a.registry.Get(specName)
			if err != nil {
				return err
			}
			record, err := a.compute.GetAddress(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return a.describe(cmd.OutOrStdout(), spec, record, fields)
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region of the address")
	cmd.Flags().BoolVar(&global, "global", false, "the address is global")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to print, e.g. address,status")
	cmd.MarkFlagsMutuallyExclusive("region", "global")
	return cmd
}

type backendServiceUpdate struct {
	Description     string `flag:"description"`
	HTTPHealthCheck string `flag:"http-health-check"`
	Timeout         int    `flag:"timeout" validate:"gte=0"`
	Port            int    `flag:"port" validate:"omitempty,min=1,max=65535"`
	PortName        string `flag:"port-name" validate:"omitempty,rfc1035"`
}

func newBackendServicesUpdateCmd(a *app) *cobra.Command {
	var opts backendServiceUpdate

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a backend service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.New().Check(opts); err != nil {
				return err
			}
			flags := cmd.Flags()
			// A zero port or empty health check / port name modifies nothing.
			if !flags.Changed("description") && !flags.Changed("timeout") &&
				opts.HTTPHealthCheck == "" && opts.Port == 0 && opts.PortName == "" {
				return apperrors.Tool("At least one property must be modified.")
			}

			spec, err := a.registry.Get("backendServices")
			if err != nil {
				return err
			}
			ref, err := a.resolver.GlobalReference(args[0], "backendServices")
			if err != nil {
				return err
			}

			var patch resource.Patch
			if flags.Changed("description") {
				if opts.Description == "" {
					patch.Set("description", nil)
				} else {
					patch.Set("description", opts.Description)
				}
			}
			if opts.HTTPHealthCheck != "" {
				hc, err := a.resolver.GlobalReference(opts.HTTPHealthCheck, "httpHealthChecks")
				if err != nil {
					return err
				}
				patch.Set("healthChecks", []string{hc.SelfLink()})
			}
			if opts.Timeout != 0 {
				patch.Set("timeoutSec", opts.Timeout)
			}
			if opts.Port != 0 {
				patch.Set("port", opts.Port)
			}
			if opts.PortName != "" {
				patch.Set("portName", opts.PortName)
			}

			existing, err := a.compute.GetBackendService(cmd.Context(), ref)
			if err != nil {
				return err
			}
			before, err := protojson.Marshal(existing)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeTool, "could not encode backend service")
			}
			after, err := patch.Apply(before)
			if err != nil {
				return err
			}
			if changed := resource.ChangedFields(before, after); len(changed) > 0 {
				if err := resource.CheckEditable(spec, changed); err != nil {
					return err
				}
			} else {
				a.log.Debugf("backend service %s already matches the requested values", ref.Name)
			}

			replacement := &computepb.BackendService{}
			if err := protojson.Unmarshal(after, replacement); err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeTool, "could not build the updated backend service")
			}
			if err := a.compute.UpdateBackendService(cmd.Context(), ref, replacement); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated [%s].\n", ref.SelfLink())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Description, "description", "", "new description; empty clears it")
	cmd.Flags().StringVar(&opts.HTTPHealthCheck, "http-health-check", "", "HTTP health check to use")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", 0, "seconds to wait for a backend to respond; 0 keeps the current value")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "TCP port to use on the backends")
	cmd.Flags().StringVar(&opts.PortName, "port-name", "", "named port to use on the backends")
	return cmd
}

func newInstancesResetCmd(a *app) *cobra.Command {
	var zone string

	cmd := &cobra.Command{
		Use:   "reset NAME...",
		Short: "Reset (hard restart) virtual machine instances",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := a.resolver.ZonalReferences(cmd.Context(), args, zone, "instances")
			if err != nil {
				return err
			}
			for _, ref := range refs {
				if err := a.compute.ResetInstance(cmd.Context(), ref); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated [%s].\n", ref.SelfLink())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&zone, "zone", "", "zone of the instances")
	return cmd
}

func newOperationsDescribeCmd(a *app) *cobra.Command {
	var (
		global       bool
		region, zone string
		fields       []string
	)

	cmd := &cobra.Command{
		Use:   "describe NAME|URI",
		Short: "Describe a global, regional or zonal operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			var (
				ref      *scope.Reference
				specName string
				err      error
			)
			switch {
			case strings.Contains(name, "/zones/") || (!isURI(name) && zone != ""):
				specName = "zoneOperations"
				ref, err = a.resolver.ZonalReference(ctx, name, zone, "operations")
			case strings.Contains(name, "/regions/") || (!isURI(name) && region != ""):
				specName = "regionOperations"
				ref, err = a.resolver.RegionalReference(ctx, name, region, "operations")
			case strings.Contains(name, "/global/") || global:
				specName = "globalOperations"
				ref, err = a.resolver.GlobalReference(name, "operations")
			case isURI(name):
				return apperrors.Tool("You must pass in a reference to a global, regional, or zonal operation.")
			default:
				return apperrors.Tool("Either pass in the full URI of an operation object or pass in " +
					"[--global], [--region], or [--zone] when specifying just the operation name.")
			}
			if err != nil {
				return err
			}

			spec, err := a.registry.Get(specName)
			if err != nil {
				return err
			}
			record, err := a.compute.GetOperation(ctx, ref)
			if err != nil {
				return err
			}
			return a.describe(cmd.OutOrStdout(), spec, record, fields)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "the operation is global")
	cmd.Flags().StringVar(&region, "region", "", "region of the operation")
	cmd.Flags().StringVar(&zone, "zone", "", "zone of the operation")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "fields to print, e.g. status,targetLink")
	cmd.MarkFlagsMutuallyExclusive("global", "region", "zone")
	return cmd
}

func isURI(value string) bool {
	return strings.Contains(value, "projects/")
}

func newForwardingRulesDeleteCmd(a *app) *cobra.Command {
	var (
		region string
		global bool
	)

	cmd := &cobra.Command{
		Use:   "delete NAME...",
		Short: "Delete forwarding rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				refs []*scope.Reference
				err  error
			)
			if global {
				refs, err = a.resolver.GlobalReferences(args, "forwardingRules")
			} else {
				refs, err = a.resolver.RegionalReferences(cmd.Context(), args, region, "forwardingRules")
			}
			if err != nil {
				return err
			}

			var msg strings.Builder
			msg.WriteString("The following forwarding rules will be deleted:\n")
			for _, ref := range refs {
				fmt.Fprintf(&msg, " - [%s]\n", ref.RelativePath())
			}
			msg.WriteString("Do you want to continue?")
			ok, err := a.prompter.Confirm(msg.String())
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.Tool("Deletion aborted by user.")
			}

			if err := a.compute.DeleteForwardingRules(cmd.Context(), refs); err != nil {
				return err
			}
			for _, ref := range refs {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted [%s].\n", ref.SelfLink())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region of the forwarding rules")
	cmd.Flags().BoolVar(&global, "global", false, "the forwarding rules are global")
	cmd.MarkFlagsMutuallyExclusive("region", "global")
	return cmd
}

func newTargetPoolsAddInstancesCmd(a *app) *cobra.Command {
	var (
		instances []string
		zone      string
		region    string
	)

	cmd := &cobra.Command{
		Use:   "add-instances NAME --instances INSTANCE...",
		Short: "Add instances to a target pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			instances = lo.Compact(instances)
			if len(instances) == 0 {
				return apperrors.Tool("At least one instance must be given with [--instances].")
			}

			opts := []scope.Option{scope.WithFlag("--instances-zone")}
			if region != "" {
				region = scope.NameOf(region)
				opts = append(opts, scope.WithPrefixFilter(region+"-"))
			}
			refs, err := a.resolver.ZonalReferences(ctx, instances, zone, "instances", opts...)
			if err != nil {
				return err
			}
			regions := lo.Uniq(lo.Map(refs, func(r *scope.Reference, _ int) string { return r.Region() }))
			if len(regions) != 1 || (region != "" && regions[0] != region) {
				return apperrors.Tool("Instances must all be in the same region as the target pool.")
			}

			pool, err := a.resolver.RegionalReference(ctx, args[0], regions[0], "targetPools")
			if err != nil {
				return err
			}
			if err := a.compute.AddInstancesToTargetPool(ctx, pool, refs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated [%s].\n", pool.SelfLink())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&instances, "instances", nil, "instances to add to the target pool")
	cmd.Flags().StringVar(&zone, "instances-zone", "", "zone of the instances")
	cmd.Flags().StringVar(&zone, "zone", "", "zone of the instances")
	cmd.Flags().StringVar(&region, "region", "", "region of the target pool; zone prompts only offer its zones")
	_ = cmd.Flags().MarkDeprecated("zone", "use --instances-zone instead")
	_ = cmd.MarkFlagRequired("instances")
	return cmd
}
