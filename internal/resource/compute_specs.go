package resource

import (
	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/protobuf/proto"
)

func protoOf(m proto.Message) Schema {
	return ProtoSchema(m.ProtoReflect().Descriptor())
}

func operationDefinition(name string) Definition {
	return Definition{
		Name:   name,
		Schema: protoOf(&computepb.Operation{}),
		Columns: []ColumnDef{
			Col("NAME", Path("name")),
			Col("TYPE", Path("operationType")),
			Col("TARGET", Path("targetLink")),
			Col("HTTP_STATUS", Func(OperationHTTPStatus)),
			Col("STATUS", Path("status")),
			Col("TIMESTAMP", Path("insertTime")),
		},
		Transformations: map[string]Transform{
			"targetLink": ScopedSuffix,
			"zone":       Name,
			"region":     Name,
		},
	}
}

// ComputeDefinitions is the Compute Engine v1 resource table.
func ComputeDefinitions() []Definition {
	return []Definition{
		{
			Name:   "addresses",
			Schema: protoOf(&computepb.Address{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("REGION", Path("region")),
				Col("ADDRESS", Path("address")),
				Col("STATUS", Path("status")),
			},
			Transformations: map[string]Transform{
				"region":  Name,
				"users[]": ScopedSuffix,
			},
		},
		{
			Name:   "globalAddresses",
			Schema: protoOf(&computepb.Address{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("ADDRESS", Path("address")),
				Col("STATUS", Path("status")),
			},
			Transformations: map[string]Transform{
				"users[]": ScopedSuffix,
			},
		},
		{
			Name:   "disks",
			Schema: protoOf(&computepb.Disk{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("ZONE", Path("zone")),
				Col("SIZE_GB", Path("sizeGb")),
				Col("TYPE", Path("type")),
				Col("STATUS", Path("status")),
			},
			Transformations: map[string]Transform{
				"sourceSnapshot": Name,
				"type":           Name,
				"zone":           Name,
			},
		},
		{
			Name:   "diskTypes",
			Schema: protoOf(&computepb.DiskType{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("ZONE", Path("zone")),
				Col("VALID_DISK_SIZES", Path("validDiskSize")),
			},
			Transformations: map[string]Transform{
				"zone": Name,
			},
		},
		{
			Name:   "firewalls",
			Schema: protoOf(&computepb.Firewall{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("NETWORK", Path("network")),
				Col("SRC_RANGES", Func(FirewallSourceRanges)),
				Col("RULES", Func(FirewallRules)),
				Col("SRC_TAGS", Func(FirewallSourceTags)),
				Col("TARGET_TAGS", Func(FirewallTargetTags)),
			},
			Transformations: map[string]Transform{
				"network": Name,
			},
		},
		{
			Name:   "forwardingRules",
			Schema: protoOf(&computepb.ForwardingRule{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("REGION", Path("region")),
				Col("IP_ADDRESS", Path("IPAddress")),
				Col("IP_PROTOCOL", Path("IPProtocol")),
				Col("TARGET", Path("target")),
			},
			Transformations: map[string]Transform{
				"region": Name,
				"target": ScopedSuffix,
			},
		},
		{
			Name:   "globalForwardingRules",
			Schema: protoOf(&computepb.ForwardingRule{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("IP_ADDRESS", Path("IPAddress")),
				Col("IP_PROTOCOL", Path("IPProtocol")),
				Col("TARGET", Path("target")),
			},
			Transformations: map[string]Transform{
				"target": ScopedSuffix,
			},
		},
		{
			Name:   "httpHealthChecks",
			Schema: protoOf(&computepb.HTTPHealthCheck{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("HOST", Path("host")),
				Col("PORT", Path("port")),
				Col("REQUEST_PATH", Path("requestPath")),
			},
		},
		{
			Name:   "images",
			Schema: protoOf(&computepb.Image{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("PROJECT", Func(ProjectOf)),
				Col("DEPRECATED", Path("deprecated.state")),
				Col("STATUS", Path("status")),
			},
		},
		{
			Name:   "instances",
			Schema: protoOf(&computepb.Instance{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("ZONE", Path("zone")),
				Col("MACHINE_TYPE", Path("machineType")),
				Col("INTERNAL_IP", Path("networkInterfaces[0].networkIP")),
				Col("EXTERNAL_IP", Path("networkInterfaces[0].accessConfigs[0].natIP")),
				Col("STATUS", Path("status")),
			},
			Transformations: map[string]Transform{
				"disks[].source":              Name,
				"machineType":                 Name,
				"networkInterfaces[].network": Name,
				"zone":                        Name,
			},
		},
		{
			Name:   "machineTypes",
			Schema: protoOf(&computepb.MachineType{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("ZONE", Path("zone")),
				Col("CPUS", Path("guestCpus")),
				Col("MEMORY_GB", Func(MachineTypeMemory)),
				Col("DEPRECATED", Path("deprecated.state")),
			},
			Transformations: map[string]Transform{
				"zone": Name,
			},
		},
		{
			Name:   "networks",
			Schema: protoOf(&computepb.Network{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("IPV4_RANGE", Path("IPv4Range")),
				Col("GATEWAY_IPV4", Path("gatewayIPv4")),
			},
		},
		{
			// Projects are described, never listed.
			Name:   "projects",
			Schema: protoOf(&computepb.Project{}),
		},
		operationDefinition("operations"),
		operationDefinition("globalOperations"),
		operationDefinition("regionOperations"),
		operationDefinition("zoneOperations"),
		{
			Name:   "regions",
			Schema: protoOf(&computepb.Region{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("CPUS", Func(Quota("CPUS", false))),
				Col("DISKS_GB", Func(Quota("DISKS_TOTAL_GB", true))),
				Col("ADDRESSES", Func(Quota("IN_USE_ADDRESSES", true))),
				Col("RESERVED_ADDRESSES", Func(Quota("STATIC_ADDRESSES", true))),
				Col("STATUS", Path("status")),
			},
			Transformations: map[string]Transform{
				"zones[]": Name,
			},
		},
		{
			Name:   "routes",
			Schema: protoOf(&computepb.Route{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("NETWORK", Path("network")),
				Col("DEST_RANGE", Path("destRange")),
				Col("NEXT_HOP", Func(RouteNextHop)),
				Col("PRIORITY", Path("priority")),
			},
			Transformations: map[string]Transform{
				"network": Name,
			},
		},
		{
			Name:   "snapshots",
			Schema: protoOf(&computepb.Snapshot{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("DISK_SIZE_GB", Path("diskSizeGb")),
				Col("SRC_DISK", Path("sourceDisk")),
				Col("STATUS", Path("status")),
			},
			Transformations: map[string]Transform{
				"sourceDisk": ScopedSuffix,
			},
		},
		{
			Name:   "targetPools",
			Schema: protoOf(&computepb.TargetPool{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("REGION", Path("region")),
				Col("SESSION_AFFINITY", Path("sessionAffinity")),
				Col("BACKUP", Path("backupPool")),
				Col("HEALTH_CHECKS", Func(TargetPoolHealthChecks)),
			},
			Transformations: map[string]Transform{
				"backupPool":     Name,
				"healthChecks[]": Name,
				"instances[]":    ScopedSuffix,
				"region":         Name,
			},
		},
		{
			Name:   "targetPoolInstanceHealth",
			Schema: protoOf(&computepb.TargetPoolInstanceHealth{}),
			Transformations: map[string]Transform{
				"healthStatus[].instance": ScopedSuffix,
			},
		},
		{
			Name:   "targetInstances",
			Schema: protoOf(&computepb.TargetInstance{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("ZONE", Path("zone")),
				Col("INSTANCE", Path("instance")),
				Col("NAT_POLICY", Path("natPolicy")),
			},
			Transformations: map[string]Transform{
				"instance": Name,
				"zone":     Name,
			},
		},
		{
			Name:   "zones",
			Schema: protoOf(&computepb.Zone{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("REGION", Path("region")),
				Col("STATUS", Path("status")),
				Col("NEXT_MAINTENANCE", Func(NextMaintenance)),
			},
			Transformations: map[string]Transform{
				"region": Name,
			},
		},
		{
			Name:   "backendServices",
			Schema: protoOf(&computepb.BackendService{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("BACKENDS", Func(Backends)),
			},
			Transformations: map[string]Transform{
				"healthChecks[]":   Name,
				"backends[].group": ScopedSuffix,
			},
			Editable: []string{"backends", "description", "healthChecks", "port", "portName", "timeoutSec"},
		},
		{
			Name:   "backendServiceGroupHealth",
			Schema: protoOf(&computepb.BackendServiceGroupHealth{}),
			Transformations: map[string]Transform{
				"healthStatus[].instance": ScopedSuffix,
			},
		},
		{
			Name:   "urlMaps",
			Schema: protoOf(&computepb.UrlMap{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("DEFAULT_SERVICE", Path("defaultService")),
			},
			Transformations: map[string]Transform{
				"defaultService":                     Name,
				"pathMatchers[].defaultService":      Name,
				"pathMatchers[].pathRules[].service": Name,
				"tests[].service":                    Name,
			},
			Editable: []string{"defaultService", "description", "hostRules", "pathMatchers", "tests"},
		},
		{
			Name:   "targetHttpProxies",
			Schema: protoOf(&computepb.TargetHttpProxy{}),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("URL_MAP", Path("urlMap")),
			},
			Transformations: map[string]Transform{
				"urlMap": Name,
			},
			Editable: []string{},
		},
	}
}
