package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellFunctions(t *testing.T) {
	tests := []struct {
		name   string
		cell   CellFunc
		record string
		want   string
	}{
		{
			name:   "firewall rules with ports",
			cell:   FirewallRules,
			record: `{"allowed": [{"IPProtocol": "tcp", "ports": ["22", "80-90"]}, {"IPProtocol": "icmp"}, {"ports": ["1"]}]}`,
			want:   "tcp:22,tcp:80-90,icmp",
		},
		{name: "firewall rules absent", cell: FirewallRules, record: `{}`, want: ""},
		{name: "source ranges", cell: FirewallSourceRanges, record: `{"sourceRanges": ["0.0.0.0/0", "10.0.0.0/8"]}`, want: "0.0.0.0/0,10.0.0.0/8"},
		{name: "source tags", cell: FirewallSourceTags, record: `{"sourceTags": ["web"]}`, want: "web"},
		{name: "target tags absent", cell: FirewallTargetTags, record: `{"targetTags": null}`, want: ""},
		{
			name:   "target pool health checks",
			cell:   TargetPoolHealthChecks,
			record: `{"healthChecks": ["projects/p/global/httpHealthChecks/hc1", "projects/p/global/httpHealthChecks/hc2"]}`,
			want:   "hc1,hc2",
		},
		{
			name: "next maintenance picks earliest",
			cell: NextMaintenance,
			record: `{"maintenanceWindows": [
				{"beginTime": "2014-06-01T00:00", "endTime": "2014-06-08T00:00"},
				{"beginTime": "2014-03-01T00:00", "endTime": "2014-03-08T00:00"}
			]}`,
			want: "2014-03-01T00:00--2014-03-08T00:00",
		},
		{name: "no maintenance", cell: NextMaintenance, record: `{"maintenanceWindows": []}`, want: ""},
		{
			name:   "integer quota",
			cell:   Quota("DISKS_TOTAL_GB", true),
			record: `{"quotas": [{"metric": "CPUS", "usage": 2, "limit": 24}, {"metric": "DISKS_TOTAL_GB", "usage": 110, "limit": 5120}]}`,
			want:   "   110/5120",
		},
		{
			name:   "float quota",
			cell:   Quota("CPUS", false),
			record: `{"quotas": [{"metric": "CPUS", "usage": 2, "limit": 24}]}`,
			want:   "   2.00/24.00",
		},
		{name: "quota missing metric", cell: Quota("CPUS", false), record: `{"quotas": []}`, want: ""},
		{name: "machine memory", cell: MachineTypeMemory, record: `{"memoryMb": 3840}`, want: " 3.75"},
		{name: "machine memory absent", cell: MachineTypeMemory, record: `{}`, want: ""},
		{name: "operation done ok", cell: OperationHTTPStatus, record: `{"status": "DONE"}`, want: "200"},
		{name: "operation done error", cell: OperationHTTPStatus, record: `{"status": "DONE", "httpErrorStatusCode": 404}`, want: "404"},
		{name: "operation running", cell: OperationHTTPStatus, record: `{"status": "RUNNING", "httpErrorStatusCode": 404}`, want: ""},
		{
			name:   "project of self link",
			cell:   ProjectOf,
			record: `{"selfLink": "https://compute.googleapis.com/compute/v1/projects/debian-cloud/global/images/debian-7"}`,
			want:   "debian-cloud",
		},
		{name: "project without self link", cell: ProjectOf, record: `{}`, want: ""},
		{
			name:   "backends",
			cell:   Backends,
			record: `{"backends": [{"group": "` + zoneURL + `/instanceGroups/ig-1"}, {"group": "` + zoneURL + `/instanceGroups/ig-2"}]}`,
			want:   "zones/us-central1-a/instanceGroups/ig-1,zones/us-central1-a/instanceGroups/ig-2",
		},
		{name: "no backends", cell: Backends, record: `{}`, want: ""},
		{
			name:   "next hop instance wins",
			cell:   RouteNextHop,
			record: `{"nextHopInstance": "` + zoneURL + `/instances/nat", "nextHopIp": "10.0.0.1"}`,
			want:   "zones/us-central1-a/instances/nat",
		},
		{
			name:   "next hop gateway",
			cell:   RouteNextHop,
			record: `{"nextHopGateway": "https://compute.googleapis.com/compute/v1/projects/p/global/gateways/default-internet-gateway", "nextHopIp": "10.0.0.1"}`,
			want:   "gateways/default-internet-gateway",
		},
		{name: "next hop ip", cell: RouteNextHop, record: `{"nextHopIp": "10.0.0.1"}`, want: "10.0.0.1"},
		{name: "no next hop", cell: RouteNextHop, record: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell(decode(t, tt.record)))
		})
	}
}
