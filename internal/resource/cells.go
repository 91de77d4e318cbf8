package resource

import (
	"fmt"
	"net/http"
	"strings"
)

func stringField(r Record, key string) string {
	s, _ := r[key].(string)
	return s
}

func listField(r Record, key string) []any {
	items, _ := asSequence(r[key])
	return items
}

func joinStrings(r Record, key string, t Transform) string {
	var parts []string
	for _, item := range listField(r, key) {
		if t != nil {
			parts = append(parts, t(item))
			continue
		}
		parts = append(parts, Render(item))
	}
	return strings.Join(parts, ",")
}

// FirewallRules renders allowed rules as "proto:ports", one entry per
// port range.
func FirewallRules(r Record) string {
	var rules []string
	for _, item := range listField(r, "allowed") {
		allowed, ok := item.(map[string]any)
		if !ok {
			continue
		}
		protocol := stringField(allowed, "IPProtocol")
		if protocol == "" {
			continue
		}
		ports := listField(allowed, "ports")
		if len(ports) == 0 {
			rules = append(rules, protocol)
			continue
		}
		for _, port := range ports {
			rules = append(rules, protocol+":"+Render(port))
		}
	}
	return strings.Join(rules, ",")
}

func FirewallSourceRanges(r Record) string { return joinStrings(r, "sourceRanges", nil) }
func FirewallSourceTags(r Record) string   { return joinStrings(r, "sourceTags", nil) }
func FirewallTargetTags(r Record) string   { return joinStrings(r, "targetTags", nil) }

// TargetPoolHealthChecks lists health check names.
func TargetPoolHealthChecks(r Record) string {
	return joinStrings(r, "healthChecks", Name)
}

// NextMaintenance renders the earliest maintenance window as
// "BEGIN--END".
func NextMaintenance(r Record) string {
	var next map[string]any
	for _, item := range listField(r, "maintenanceWindows") {
		w, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if next == nil || stringField(w, "beginTime") < stringField(next, "beginTime") {
			next = w
		}
	}
	if next == nil {
		return ""
	}
	return stringField(next, "beginTime") + "--" + stringField(next, "endTime")
}

// Quota renders usage/limit of one region quota metric.
func Quota(metric string, integer bool) CellFunc {
	return func(r Record) string {
		for _, item := range listField(r, "quotas") {
			q, ok := item.(map[string]any)
			if !ok || stringField(q, "metric") != metric {
				continue
			}
			usage, _ := toFloat(q["usage"])
			limit, _ := toFloat(q["limit"])
			if integer {
				return fmt.Sprintf("%6d/%d", int64(usage), int64(limit))
			}
			return fmt.Sprintf("%7.2f/%.2f", usage, limit)
		}
		return ""
	}
}

// MachineTypeMemory renders memoryMb in gigabytes.
func MachineTypeMemory(r Record) string {
	return MemoryGB(r["memoryMb"])
}

// OperationHTTPStatus is the HTTP status of a finished operation.
// Operations still running render empty.
func OperationHTTPStatus(r Record) string {
	if stringField(r, "status") != "DONE" {
		return ""
	}
	if code, ok := toFloat(r["httpErrorStatusCode"]); ok && code != 0 {
		return Render(code)
	}
	return fmt.Sprint(http.StatusOK)
}

// ProjectOf returns the project named in the record's selfLink.
func ProjectOf(r Record) string {
	link := stringField(r, "selfLink")
	if link == "" {
		return ""
	}
	return strings.SplitN(ProjectSuffix(link), "/", 2)[0]
}

// Backends lists the instance groups behind a backend service.
func Backends(r Record) string {
	var groups []string
	for _, item := range listField(r, "backends") {
		b, ok := item.(map[string]any)
		if !ok {
			continue
		}
		groups = append(groups, ScopedSuffix(b["group"]))
	}
	return strings.Join(groups, ",")
}

// RouteNextHop picks the first of nextHopInstance, nextHopGateway and
// nextHopIp that is set.
func RouteNextHop(r Record) string {
	if v := stringField(r, "nextHopInstance"); v != "" {
		return ScopedSuffix(v)
	}
	if v := stringField(r, "nextHopGateway"); v != "" {
		return ScopedSuffix(v)
	}
	return stringField(r, "nextHopIp")
}
