package resource

import (
	"reflect"

	sqladmin "google.golang.org/api/sqladmin/v1"
)

// SQLDefinitions is the Cloud SQL Admin v1 resource table. Keys carry the
// "sql." collection prefix so they never collide with compute types.
func SQLDefinitions() []Definition {
	return []Definition{
		{
			Name:   "sql.instances",
			Schema: StructSchema(reflect.TypeOf(sqladmin.DatabaseInstance{})),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("REGION", Path("region")),
				Col("TIER", Path("settings.tier")),
				Col("ADDRESS", Path("ipAddresses[0].ipAddress")),
				Col("STATUS", Path("state")),
			},
		},
		{
			Name:   "sql.backupRuns",
			Schema: StructSchema(reflect.TypeOf(sqladmin.BackupRun{})),
			Columns: []ColumnDef{
				Col("ID", Path("id")),
				Col("WINDOW_START_TIME", Path("windowStartTime")),
				Col("START", Path("startTime")),
				Col("END", Path("endTime")),
				Col("ERROR", Path("error.code")),
				Col("STATUS", Path("status")),
			},
		},
		{
			Name:   "sql.operations",
			Schema: StructSchema(reflect.TypeOf(sqladmin.Operation{})),
			Columns: []ColumnDef{
				Col("OPERATION", Path("name")),
				Col("TYPE", Path("operationType")),
				Col("START", Path("startTime")),
				Col("END", Path("endTime")),
				Col("ERROR", Path("error.errors[].code")),
				Col("STATUS", Path("status")),
			},
		},
		{
			Name:   "sql.sslCerts",
			Schema: StructSchema(reflect.TypeOf(sqladmin.SslCert{})),
			Columns: []ColumnDef{
				Col("NAME", Path("commonName")),
				Col("SHA1_FINGERPRINT", Path("sha1Fingerprint")),
				Col("EXPIRATION", Path("expirationTime")),
			},
		},
		{
			Name:   "sql.flags",
			Schema: StructSchema(reflect.TypeOf(sqladmin.Flag{})),
			Columns: []ColumnDef{
				Col("NAME", Path("name")),
				Col("TYPE", Path("type")),
				Col("ALLOWED_VALUES", Path("allowedStringValues")),
			},
			Transformations: map[string]Transform{
				"allowedStringValues": CommaList(""),
			},
		},
	}
}
