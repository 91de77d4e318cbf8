package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/gcli/internal/gcp"
	"github.com/pratik-mahalle/gcli/internal/pkg/validator"
	"github.com/pratik-mahalle/gcli/internal/resource"
)

func newSQLCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Manage Cloud SQL databases",
	}

	cmd.AddCommand(newSQLInstancesCmd(a))
	cmd.AddCommand(newSQLBackupsCmd(a))
	cmd.AddCommand(newSQLOperationsCmd(a))
	cmd.AddCommand(newSQLSSLCertsCmd(a))
	cmd.AddCommand(newSQLFlagsCmd(a))

	return cmd
}

// listSQL prints records through the sql.* column table.
func (a *app) listSQL(cmd *cobra.Command, specName string, list func(ctx context.Context) ([]resource.Record, error)) error {
	spec, err := a.registry.Get(specName)
	if err != nil {
		return err
	}
	records, err := list(cmd.Context())
	if err != nil {
		return err
	}
	return a.printRecords(cmd.OutOrStdout(), spec, records)
}

// printOperation prints a finished operation under a heading.
func (a *app) printOperation(cmd *cobra.Command, verb string, op resource.Record) error {
	w := cmd.OutOrStdout()
	if a.opts.format == "table" {
		fmt.Fprintf(w, "Result of the %s operation:\n", verb)
	}
	return a.printRecord(w, op)
}

func newSQLInstancesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "Manage Cloud SQL instances",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List Cloud SQL instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listSQL(cmd, "sql.instances", a.sql.ListInstances)
		},
	})
	cmd.AddCommand(newSQLInstancesCloneCmd(a))
	cmd.AddCommand(newSQLInstanceOpCmd(a, "restart", "Restart a Cloud SQL instance",
		func(ctx context.Context, ref gcp.SQLInstance) (resource.Record, error) { return a.sql.Restart(ctx, ref) }))
	cmd.AddCommand(newSQLInstanceOpCmd(a, "promote-replica", "Promote a read replica to a standalone instance",
		func(ctx context.Context, ref gcp.SQLInstance) (resource.Record, error) { return a.sql.PromoteReplica(ctx, ref) }))

	return cmd
}

type cloneFlags struct {
	BinLogFileName string `flag:"bin-log-file-name" validate:"required_with=BinLogPosition"`
	BinLogPosition int64  `flag:"bin-log-position" validate:"gte=0"`
}

func newSQLInstancesCloneCmd(a *app) *cobra.Command {
	var opts cloneFlags

	cmd := &cobra.Command{
		Use:   "clone SOURCE DESTINATION",
		Short: "Clone a Cloud SQL instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.New().Check(opts); err != nil {
				return err
			}
			src, err := a.sql.Instance(args[0])
			if err != nil {
				return err
			}
			dst, err := a.sql.Instance(args[1])
			if err != nil {
				return err
			}
			op, err := a.sql.Clone(cmd.Context(), src, dst, gcp.CloneOptions{
				BinLogFileName: opts.BinLogFileName,
				BinLogPosition: opts.BinLogPosition,
			})
			if err != nil {
				return err
			}
			return a.printOperation(cmd, "clone", op)
		},
	}

	cmd.Flags().StringVar(&opts.BinLogFileName, "bin-log-file-name", "", "binary log file of the source instance")
	cmd.Flags().Int64Var(&opts.BinLogPosition, "bin-log-position", 0, "position in the binary log up to which the source is cloned")
	return cmd
}

func newSQLInstanceOpCmd(a *app, verb, short string, run func(context.Context, gcp.SQLInstance) (resource.Record, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " INSTANCE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.sql.Instance(args[0])
			if err != nil {
				return err
			}
			op, err := run(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return a.printOperation(cmd, verb, op)
		},
	}
}

func newSQLBackupsCmd(a *app) *cobra.Command {
	var instance string

	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Inspect the backups of a Cloud SQL instance",
	}
	cmd.PersistentFlags().StringVarP(&instance, "instance", "i", "", "Cloud SQL instance ID")
	_ = cmd.MarkPersistentFlagRequired("instance")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the backup runs of an instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.sql.Instance(instance)
			if err != nil {
				return err
			}
			return a.listSQL(cmd, "sql.backupRuns", func(ctx context.Context) ([]resource.Record, error) {
				return a.sql.ListBackupRuns(ctx, ref)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get ID|DUE_TIME",
		Short: "Describe a backup run by id or by the RFC 3339 time it was due",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.sql.Instance(instance)
			if err != nil {
				return err
			}
			run, err := a.sql.GetBackupRun(cmd.Context(), ref, args[0])
			if err != nil {
				return err
			}
			return a.printRecord(cmd.OutOrStdout(), run)
		},
	})

	return cmd
}

func newSQLOperationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "Inspect Cloud SQL operations",
	}

	var instance string
	list := &cobra.Command{
		Use:   "list --instance INSTANCE",
		Short: "List the operations of an instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.sql.Instance(instance)
			if err != nil {
				return err
			}
			return a.listSQL(cmd, "sql.operations", func(ctx context.Context) ([]resource.Record, error) {
				return a.sql.ListOperations(ctx, ref)
			})
		},
	}
	list.Flags().StringVarP(&instance, "instance", "i", "", "Cloud SQL instance ID")
	_ = list.MarkFlagRequired("instance")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get OPERATION",
		Short: "Describe a Cloud SQL operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := a.sql.GetOperation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printRecord(cmd.OutOrStdout(), op)
		},
	})

	return cmd
}

type commonNameArg struct {
	CommonName string `flag:"COMMON_NAME" validate:"required,commonname"`
}

func newSQLSSLCertsCmd(a *app) *cobra.Command {
	var instance string

	cmd := &cobra.Command{
		Use:   "ssl-certs",
		Short: "Manage the client certificates of a Cloud SQL instance",
	}
	cmd.PersistentFlags().StringVarP(&instance, "instance", "i", "", "Cloud SQL instance ID")
	_ = cmd.MarkPersistentFlagRequired("instance")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List client certificates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.sql.Instance(instance)
			if err != nil {
				return err
			}
			return a.listSQL(cmd, "sql.sslCerts", func(ctx context.Context) ([]resource.Record, error) {
				return a.sql.ListSSLCerts(ctx, ref)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get COMMON_NAME",
		Short: "Describe a client certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.New().Check(commonNameArg{args[0]}); err != nil {
				return err
			}
			ref, err := a.sql.Instance(instance)
			if err != nil {
				return err
			}
			cert, err := a.sql.GetSSLCert(cmd.Context(), ref, args[0])
			if err != nil {
				return err
			}
			return a.printRecord(cmd.OutOrStdout(), cert)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete COMMON_NAME",
		Short: "Delete a client certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.New().Check(commonNameArg{args[0]}); err != nil {
				return err
			}
			ref, err := a.sql.Instance(instance)
			if err != nil {
				return err
			}
			op, err := a.sql.DeleteSSLCert(cmd.Context(), ref, args[0])
			if err != nil {
				return err
			}
			return a.printOperation(cmd, "delete", op)
		},
	})

	return cmd
}

func newSQLFlagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "List the database flags Cloud SQL accepts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List database flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listSQL(cmd, "sql.flags", a.sql.ListFlags)
		},
	})
	return cmd
}
