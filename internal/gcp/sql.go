package gcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	sqladmin "google.golang.org/api/sqladmin/v1"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/pkg/logger"
	"github.com/pratik-mahalle/gcli/internal/resource"
)

const sqlAPI = "Cloud SQL Admin"

// SQLInstance names a Cloud SQL instance.
type SQLInstance struct {
	Project  string
	Instance string
}

// ParseSQLInstance accepts INSTANCE or PROJECT:INSTANCE. Domain-scoped
// projects contain a colon themselves, so the split is on the last one.
func ParseSQLInstance(value, defaultProject string) (SQLInstance, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return SQLInstance{}, apperrors.Tool("instance name must not be empty")
	}
	ref := SQLInstance{Project: defaultProject, Instance: value}
	if i := strings.LastIndex(value, ":"); i >= 0 {
		ref.Project, ref.Instance = value[:i], value[i+1:]
	}
	if ref.Instance == "" {
		return SQLInstance{}, apperrors.Tool("instance name must not be empty")
	}
	if ref.Project == "" {
		return SQLInstance{}, apperrors.Tool("The required property [project] is not currently set. " +
			"Set it with `gcli config set project PROJECT` or pass --project.")
	}
	return ref, nil
}

func (r SQLInstance) String() string {
	return r.Project + ":" + r.Instance
}

// CloneOptions carries the optional binary log coordinate of a clone.
type CloneOptions struct {
	BinLogFileName string
	BinLogPosition int64
}

// SQL talks to the Cloud SQL Admin v1 API.
type SQL struct {
	project string
	opts    []option.ClientOption
	waiter  *Waiter
	log     *logger.Logger
}

// NewSQL returns an adapter whose default project is project.
func NewSQL(project string, creds Credentials, waiter *Waiter, log *logger.Logger) *SQL {
	if log == nil {
		log = logger.Nop()
	}
	if waiter == nil {
		waiter = NewWaiter(0, nil)
	}
	return &SQL{
		project: project,
		opts:    creds.ClientOptions(),
		waiter:  waiter,
		log:     log.With("api", "sqladmin"),
	}
}

// Project is the default project of the adapter.
func (s *SQL) Project() string {
	return s.project
}

// Instance parses an instance argument against the default project.
func (s *SQL) Instance(value string) (SQLInstance, error) {
	return ParseSQLInstance(value, s.project)
}

func (s *SQL) service(ctx context.Context) (*sqladmin.Service, error) {
	svc, err := sqladmin.NewService(ctx, s.opts...)
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return svc, nil
}

// ListInstances lists every instance of the default project.
func (s *SQL) ListInstances(ctx context.Context) ([]resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	var items []*sqladmin.DatabaseInstance
	err = svc.Instances.List(s.project).Pages(ctx, func(page *sqladmin.InstancesListResponse) error {
		items = append(items, page.Items...)
		return nil
	})
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	s.log.Debugf("listed %d instances in %s", len(items), s.project)
	return structRecords(items)
}

// Clone copies src into a new instance dst. Both must be in the same
// project, and a binary log coordinate needs both of its parts.
func (s *SQL) Clone(ctx context.Context, src, dst SQLInstance, opts CloneOptions) (resource.Record, error) {
	if src.Project != dst.Project {
		return nil, apperrors.Tool("The source and the clone instance must belong to the same project: %q != %q.",
			src.Project, dst.Project)
	}
	cloneCtx := &sqladmin.CloneContext{
		Kind:                    "sql#cloneContext",
		DestinationInstanceName: dst.Instance,
	}
	switch {
	case opts.BinLogFileName != "" && opts.BinLogPosition != 0:
		cloneCtx.BinLogCoordinates = &sqladmin.BinLogCoordinates{
			Kind:           "sql#binLogCoordinates",
			BinLogFileName: opts.BinLogFileName,
			BinLogPosition: opts.BinLogPosition,
		}
	case opts.BinLogFileName != "" || opts.BinLogPosition != 0:
		return nil, apperrors.Tool("Both --bin-log-file-name and --bin-log-position must be specified to " +
			"represent a valid binary log coordinate up to which the source is cloned.")
	}

	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	op, err := svc.Instances.Clone(src.Project, src.Instance, &sqladmin.InstancesCloneRequest{CloneContext: cloneCtx}).
		Context(ctx).Do()
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return s.wait(ctx, svc, src.Project, op, fmt.Sprintf("Cloning [%s] to [%s]", src, dst))
}

// Restart restarts an instance and returns the finished operation.
func (s *SQL) Restart(ctx context.Context, ref SQLInstance) (resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	op, err := svc.Instances.Restart(ref.Project, ref.Instance).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return s.wait(ctx, svc, ref.Project, op, fmt.Sprintf("Restarting [%s]", ref))
}

// PromoteReplica turns a read replica into a standalone instance.
func (s *SQL) PromoteReplica(ctx context.Context, ref SQLInstance) (resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	op, err := svc.Instances.PromoteReplica(ref.Project, ref.Instance).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return s.wait(ctx, svc, ref.Project, op, fmt.Sprintf("Promoting [%s]", ref))
}

func (s *SQL) backupRuns(ctx context.Context, svc *sqladmin.Service, ref SQLInstance) ([]*sqladmin.BackupRun, error) {
	var runs []*sqladmin.BackupRun
	err := svc.BackupRuns.List(ref.Project, ref.Instance).Pages(ctx, func(page *sqladmin.BackupRunsListResponse) error {
		runs = append(runs, page.Items...)
		return nil
	})
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return runs, nil
}

// ListBackupRuns lists the backup runs of an instance, newest first as the
// API returns them.
func (s *SQL) ListBackupRuns(ctx context.Context, ref SQLInstance) ([]resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	runs, err := s.backupRuns(ctx, svc, ref)
	if err != nil {
		return nil, err
	}
	return structRecords(runs)
}

// GetBackupRun fetches a backup run by numeric id, or by the RFC 3339 time
// its backup window started.
func (s *SQL) GetBackupRun(ctx context.Context, ref SQLInstance, idOrDueTime string) (resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	if id, convErr := strconv.ParseInt(idOrDueTime, 10, 64); convErr == nil {
		run, err := svc.BackupRuns.Get(ref.Project, ref.Instance, id).Context(ctx).Do()
		if err != nil {
			return nil, apperrors.ProviderAPIError(sqlAPI, err)
		}
		return StructRecord(run)
	}

	due, err := time.Parse(time.RFC3339, idOrDueTime)
	if err != nil {
		return nil, apperrors.Tool("[%s] is neither a backup id nor an RFC 3339 due time", idOrDueTime)
	}
	runs, err := s.backupRuns(ctx, svc, ref)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if sameInstant(run.WindowStartTime, due) || sameInstant(run.EnqueuedTime, due) {
			return StructRecord(run)
		}
	}
	return nil, apperrors.NotFound(fmt.Sprintf("backup run due at [%s] of [%s]", idOrDueTime, ref))
}

func sameInstant(value string, t time.Time) bool {
	if value == "" {
		return false
	}
	parsed, err := time.Parse(time.RFC3339, value)
	return err == nil && parsed.Equal(t)
}

// ListOperations lists the operations run against an instance.
func (s *SQL) ListOperations(ctx context.Context, ref SQLInstance) ([]resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	var ops []*sqladmin.Operation
	err = svc.Operations.List(ref.Project).Instance(ref.Instance).Pages(ctx, func(page *sqladmin.OperationsListResponse) error {
		ops = append(ops, page.Items...)
		return nil
	})
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return structRecords(ops)
}

// GetOperation fetches one operation of the default project.
func (s *SQL) GetOperation(ctx context.Context, name string) (resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	op, err := svc.Operations.Get(s.project, name).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return StructRecord(op)
}

func (s *SQL) sslCerts(ctx context.Context, svc *sqladmin.Service, ref SQLInstance) ([]*sqladmin.SslCert, error) {
	resp, err := svc.SslCerts.List(ref.Project, ref.Instance).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return resp.Items, nil
}

func findCert(certs []*sqladmin.SslCert, commonName string) (*sqladmin.SslCert, error) {
	for _, cert := range certs {
		if cert.CommonName == commonName {
			return cert, nil
		}
	}
	return nil, apperrors.Tool("Cert with the provided common name doesn't exist.")
}

// ListSSLCerts lists the client certificates of an instance.
func (s *SQL) ListSSLCerts(ctx context.Context, ref SQLInstance) ([]resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.sslCerts(ctx, svc, ref)
	if err != nil {
		return nil, err
	}
	return structRecords(certs)
}

// GetSSLCert finds a client certificate by common name.
func (s *SQL) GetSSLCert(ctx context.Context, ref SQLInstance, commonName string) (resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.sslCerts(ctx, svc, ref)
	if err != nil {
		return nil, err
	}
	cert, err := findCert(certs, commonName)
	if err != nil {
		return nil, err
	}
	return StructRecord(cert)
}

// DeleteSSLCert deletes a client certificate by common name.
func (s *SQL) DeleteSSLCert(ctx context.Context, ref SQLInstance, commonName string) (resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.sslCerts(ctx, svc, ref)
	if err != nil {
		return nil, err
	}
	cert, err := findCert(certs, commonName)
	if err != nil {
		return nil, err
	}
	op, err := svc.SslCerts.Delete(ref.Project, ref.Instance, cert.Sha1Fingerprint).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return s.wait(ctx, svc, ref.Project, op, fmt.Sprintf("Deleting cert [%s]", commonName))
}

// ListFlags lists the database flags Cloud SQL accepts.
func (s *SQL) ListFlags(ctx context.Context) ([]resource.Record, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Flags.List().Context(ctx).Do()
	if err != nil {
		return nil, apperrors.ProviderAPIError(sqlAPI, err)
	}
	return structRecords(resp.Items)
}

// wait polls op until its status is DONE and returns its last state.
func (s *SQL) wait(ctx context.Context, svc *sqladmin.Service, project string, op *sqladmin.Operation, description string) (resource.Record, error) {
	current := op
	err := s.waiter.Wait(ctx, description, func(ctx context.Context) (bool, []string, error) {
		if current.Status != "DONE" {
			next, err := svc.Operations.Get(project, current.Name).Context(ctx).Do()
			if err != nil {
				return false, nil, apperrors.ProviderAPIError(sqlAPI, err)
			}
			current = next
		}
		if current.Status != "DONE" {
			return false, nil, nil
		}
		return true, sqlOperationErrors(current), nil
	})
	if err != nil {
		return nil, err
	}
	return StructRecord(current)
}

func sqlOperationErrors(op *sqladmin.Operation) []string {
	if op.Error == nil {
		return nil
	}
	var out []string
	for _, e := range op.Error.Errors {
		if e.Message != "" {
			out = append(out, fmt.Sprintf("%s: %s", e.Code, e.Message))
		} else {
			out = append(out, e.Code)
		}
	}
	return out
}
