package cli

import (
	"context"
	"os"

	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/gcli/internal/config"
	"github.com/pratik-mahalle/gcli/internal/gcp"
	"github.com/pratik-mahalle/gcli/internal/githelper"
	"github.com/pratik-mahalle/gcli/internal/pkg/logger"
	"github.com/pratik-mahalle/gcli/internal/pkg/validator"
	"github.com/pratik-mahalle/gcli/internal/resource"
	"github.com/pratik-mahalle/gcli/internal/scope"
)

// ComputeAPI is the part of gcp.Compute the commands use.
type ComputeAPI interface {
	scope.ChoiceFetcher
	List(ctx context.Context, resourceType string) ([]resource.Record, error)
	GetAddress(ctx context.Context, ref *scope.Reference) (resource.Record, error)
	GetBackendService(ctx context.Context, ref *scope.Reference) (*computepb.BackendService, error)
	UpdateBackendService(ctx context.Context, ref *scope.Reference, bs *computepb.BackendService) error
	ResetInstance(ctx context.Context, ref *scope.Reference) error
	GetOperation(ctx context.Context, ref *scope.Reference) (resource.Record, error)
	DeleteForwardingRules(ctx context.Context, refs []*scope.Reference) error
	AddInstancesToTargetPool(ctx context.Context, pool *scope.Reference, instances []*scope.Reference) error
}

// SQLAPI is the part of gcp.SQL the commands use.
type SQLAPI interface {
	Instance(value string) (gcp.SQLInstance, error)
	ListInstances(ctx context.Context) ([]resource.Record, error)
	Clone(ctx context.Context, src, dst gcp.SQLInstance, opts gcp.CloneOptions) (resource.Record, error)
	Restart(ctx context.Context, ref gcp.SQLInstance) (resource.Record, error)
	PromoteReplica(ctx context.Context, ref gcp.SQLInstance) (resource.Record, error)
	ListBackupRuns(ctx context.Context, ref gcp.SQLInstance) ([]resource.Record, error)
	GetBackupRun(ctx context.Context, ref gcp.SQLInstance, idOrDueTime string) (resource.Record, error)
	ListOperations(ctx context.Context, ref gcp.SQLInstance) ([]resource.Record, error)
	GetOperation(ctx context.Context, name string) (resource.Record, error)
	ListSSLCerts(ctx context.Context, ref gcp.SQLInstance) ([]resource.Record, error)
	GetSSLCert(ctx context.Context, ref gcp.SQLInstance, commonName string) (resource.Record, error)
	DeleteSSLCert(ctx context.Context, ref gcp.SQLInstance, commonName string) (resource.Record, error)
	ListFlags(ctx context.Context) ([]resource.Record, error)
}

// Prompter asks the user for scope choices and confirmations.
type Prompter interface {
	scope.Prompter
	Confirm(message string) (bool, error)
}

type globalOptions struct {
	cfgFile        string
	project        string
	format         string
	verbosity      string
	credentialFile string
	quiet          bool
}

// app carries what every command needs once the root has run.
type app struct {
	opts globalOptions

	v        *viper.Viper
	store    *config.Store
	cfg      *config.Config
	log      *logger.Logger
	registry *resource.Registry
	compute  ComputeAPI
	sql      SQLAPI
	prompter Prompter
	resolver *scope.Resolver

	newClients  func(cfg *config.Config, log *logger.Logger) (ComputeAPI, SQLAPI)
	newPrompter func(disabled bool) Prompter
	newTokens   func(cfg *config.Config) githelper.TokenSource
	credentials func(cfg *config.Config) gcp.Credentials
}

func newApp() *app {
	a := &app{v: viper.New()}
	a.credentials = func(cfg *config.Config) gcp.Credentials {
		return gcp.Credentials{Credential: cfg.CredentialFile}
	}
	a.newClients = func(cfg *config.Config, log *logger.Logger) (ComputeAPI, SQLAPI) {
		creds := a.credentials(cfg)
		waiter := gcp.NewWaiter(0, os.Stderr)
		return gcp.NewCompute(cfg.Project, creds, waiter, log), gcp.NewSQL(cfg.Project, creds, waiter, log)
	}
	a.newPrompter = func(disabled bool) Prompter {
		return scope.NewHuhPrompter(disabled)
	}
	a.newTokens = func(cfg *config.Config) githelper.TokenSource {
		return a.credentials(cfg)
	}
	return a
}

// Execute runs the gcli command tree.
func Execute() error {
	return newRootCmd(newApp()).Execute()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gcli",
		Short: "gcli - command line access to Compute Engine and Cloud SQL",
		Long: `gcli lists, describes and changes Google Compute Engine and Cloud SQL
resources. Zonal and regional resources given by name are resolved
against --zone/--region, the compute/zone and compute/region properties,
or an interactive prompt.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.cfgFile, "config", "", "config file (default $HOME/.gcli/config.yaml)")
	flags.StringVar(&a.opts.project, "project", "", "Google Cloud project (overrides core/project)")
	flags.StringVar(&a.opts.format, "format", "table", "output format: table, json, yaml")
	flags.StringVar(&a.opts.verbosity, "verbosity", "", "log level: debug, info, warning, error, critical, none")
	flags.StringVar(&a.opts.credentialFile, "credential-file", "", "service account key file (overrides core/credential_file)")
	flags.BoolVarP(&a.opts.quiet, "quiet", "q", false, "disable all interactive prompts")

	_ = a.v.BindPFlag(config.Project.Key(), flags.Lookup("project"))
	_ = a.v.BindPFlag(config.Verbosity.Key(), flags.Lookup("verbosity"))
	_ = a.v.BindPFlag(config.CredentialFile.Key(), flags.Lookup("credential-file"))
	_ = a.v.BindPFlag(config.DisablePrompts.Key(), flags.Lookup("quiet"))

	rootCmd.AddCommand(newComputeCmd(a))
	rootCmd.AddCommand(newSQLCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newAuthCmd(a))

	return rootCmd
}

// setup loads configuration and builds the clients. Commands that only
// touch configuration never create API clients.
func (a *app) setup(cmd *cobra.Command) error {
	if err := validator.New().Check(struct {
		Format string `flag:"format" validate:"oneof=table json yaml"`
	}{a.opts.format}); err != nil {
		return err
	}

	path, err := config.Init(a.v, a.opts.cfgFile)
	if err != nil {
		return err
	}
	a.store = config.NewStore(a.v, path)

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Level: cfg.Verbosity, Format: "console", Output: cmd.ErrOrStderr()})
	a.log.Debugf("using config file %s", path)

	if isConfigCommand(cmd) || isAuthCommand(cmd) {
		return nil
	}

	if a.registry, err = resource.DefaultRegistry(); err != nil {
		return err
	}
	if a.compute == nil || a.sql == nil {
		a.compute, a.sql = a.newClients(cfg, a.log)
	}
	if a.prompter == nil {
		a.prompter = a.newPrompter(cfg.DisablePrompts)
	}
	a.resolver = scope.NewResolver(cfg.Project, cfg, a.compute, a.prompter, a.log)
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool { return underGroup(cmd, "config") }

func isAuthCommand(cmd *cobra.Command) bool { return underGroup(cmd, "auth") }

func underGroup(cmd *cobra.Command, name string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == name && c.Parent() != nil && !c.Parent().HasParent() {
			return true
		}
	}
	return false
}
