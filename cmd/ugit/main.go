package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/ugit/pkg/repo"
)

// Exit codes, one per error kind.
const (
	exitOK           = 0
	exitIO           = 1
	exitNotFound     = 2
	exitCorruption   = 3
	exitInvalidName  = 4
	exitPrecondition = 5
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root, g := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	_ = g.logger.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "ugit: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch repo.Kind(err) {
	case repo.KindNone:
		return exitOK
	case repo.KindNotFound:
		return exitNotFound
	case repo.KindCorruption:
		return exitCorruption
	case repo.KindInvalidName:
		return exitInvalidName
	case repo.KindPrecondition:
		return exitPrecondition
	default:
		return exitIO
	}
}

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	dir       string
	logLevel  string
	logFormat string

	logger *zap.Logger
}

func (g *globalFlags) openRepo() (*repo.Repo, error) {
	return repo.Open(g.dir, repo.WithLogger(g.logger))
}

// path resolves p against the -C directory.
func (g *globalFlags) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(g.dir, p)
}

func newRootCmd() (*cobra.Command, *globalFlags) {
	g := &globalFlags{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "ugit",
		Short:         "A minimal content-addressed version control tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), g.logLevel, g.logFormat)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&g.dir, "dir", "C", ".", "run as if ugit was started in this directory")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level [debug,info,warn,error]")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format [text,json]")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(g))
	root.AddCommand(newHashObjectCmd(g))
	root.AddCommand(newCatFileCmd(g))
	root.AddCommand(newWriteTreeCmd(g))
	root.AddCommand(newReadTreeCmd(g))
	root.AddCommand(newCommitCmd(g))
	root.AddCommand(newLogCmd(g))
	root.AddCommand(newCheckoutCmd(g))
	root.AddCommand(newTagCmd(g))
	root.AddCommand(newBranchCmd(g))
	root.AddCommand(newSwitchCmd(g))
	root.AddCommand(newShowRefCmd(g))
	root.AddCommand(newSymbolicRefCmd(g))
	root.AddCommand(newVerifyCmd(g))

	return root, g
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ugit 0.1.0-dev")
		},
	}
}
