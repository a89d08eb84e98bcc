package runtime

import (
	"fmt"
	"io"

	"github.com/gitbutler/but-workspace/internal/config"
	"github.com/gitbutler/but-workspace/internal/git"
	"github.com/gitbutler/but-workspace/internal/output"
	"github.com/gitbutler/but-workspace/internal/state"
	"github.com/gitbutler/but-workspace/internal/workspace"
)

// Options are the values the CLI resolves from its global flags
type Options struct {
	// RepoPath is any path inside the repository; empty means the working directory
	RepoPath string
	// GBDir overrides the configured GitButler state directory
	GBDir string
	Debug bool
	// LogWriter receives console log output; nil means stderr
	LogWriter io.Writer
}

// Context provides access to the workspace and output for commands
type Context struct {
	Workspace *workspace.Workspace
	Splog     *output.Splog
	RepoRoot  string
	GitDir    string
	GBDir     string
	Config    *config.RepoConfig
}

// NewContext opens the repository, reads its configuration and wires up the workspace
func NewContext(opts Options) (*Context, error) {
	repoPath := opts.RepoPath
	if repoPath == "" {
		repoPath = "."
	}
	repo, err := git.OpenRepository(repoPath)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	cfg, err := config.GetRepoConfig(repo.GitDir())
	if err != nil {
		return nil, err
	}

	splog, err := output.NewSplogWithConfig(output.SplogConfig{
		Writer:  opts.LogWriter,
		Debug:   opts.Debug,
		LogFile: output.LogFilePath(cfg.GetLogFile()),
	})
	if err != nil {
		return nil, err
	}

	matchOrder, err := workspace.ParseMatchOrder(cfg.GetMatchOrder())
	if err != nil {
		_ = splog.Close()
		return nil, fmt.Errorf("invalid repo config: %w", err)
	}

	gbDir := opts.GBDir
	if gbDir == "" {
		gbDir = cfg.GetGBDir(repo.GitDir())
	}
	splog.Debug("repository %s, state in %s", repo.Root(), gbDir)

	ws := workspace.New(repo, state.NewVirtualBranchesHandle(gbDir),
		workspace.WithOptions(workspace.Options{WalkLimit: cfg.GetWalkLimit(), MatchOrder: matchOrder}),
		workspace.WithConcurrency(cfg.GetConcurrency()),
		workspace.WithLogger(splog),
	)

	return &Context{
		Workspace: ws,
		Splog:     splog,
		RepoRoot:  repo.Root(),
		GitDir:    repo.GitDir(),
		GBDir:     gbDir,
		Config:    cfg,
	}, nil
}

// Close releases the log file, if any
func (c *Context) Close() error {
	return c.Splog.Close()
}
