// SPDX-License-Identifier: MPL-2.0

package chromium

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/command"
)

func (c *commands) build(ctx context.Context, opts *command.Options) error {
	targets := opts.Strings("targets")
	if len(targets) == 0 {
		c.em.Errorf("specify at least one target to build")
		return ErrNoTargets
	}
	build, err := buildPath(opts)
	if err != nil {
		return err
	}

	c.em.Infof("building %s", strings.Join(targets, " "))
	return c.em.Run(ctx, opts.SourcePath, c.ninja(opts, build, targets...)...)
}

func (c *commands) clean(ctx context.Context, opts *command.Options) error {
	build, err := buildPath(opts)
	if err != nil {
		return err
	}

	args := []string{"-t", "clean"}
	if !opts.Bool("force") {
		c.em.Infof("dry run; pass --force to remove files")
		args = append([]string{"-n"}, args...)
	}
	args = append(args, opts.Strings("targets")...)
	return c.em.Run(ctx, opts.SourcePath, c.ninja(opts, build, args...)...)
}

func (c *commands) clobber(ctx context.Context, opts *command.Options) error {
	force := opts.Bool("force")

	if opts.Bool("src") {
		mode := "-ndx"
		if force {
			mode = "-ffdx"
		}
		return c.em.Run(ctx, opts.SourcePath, c.tools.Git, "clean", mode)
	}

	build, err := buildPath(opts)
	if err != nil {
		return err
	}
	if !force {
		c.em.Infof("use --force to remove contents of %s", build)
		return nil
	}

	c.em.Infof("removing contents of %s", build)
	if err := os.RemoveAll(build); err != nil {
		c.em.Errorf("could not remove %s: %v", build, err)
		return fmt.Errorf("clobber %s: %w", build, err)
	}
	return c.prepare(ctx, opts)
}

func (c *commands) prepare(ctx context.Context, opts *command.Options) error {
	build, err := buildPath(opts)
	if err != nil {
		return err
	}
	mbConfig := opts.String("mb_config")
	if mbConfig == "" {
		return ErrNoMbConfig
	}

	argv := append(c.mbTool(opts), "gen", "-c", mbConfig)
	if goma := opts.String("goma_path"); goma != "" {
		argv = append(argv, "-g", goma)
	}
	argv = append(argv, build)

	c.em.Infof("generating %s", build)
	return c.em.Run(ctx, opts.SourcePath, argv...)
}

func (c *commands) run(ctx context.Context, opts *command.Options) error {
	build, err := buildPath(opts)
	if err != nil {
		return err
	}
	args := opts.Strings("command")
	if len(args) == 0 {
		return errors.New("no command to run")
	}
	return c.em.Run(ctx, build, expandTokens(args, opts, build)...)
}

func (c *commands) rebaseUpdate(ctx context.Context, opts *command.Options) error {
	argv := []string{c.tools.Git, "rebase-update", "--keep-going"}
	if !opts.Bool("fetch") {
		argv = append(argv, "--no-fetch")
	}
	if _, err := c.em.RunChecked(ctx, opts.SourcePath, c.tools.Git, "diff-index", "--quiet", "HEAD"); err != nil {
		c.em.Errorf("can't rebase-update with a dirty tree")
		return err
	}
	return c.em.Run(ctx, opts.SourcePath, argv...)
}
