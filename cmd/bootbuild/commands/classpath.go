package commands

import (
	"fmt"

	"git.home.luguber.info/inful/bootbuild/internal/deps"
)

// ClasspathCmd implements the 'classpath' command.
type ClasspathCmd struct {
	Variant   string `arg:"" optional:"" help:"Variant whose classpath to print (default from configuration)"`
	Separator string `name:"separator" help:"Override the host classpath separator"`
	Lines     bool   `name:"lines" help:"Print one archive per line instead of a joined classpath"`
}

func (c *ClasspathCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if _, err := cfg.Variant(c.Variant); err != nil {
		return err
	}
	archives, err := deps.NewScanner(cfg.LibraryDir, cfg.ArchiveSuffix).Scan()
	if err != nil {
		return err
	}

	if c.Lines {
		for _, a := range archives {
			_, _ = fmt.Fprintln(g.Out, a)
		}
		return nil
	}
	sep := c.Separator
	if sep == "" {
		sep = deps.Separator(deps.HostFamily())
	}
	_, _ = fmt.Fprintln(g.Out, archives.Join(sep))
	return nil
}
