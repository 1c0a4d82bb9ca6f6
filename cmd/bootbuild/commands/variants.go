package commands

import (
	"fmt"
	"text/tabwriter"
)

// VariantsCmd implements the 'variants' command.
type VariantsCmd struct{}

func (v *VariantsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VARIANT\tMAIN CLASS\tARTIFACT\tPACKAGER")
	for _, name := range cfg.VariantNames() {
		variant := cfg.Variants[name]
		marker := ""
		if name == cfg.DefaultVariant {
			marker = " (default)"
		}
		_, _ = fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\n", name, marker, variant.MainClass, variant.Artifact, variant.Packager)
	}
	return tw.Flush()
}
