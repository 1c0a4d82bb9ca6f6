package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bootbuild/cmd/bootbuild/commands"
	"git.home.luguber.info/inful/bootbuild/internal/errors"
	"git.home.luguber.info/inful/bootbuild/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("bootbuild"),
		kong.Description("Clean, compile, package and launch a Java program from its sources."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(commands.NewGlobal(), cli)
	if err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
