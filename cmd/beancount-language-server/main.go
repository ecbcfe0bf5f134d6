package main

import (
	"github.com/alecthomas/kong"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/matze/beancount-language-server/lsp"
)

// version is set during the build using ldflags.
var version = "0.1.0-dev"

var cli struct {
	Root      string           `help:"Path to the ledger's main file, loaded with its includes on startup." type:"path"`
	LogFile   string           `help:"Write logs to this file. Logging to stderr corrupts some clients' pipes." type:"path"`
	Verbosity int              `short:"v" type:"counter" help:"Increase log verbosity, repeatable."`
	Version   kong.VersionFlag `help:"Print the version and exit."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("beancount-language-server"),
		kong.Description("Language server for Beancount ledger files, speaking LSP over stdio."),
		kong.Vars{"version": version},
	)

	var logPath *string
	if cli.LogFile != "" {
		logPath = &cli.LogFile
	}
	commonlog.Configure(cli.Verbosity, logPath)

	srv, err := lsp.NewServer(version, cli.Root)
	kctx.FatalIfErrorf(err)

	kctx.FatalIfErrorf(srv.RunStdio())
}
