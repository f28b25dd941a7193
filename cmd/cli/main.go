package main

import (
	"context"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/surplus/cmd/cli/internal/commands"
	"github.com/wolfeidau/surplus/internal/logger"
	"github.com/wolfeidau/surplus/internal/telemetry"
)

var (
	version = "dev"
	cli     struct {
		Login        commands.LoginCmd        `cmd:"" help:"Sign in"`
		Register     commands.RegisterCmd     `cmd:"" help:"Create an account"`
		Logout       commands.LogoutCmd       `cmd:"" help:"Sign out"`
		Whoami       commands.WhoamiCmd       `cmd:"" help:"Show the signed in user"`
		Profile      commands.ProfileCmd      `cmd:"" help:"Update your profile"`
		BecomeSeller commands.BecomeSellerCmd `cmd:"" help:"Upgrade to a seller account"`
		Deals        commands.DealsCmd        `cmd:"" help:"Search deals"`
		Deal         commands.DealCmd         `cmd:"" help:"Show a deal"`
		Orders       commands.OrdersCmd       `cmd:"" help:"Manage orders"`
		Store        commands.StoreCmd        `cmd:"" help:"Manage your store"`
		Products     commands.ProductsCmd     `cmd:"" help:"Manage your products"`
		Rate         commands.RateCmd         `cmd:"" help:"Rate Surplus"`
		Reviews      commands.ReviewsCmd      `cmd:"" help:"Read customer reviews"`
		Session      commands.SessionCmd      `cmd:"" help:"Session utilities"`

		Debug    bool   `help:"Enable debug mode." env:"SURPLUS_DEBUG"`
		Config   string `help:"Config file (default: ~/.surplus/config.yaml)" env:"SURPLUS_CONFIG" type:"path"`
		APIURL   string `name:"api-url" help:"API base URL" env:"SURPLUS_API_URL"`
		StateDir string `help:"Directory holding the session state" env:"SURPLUS_STATE_DIR" type:"path"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("surplus"),
		kong.Description("Rescue surplus food deals from local sellers."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	globals := &commands.Globals{
		Debug:    cli.Debug,
		Version:  version,
		Config:   cli.Config,
		APIURL:   cli.APIURL,
		StateDir: cli.StateDir,
	}

	cfg, err := globals.LoadConfig()
	cmd.FatalIfErrorf(err)

	log.Logger = logger.Setup(cli.Debug, logger.FileOptions{Path: cfg.LogFile})

	shutdown, err := telemetry.Init(ctx, telemetry.Options{ServiceName: "surplus", Version: version})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
		shutdown = func(context.Context) error { return nil }
	}

	err = cmd.Run(globals)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := shutdown(shutdownCtx); serr != nil {
		log.Debug().Err(serr).Msg("Failed to shutdown telemetry")
	}

	cmd.FatalIfErrorf(err)
}
