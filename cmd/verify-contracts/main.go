// verify-contracts отправляет исходники развёрнутых контрактов на верификацию
// в block explorer выбранной сети деплоя.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propchain/internal/chain"
	"propchain/internal/config"
	"propchain/internal/explorer"
	"propchain/internal/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	network         string
	deployments     string
	explorerAPI     string
	strict          bool
	checkRPC        bool
	compilerVersion string
	optimize        bool
	runs            int
}

// run возвращает код выхода. Ошибки до начала цикла дают 1, частичные
// неудачи внутри цикла дают 0, если не задан --strict
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	v, err := config.New()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	var opts options
	fs := pflag.NewFlagSet("verify-contracts", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.network, "network", "n", "", "deployment network key, name or chain id (baseSepolia, electroneum)")
	fs.StringVarP(&opts.deployments, "deployments", "f", "deployments.json", "JSON file with deployed contract addresses")
	fs.StringVar(&opts.explorerAPI, "explorer-api", "", "override the explorer API URL of the network")
	fs.BoolVar(&opts.strict, "strict", false, "exit with code 1 if any contract failed to verify")
	fs.BoolVar(&opts.checkRPC, "check-rpc", false, "probe the network RPC with eth_chainId before verifying")
	fs.StringVar(&opts.compilerVersion, "compiler-version", "", "solc version for contracts that do not set compilerVersion")
	fs.BoolVar(&opts.optimize, "optimize", true, "contracts were compiled with the optimizer enabled")
	fs.IntVar(&opts.runs, "optimizer-runs", 200, "optimizer runs")
	fs.Duration("delay", 5*time.Second, "pause between contracts")
	fs.Duration("poll-interval", 3*time.Second, "interval between verification status checks")
	fs.String("api-key", "", "explorer API key (EXPLORER_API_KEY)")
	fs.String("log-level", "info", "log level")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	for key, flag := range map[string]string{
		"explorer.delay":         "delay",
		"explorer.poll_interval": "poll-interval",
		"explorer.api_key":       "api-key",
		"log.level":              "log-level",
	} {
		f := fs.Lookup(flag)
		// флаг по умолчанию не должен перекрывать config.yaml и окружение
		if !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			fmt.Fprintf(stderr, "Failed to bind flag %s: %v\n", flag, err)
			return 1
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	if opts.network == "" {
		log.Error("--network is required")
		return 1
	}
	network, err := chain.NewRegistry(cfg.Chain).Lookup(opts.network)
	if err != nil {
		log.Error("Unknown network", zap.Error(err))
		return 1
	}
	apiURL := network.ExplorerAPIURL
	if opts.explorerAPI != "" {
		apiURL = opts.explorerAPI
	}
	if apiURL == "" {
		log.Error("Network has no explorer API", zap.String("network", network.Name))
		return 1
	}

	if opts.checkRPC {
		rpcCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := chain.NewRPCClient(10*time.Second).CheckNetwork(rpcCtx, network)
		cancel()
		if err != nil {
			log.Error("RPC check failed", zap.Error(err))
			return 1
		}
		log.Info("RPC check passed", zap.String("rpc", network.RPCURL), zap.Int64("chain_id", network.ID))
	}

	deployments, err := explorer.LoadDeployments(opts.deployments)
	if err != nil {
		log.Error("Failed to load deployments", zap.Error(err))
		return 1
	}
	if cfg.Explorer.APIKey == "" {
		log.Warn("Explorer API key is empty, requests may be rejected")
	}

	log.Info("Verifying contracts",
		zap.String("network", network.Name),
		zap.String("explorer", apiURL),
		zap.Int("contracts", len(deployments)),
		zap.Duration("delay", cfg.Explorer.Delay))

	client := explorer.NewClient(apiURL, cfg.Explorer.APIKey, cfg.Explorer.PollInterval, cfg.Explorer.PollTimeout, log)
	runner := explorer.NewRunner(client, cfg.Explorer.Delay, explorer.Defaults{
		CompilerVersion:  opts.compilerVersion,
		OptimizationUsed: opts.optimize,
		Runs:             opts.runs,
	}, log)

	results, runErr := runner.Run(ctx, deployments)
	printResults(stdout, results)

	summary := explorer.Summarize(results)
	fmt.Fprintf(stdout, "\n%d verified, %d already verified, %d failed\n",
		summary.Verified, summary.AlreadyVerified, summary.Failed)

	if runErr != nil {
		log.Error("Verification interrupted", zap.Error(runErr), zap.Int("done", len(results)))
		return 1
	}
	if opts.strict && summary.HasFailures() {
		return 1
	}
	return 0
}

func printResults(w io.Writer, results []explorer.Result) {
	for _, r := range results {
		switch r.Outcome {
		case explorer.OutcomeVerified:
			fmt.Fprintf(w, "%s (%s): verified\n", r.Name, r.Address)
		case explorer.OutcomeAlreadyVerified:
			fmt.Fprintf(w, "%s (%s): already verified\n", r.Name, r.Address)
		default:
			fmt.Fprintf(w, "%s (%s): failed: %v\n", r.Name, r.Address, r.Err)
		}
	}
}
