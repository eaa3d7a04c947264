package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/qmotors/dealerbot-go/internal/cache"
	"github.com/qmotors/dealerbot-go/internal/cms"
	"github.com/qmotors/dealerbot-go/internal/config"
	"github.com/qmotors/dealerbot-go/internal/dealer"
	"github.com/qmotors/dealerbot-go/internal/finance"
	"github.com/qmotors/dealerbot-go/internal/gateway"
	"github.com/qmotors/dealerbot-go/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dealerbot tool gateway",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Gateway port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.ApplyEnv(&cfg)

	port := cfg.Gateway.Port
	if servePort != 0 {
		port = servePort
	}

	if cache.Init(cache.Config{
		URL:      cfg.Cache.RedisURL,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
		TTL:      time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
	}) {
		defer cache.Close()
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	srv := gateway.NewServer(gateway.ServerConfig{
		Port:     port,
		APIKey:   cfg.Gateway.APIKey,
		Registry: registry,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	return srv.Start(ctx)
}

// buildRegistry wires every tool the configuration supports. The financing
// calculators always register; CMS and dealership tools need their base
// URLs configured.
func buildRegistry(cfg config.Config) (*tools.Registry, error) {
	book := finance.DefaultRateBook()
	if cfg.Finance.RateBookPath != "" {
		var err error
		book, err = finance.LoadRateBook(cfg.Finance.RateBookPath)
		if err != nil {
			return nil, fmt.Errorf("loading rate book: %w", err)
		}
	}

	r := tools.NewRegistry()
	r.Register(&tools.FinancingTool{Book: book})
	r.Register(&tools.VehicleTypesTool{Book: book})
	r.Register(&tools.ScenariosTool{Book: book})

	if cfg.CMS.BaseURL != "" {
		client := cms.NewClient(cms.Config{
			BaseURL:  cfg.CMS.BaseURL,
			Site:     cfg.CMS.Site,
			Brand:    cfg.CMS.Brand,
			Language: cfg.CMS.Language,
		})
		r.Register(&tools.CarModelsTool{CMS: client})
		r.Register(&tools.SpecialOffersTool{CMS: client})
		r.Register(&tools.TermsConditionsTool{CMS: client})
	} else {
		log.Println("[Serve] cms.baseUrl not configured, catalogue tools disabled")
	}

	if cfg.Dealer.BaseURL != "" {
		client := dealer.NewClient(cfg.Dealer.BaseURL)
		r.Register(&tools.TestDriveCarsTool{Dealer: client})
		r.Register(&tools.TestDriveLocationsTool{Dealer: client})
		r.Register(&tools.TestDriveSlotsTool{Dealer: client})
		r.Register(&tools.BookTestDriveTool{Dealer: client})
		r.Register(&tools.RequestOTPTool{Dealer: client})
		r.Register(&tools.VerifyOTPTool{Dealer: client})
	} else {
		log.Println("[Serve] dealer.baseUrl not configured, test drive tools disabled")
	}

	return r, nil
}
