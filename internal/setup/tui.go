// Package setup provides an interactive terminal wizard that generates a
// config.gen.yaml for the advisor.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

type instrumentYaml struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name,omitempty"`
	Category string `yaml:"category,omitempty"`
}

type configYaml struct {
	Platform        string           `yaml:"platform"`
	AssetClass      string           `yaml:"asset_class"`
	Watchlist       []instrumentYaml `yaml:"watchlist,omitempty"`
	InvestAmount    string           `yaml:"invest_amount"`
	TopN            int              `yaml:"top_n"`
	AnalyzeInterval time.Duration    `yaml:"analyze_interval"`
	ScanSchedule    string           `yaml:"scan_schedule"`
	JournalDir      string           `yaml:"journal_dir,omitempty"`
}

// RunTUI launches the terminal configuration wizard.
func RunTUI() error {
	var (
		platform    string
		assetClass  string
		watchlist   string
		amountStr   string
		topNStr     string
		intervalStr string
		schedule    string
		journalDir  string
		confirm     bool
	)

	// defaults
	watchlist = "BTCUSDT,ETHUSDT"
	amountStr = "1000"
	topNStr = "5"
	intervalStr = "1h"
	schedule = "0 9 * * MON"
	journalDir = "analyses"

	// step 1: welcome
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("FINSIGHT CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's get your advisor configured in style.\n"))

	// platform
	fmt.Println(stepStyle.Render("STEP 1: DATA SOURCE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Market Data Platform").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Simulation", "simulate"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	// asset class
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINSIGHT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: ASSET CLASS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What are you analyzing?").
				Options(
					huh.NewOption("Crypto", "crypto"),
					huh.NewOption("Stocks", "stock"),
					huh.NewOption("Tech Stocks", "tech"),
				).
				Value(&assetClass),
		),
	).Run()
	if err != nil {
		return err
	}

	// watchlist
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINSIGHT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: WATCHLIST"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Watchlist Symbols").
				Description("Comma-separated (e.g. BTCUSDT,ETHUSDT)").
				Value(&watchlist).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("watchlist cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// capital and ranking
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINSIGHT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: CAPITAL"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Investable Amount").
				Description("Total capital to project across opportunities (e.g. 1000)").
				Value(&amountStr).
				Validate(validateAmount),
			huh.NewInput().
				Title("Top Opportunities").
				Description("How many ranked opportunities to keep (e.g. 5)").
				Value(&topNStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// timing
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINSIGHT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 5: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Watchlist Analysis Interval").
				Description("Duration string (e.g. 30m, 1h, 4h)").
				Value(&intervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Opportunity Scan Schedule").
				Description("Cron spec (e.g. 0 9 * * MON)").
				Value(&schedule),
			huh.NewInput().
				Title("Journal Directory").
				Description("Where analysis results are persisted").
				Value(&journalDir),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("FINSIGHT CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Platform: %s\nAsset class: %s\nWatchlist: %s\nAmount: %s\nTop N: %s\nInterval: %s\nSchedule: %s\n",
		platform, assetClass, watchlist, amountStr, topNStr, intervalStr, schedule,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save it").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	interval, _ := time.ParseDuration(intervalStr)
	topN, _ := strconv.Atoi(topNStr)

	cfg := configYaml{
		Platform:        platform,
		AssetClass:      assetClass,
		InvestAmount:    amountStr,
		TopN:            topN,
		AnalyzeInterval: interval,
		ScanSchedule:    schedule,
		JournalDir:      journalDir,
	}
	for _, symbol := range strings.Split(watchlist, ",") {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}
		cfg.Watchlist = append(cfg.Watchlist, instrumentYaml{Symbol: symbol})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Bold(true).Render("\nConfiguration saved to " + filename))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Run the advisor with: finsight --config " + filename + "\n"))

	return nil
}

func validateAmount(s string) error {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !amount.IsPositive() {
		return fmt.Errorf("must be positive")
	}
	return nil
}
