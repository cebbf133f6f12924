// Command exploder extracts design assets (images, colors, fonts) from a web
// page, either as a one-shot CLI run or as an HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raysh454/exploder/internal/app"
	"github.com/raysh454/exploder/internal/extractor"
	"github.com/raysh454/exploder/internal/logging"
	"github.com/raysh454/exploder/internal/server"
	"github.com/raysh454/exploder/internal/webclient"
)

const version = "0.1.0"

var (
	targetURL  string
	backend    string
	timeout    time.Duration
	configPath string
	listenAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "exploder",
		Short: "Extract design assets from a web page",
		Long:  "A tool to extract image references, color values and font families from a web document and its stylesheets",
		Run:   runExtract,
	}

	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "Target page URL (required)")
	rootCmd.Flags().StringVar(&backend, "backend", "nethttp", "Webclient backend: nethttp or chromedp")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Page fetch timeout")

	rootCmd.MarkFlagRequired("url")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP API server",
		Run:   runServe,
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (optional)")
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address, overrides config")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("exploder version %s\n", version)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runExtract(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	logger := logging.NewStdoutLogger("CLI")

	wcCfg := webclient.DefaultConfig()
	wcCfg.Client = webclient.Client(backend)
	wcCfg.Timeout = timeout

	webclient.RegisterDefaultBackends()
	wc, err := webclient.NewWebClient(wcCfg, logger)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer wc.Close()

	ex := extractor.NewExploder(extractor.DefaultConfig(), wc, logger)

	assets, err := ex.Explode(context.Background(), targetURL)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cyan.Printf("\nAssets of %s\n", targetURL)
	cyan.Println("========================")

	bold.Printf("\nColors (%d)\n", len(assets.Colors))
	for _, hex := range assets.Colors {
		fmt.Printf("  %s %s\n", swatch(hex), hex)
	}

	bold.Printf("\nFonts (%d)\n", len(assets.Fonts))
	for _, family := range assets.Fonts {
		fmt.Printf("  %s\n", family)
	}

	bold.Printf("\nImages (%d)\n", len(assets.Images))
	for _, img := range assets.Images {
		fmt.Printf("  %s\n", img)
	}
}

// swatch renders a colored block approximating the hex value using the
// closest basic terminal color.
func swatch(hex string) string {
	c := color.New(closestColor(hex))
	return c.Sprint("██")
}

// closestColor maps a #RRGGBB string onto one of the 8 basic ANSI colors.
func closestColor(hex string) color.Attribute {
	if len(hex) != 7 {
		return color.FgWhite
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.FgWhite
	}

	attr := color.FgBlack
	if r > 127 {
		attr += 1 // red bit
	}
	if g > 127 {
		attr += 2 // green bit
	}
	if b > 127 {
		attr += 4 // blue bit
	}
	return attr
}

func runServe(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	cfg := app.DefaultConfig()
	if configPath != "" {
		loaded, err := app.LoadConfig(configPath)
		if err != nil {
			red.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	srv, err := server.NewServer(server.Config{AppConfig: cfg})
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer srv.Close()

	green.Printf("exploder API listening on %s\n", cfg.Server.ListenAddr)
	if err := srv.HTTPServer().ListenAndServe(); err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
