package main

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/raysh454/exploder/internal/demoserver"
	"github.com/raysh454/exploder/internal/extractor"
	"github.com/raysh454/exploder/internal/logging"
	"github.com/raysh454/exploder/internal/webclient"
)

func main() {
	// Serve the demo site in-process and point the extractor at it.
	demo := demoserver.NewDemoServer(demoserver.DefaultConfig())
	server := httptest.NewServer(demo.Handler())
	defer server.Close() // Close AFTER extracting

	logger := logging.NewStdoutLogger("demo")
	wc, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logger, server.Client())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer wc.Close()

	ex := extractor.NewExploder(extractor.DefaultConfig(), wc, logger)
	assets, err := ex.Explode(context.Background(), server.URL+"/")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("images: %v\n", assets.Images)
	fmt.Printf("colors: %v\n", assets.Colors)
	fmt.Printf("fonts:  %v\n", assets.Fonts)
}
