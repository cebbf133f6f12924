// Command demoserver starts the exploder demo site for trying out extraction.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/exploder/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   Exploder Demo Server")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This server provides CSS-heavy pages for trying")
	fmt.Println("the design-asset extractor against:")
	fmt.Println("  - Inline style attributes and <style> blocks")
	fmt.Println("  - Linked stylesheets (one of them always failing)")
	fmt.Println("  - A font-service link declaring families in its URL")
	fmt.Println("  - Plain and responsive (srcset) images")
	fmt.Println()

	srv := demoserver.NewDemoServer(cfg)
	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
