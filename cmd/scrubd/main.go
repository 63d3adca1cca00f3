// scrubd serves the sanitization tool catalog over the dispatch protocol.
//
// Examples:
//
//	export OPENAI_API_KEY=...
//	scrubd -addr :8035 -provider openai -model gpt-4o-mini
//
//	export OLLAMA_HOST=http://localhost:11434
//	scrubd -provider ollama -model llama3.2
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/scrublab/scrub/pkg/rpc"
	"github.com/scrublab/scrub/pkg/sanitize"
)

var (
	flagAddr     = flag.String("addr", ":8035", "Listen address")
	flagProvider = flag.String("provider", "openai", "Default LLM provider: openai|gemini|anthropic|ollama|dummy")
	flagModel    = flag.String("model", "", "Model ID for the selected provider")
	flagTimeout  = flag.Duration("timeout", 90*time.Second, "Per-call generation timeout")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	exec, err := sanitize.NewExecutor(sanitize.ExecutorOptions{
		DefaultProvider: *flagProvider,
		Model:           *flagModel,
		Timeout:         *flagTimeout,
	})
	if err != nil {
		fail(err)
	}

	cat, err := sanitize.NewCatalog()
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := rpc.NewServer(cat, exec)
	log.Printf("scrubd listening on %s (%d tools, default provider %s)", *flagAddr, cat.Len(), *flagProvider)
	if err := srv.Start(ctx, *flagAddr); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
