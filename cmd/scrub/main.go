// scrub sanitizes a piece of text through a running scrubd server, letting
// a language model pick the right tool for the stated intent.
//
// Examples:
//
//	export OPENAI_API_KEY=...
//	scrub -intent "Anonymize PII" -text "John Smith, email: john@x.com"
//
//	scrub -server http://localhost:8035 -provider anthropic \
//	    -intent "Redact financial data" -stdin < statement.txt
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/scrublab/scrub"
)

var (
	flagServer   = flag.String("server", "http://localhost:8035", "Dispatch server base URL")
	flagText     = flag.String("text", "", "Text to sanitize (ignored if -stdin is set)")
	flagStdin    = flag.Bool("stdin", false, "Read text from STDIN")
	flagIntent   = flag.String("intent", "", "What to sanitize, e.g. \"Anonymize PII\"")
	flagProvider = flag.String("provider", "openai", "LLM provider: openai|gemini|anthropic|ollama|dummy")
	flagModel    = flag.String("model", "", "Model ID for the selected provider")
	flagTimeout  = flag.Duration("timeout", 90*time.Second, "Overall request timeout")
	flagJSON     = flag.Bool("json", false, "Print JSON {sanitizedText, toolUsed, modelUsed}")
	flagQuiet    = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	text, err := getText(*flagText, *flagStdin, os.Stdin)
	if err != nil {
		fail(err)
	}
	if strings.TrimSpace(text) == "" {
		fail(errors.New("no text provided"))
	}
	if strings.TrimSpace(*flagIntent) == "" {
		fail(errors.New("no intent provided"))
	}

	orch, err := scrub.New(scrub.Options{
		ServerURL: *flagServer,
		Provider:  strings.ToLower(*flagProvider),
		Model:     *flagModel,
	})
	if err != nil {
		fail(err)
	}

	var result *scrub.Result
	for ev := range orch.Run(ctx, scrub.Request{Text: text, Intent: *flagIntent}) {
		switch {
		case ev.Err != nil:
			fail(ev.Err)
		case ev.Result != nil:
			result = ev.Result
		default:
			if !*flagQuiet {
				fmt.Fprintln(os.Stderr, "->", ev.Step)
			}
		}
	}

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}
	fmt.Println(result.SanitizedText)
	if !*flagQuiet {
		fmt.Fprintf(os.Stderr, "tool=%s model=%s\n", result.ToolUsed, result.ModelUsed)
	}
}

func getText(flagText string, useStdin bool, r io.Reader) (string, error) {
	if !useStdin {
		return flagText, nil
	}
	var b strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		b.WriteString(sc.Text())
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
