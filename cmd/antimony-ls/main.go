package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/antimonylang/antimony-ls/internal/lsp"
	"github.com/antimonylang/antimony-ls/internal/server"
)

const (
	version = "0.1.0"
)

var (
	tcpMode  bool
	tcpPort  int
	logLevel string
	logFile  string
)

func init() {
	// Command-line flags
	flag.BoolVar(&tcpMode, "tcp", false, "Run server in TCP mode (for debugging)")
	flag.IntVar(&tcpPort, "port", 8765, "TCP port to listen on (used with -tcp)")
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "antimony-ls version %s\n\n", version)
	fmt.Fprintf(os.Stderr, "Usage: antimony-ls [options]\n\n")
	fmt.Fprintf(os.Stderr, "Language server for the Antimony reaction-network DSL\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	// Print version if requested
	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("antimony-ls version %s\n", version)
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "antimony-ls version %s starting...\n", version)
	fmt.Fprintf(os.Stderr, "Transport: ")
	if tcpMode {
		fmt.Fprintf(os.Stderr, "TCP (port %d)\n", tcpPort)
	} else {
		fmt.Fprintf(os.Stderr, "STDIO\n")
	}
	fmt.Fprintf(os.Stderr, "Log level: %s\n", logLevel)

	// Initialize server state
	srv := server.New()

	// Set up logging
	setupLogging()

	// Create GLSP handler
	handler := protocol.Handler{
		Initialize:                 lsp.Initialize,
		Initialized:                lsp.Initialized,
		Shutdown:                   lsp.Shutdown,
		SetTrace:                   func(context *glsp.Context, params *protocol.SetTraceParams) error { return nil },
		TextDocumentDidOpen:        lsp.DidOpen,
		TextDocumentDidChange:      lsp.DidChange,
		TextDocumentDidClose:       lsp.DidClose,
		TextDocumentHover:          lsp.Hover,
		TextDocumentDefinition:     lsp.Definition,
		TextDocumentDocumentSymbol: lsp.DocumentSymbol,
		WorkspaceExecuteCommand:    lsp.ExecuteCommand,
	}

	// Create GLSP server
	glspServer := glspserver.NewServer(&handler, "antimony-ls", false)

	// Store our server instance for handler access
	lsp.SetServer(srv)

	// Start server with appropriate transport
	if tcpMode {
		fmt.Fprintf(os.Stderr, "Starting TCP server on port %d...\n", tcpPort)
		if err := glspServer.RunTCP(fmt.Sprintf("127.0.0.1:%d", tcpPort)); err != nil {
			log.Fatalf("TCP server error: %v", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Starting STDIO server...\n")
		if err := glspServer.RunStdio(); err != nil {
			log.Fatalf("STDIO server error: %v", err)
		}
	}
}

// setupLogging configures both the standard logger used by the handlers
// and commonlog, which the GLSP machinery logs through.
func setupLogging() {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		log.SetOutput(f)
	} else {
		log.SetOutput(os.Stderr)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var path *string
	if logFile != "" {
		path = &logFile
	}
	commonlog.Configure(verbosityFor(logLevel), path)
}

// verbosityFor maps the flag value onto commonlog's verbosity scale.
func verbosityFor(level string) int {
	switch level {
	case "debug":
		return 3
	case "info":
		return 2
	case "warn":
		return 1
	default:
		return 0
	}
}
