package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/chayapa12/PhishGuard/pkg/config"
	"github.com/chayapa12/PhishGuard/pkg/dashboard"
	"github.com/chayapa12/PhishGuard/pkg/history"
	"github.com/chayapa12/PhishGuard/pkg/model"
	"github.com/chayapa12/PhishGuard/pkg/scoring"
	"github.com/chayapa12/PhishGuard/pkg/telemetry"
)

const Version = "0.1.0"

// Analyzer wires the deterministic engine to its optional collaborators.
// The enhancer, history store, and dashboard all degrade gracefully;
// scoring itself never fails.
type Analyzer struct {
	engine   *scoring.Engine
	enhancer model.Enhancer // nil when running local-only
	store    history.Store
	stats    *dashboard.Stats
	recent   *dashboard.Ring
	cfg      *config.Config
	logger   *slog.Logger
}

func NewAnalyzer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	tables, err := config.LoadTables(cfg.TablesFile)
	if err != nil {
		return nil, fmt.Errorf("load scoring tables: %w", err)
	}

	a := &Analyzer{
		engine: scoring.NewEngine(tables),
		stats:  dashboard.New(),
		recent: dashboard.NewRing(cfg.RecentLimit),
		cfg:    cfg,
		logger: logger,
	}

	// Optional learned-model stage.
	a.enhancer = model.FromConfig(cfg)
	switch {
	case a.enhancer != nil && a.enhancer.IsReady():
		log.Printf("✓ %s enhancer enabled", a.enhancer.Name())
	case a.enhancer != nil:
		log.Printf("○ %s enhancer configured but not ready, local pipeline serves", a.enhancer.Name())
	default:
		log.Println("○ enhancer disabled (local pipeline only)")
	}

	store, err := history.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	a.store = store
	log.Printf("✓ history store ready (%s)", cfg.HistoryBackend)

	return a, nil
}

// Analyze scores text and records the outcome. Source names the path the
// text arrived through ("api", "cli", "ocr"). A ready enhancer may
// replace the local score and explanation; any enhancer or storage
// trouble keeps the local result and never fails the call.
func (a *Analyzer) Analyze(ctx context.Context, text, source string) history.Analysis {
	res := a.engine.Score(text)

	if a.enhancer != nil && a.enhancer.IsReady() {
		assessment, err := a.enhancer.Assess(ctx, text)
		switch {
		case err != nil:
			a.logger.Warn("enhancer failed, keeping local score",
				"enhancer", a.enhancer.Name(), "error", err)
		case assessment != nil:
			res.Raw = assessment.Score
			res.Score = int(math.Round(assessment.Score))
			res.Label = scoring.LabelForScore(res.Score)
			res.Explanation = assessment.Explanation
		}
	}

	rec := history.NewAnalysis(text, source, res)
	if err := a.store.Append(ctx, rec); err != nil {
		a.logger.Warn("history append failed", "error", err)
	}
	a.stats.Record(res, source, rec.CreatedAt)
	a.recent.Add(dashboard.Entry{
		ID:        rec.ID,
		Snippet:   text,
		Source:    source,
		Score:     rec.Score,
		Label:     rec.Label,
		CreatedAt: rec.CreatedAt,
	})

	if telemetry.GlobalClient != nil {
		telemetry.GlobalClient.TrackWithContext("analysis_scored", map[string]interface{}{
			"score":  rec.Score,
			"label":  string(rec.Label),
			"source": source,
		})
	}

	return rec
}

// Close releases the history store and any enhancer resources.
func (a *Analyzer) Close() error {
	if c, ok := a.enhancer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("enhancer close failed", "error", err)
		}
	}
	return a.store.Close()
}

func main() {
	log.SetFlags(log.LstdFlags)

	loadDotenv()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		port := ""
		if len(os.Args) > 2 {
			port = os.Args[2]
		}
		runHTTPServer(port)
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: phishguard scan <text>")
			fmt.Println("       phishguard scan --file <path> [--source <label>]")
			os.Exit(1)
		}
		runCLIScan(os.Args[2:])
	case "version":
		fmt.Printf("PhishGuard v%s\n", Version)
		fmt.Println("Deterministic phishing text scorer - fully local")
	case "models":
		listModels()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("PhishGuard v%s - Local Phishing Text Scorer\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  phishguard serve [port]                       Start HTTP server (default: 8090)")
	fmt.Println("  phishguard scan <text>                        Score text from the command line")
	fmt.Println("  phishguard scan --file <path> [--source <s>]  Score a file's contents")
	fmt.Println("  phishguard models                             List detected ONNX models")
	fmt.Println("  phishguard version                            Show version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  phishguard serve 8080")
	fmt.Println("  phishguard scan \"URGENT: verify your account now\"")
	fmt.Println("  phishguard scan --file suspicious_email.txt --source email")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  PHISHGUARD_ENHANCER         none|hugot|remote|semantic (default: none)")
	fmt.Println("  PHISHGUARD_MODEL_PATH       Path to ONNX model directory for hugot")
	fmt.Println("  PHISHGUARD_REMOTE_URL       Scoring endpoint for the remote enhancer")
	fmt.Println("  PHISHGUARD_HISTORY_BACKEND  memory|redis|postgres|jsonl (default: memory)")
	fmt.Println("  PHISHGUARD_TABLES_FILE      YAML file overriding the scoring tables")
}

// loadDotenv applies .env when present. Real environment variables win
// over file values.
func loadDotenv() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("[STARTUP] Warning: could not load .env: %v", err)
		}
	}
}

// setupLogger builds the service logger: tinted console output, plus
// rotating file output when PHISHGUARD_LOG_FILE is set.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var w io.Writer = os.Stdout
	noColor := false
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
		noColor = true
	}

	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}))
	slog.SetDefault(logger)
	return logger
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

func runHTTPServer(port string) {
	cfg := config.NewDefaultConfig()
	if port != "" {
		cfg.Port = port
	}
	cfg.MustValidate()

	logger := setupLogger(cfg)

	analyzer, err := NewAnalyzer(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("[STARTUP] FATAL: %v", err)
	}
	defer analyzer.Close()

	app := fiber.New(fiber.Config{
		AppName: "PhishGuard",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		name := "none"
		ready := false
		if analyzer.enhancer != nil {
			name = analyzer.enhancer.Name()
			ready = analyzer.enhancer.IsReady()
		}
		return c.JSON(fiber.Map{
			"status":         "ok",
			"version":        Version,
			"enhancer":       name,
			"enhancer_ready": ready,
		})
	})

	// Empty text is not rejected: it takes the defined zero path and
	// comes back as score 0, Low Risk.
	app.Post("/analyze", func(c fiber.Ctx) error {
		var req struct {
			Text   string `json:"text"`
			Source string `json:"source"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if len(req.Text) > analyzer.cfg.MaxTextLen {
			return c.Status(400).JSON(fiber.Map{
				"error": fmt.Sprintf("text exceeds the %d byte limit", analyzer.cfg.MaxTextLen),
			})
		}
		if req.Source == "" {
			req.Source = "api"
		}
		return c.JSON(analyzer.Analyze(c.Context(), req.Text, req.Source))
	})

	app.Get("/history", func(c fiber.Ctx) error {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return c.Status(400).JSON(fiber.Map{"error": "limit must be a positive integer"})
			}
			limit = n
		}
		items, err := analyzer.store.Recent(c.Context(), limit)
		if err != nil {
			logger.Error("history read failed", "error", err)
			return c.Status(500).JSON(fiber.Map{"error": "history unavailable"})
		}
		return c.JSON(fiber.Map{"count": len(items), "analyses": items})
	})

	app.Get("/dashboard", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"stats":  analyzer.stats.Snapshot(),
			"recent": analyzer.recent.Items(),
		})
	})

	logger.Info("phishguard server starting",
		"addr", cfg.Host+":"+cfg.Port,
		"history", string(cfg.HistoryBackend),
		"enhancer", string(cfg.Enhancer))
	log.Printf("Endpoints:")
	log.Printf("  GET  /health     - Health and enhancer readiness")
	log.Printf("  POST /analyze    - Score text {text, source}")
	log.Printf("  GET  /history    - Recent analyses (?limit=n)")
	log.Printf("  GET  /dashboard  - Aggregate stats and recent analyses")

	if err := app.Listen(cfg.Host + ":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// ============================================================================
// CLI Mode
// ============================================================================

func runCLIScan(args []string) {
	var file string
	source := "cli"
	var words []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--file":
			if i+1 >= len(args) {
				fmt.Println("Usage: phishguard scan --file <path> [--source <label>]")
				os.Exit(1)
			}
			file = args[i+1]
			i++
		case "--source":
			if i+1 >= len(args) {
				fmt.Println("Usage: phishguard scan --file <path> [--source <label>]")
				os.Exit(1)
			}
			source = args[i+1]
			i++
		default:
			words = append(words, args[i])
		}
	}

	text := strings.Join(words, " ")
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("read %s: %v", file, err)
		}
		text = string(raw)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Println("Usage: phishguard scan <text>")
		fmt.Println("       phishguard scan --file <path> [--source <label>]")
		os.Exit(1)
	}

	cfg := config.NewDefaultConfig()
	logger := setupLogger(cfg)

	analyzer, err := NewAnalyzer(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("[STARTUP] FATAL: %v", err)
	}
	defer analyzer.Close()

	a := analyzer.Analyze(context.Background(), text, source)

	fmt.Printf("Score: %d/100  (%s)\n\n", a.Score, a.Label)
	fmt.Println(a.Explanation)
}

func listModels() {
	models := model.ListAvailableModels()
	if len(models) == 0 {
		fmt.Println("No local ONNX models found.")
		fmt.Println("")
		fmt.Println("Place a model under ./models/bert-phishing (model.onnx plus tokenizer")
		fmt.Println("files) or point PHISHGUARD_MODEL_PATH at a model directory.")
		return
	}

	fmt.Println("Available ONNX Models:")
	fmt.Println("")
	for _, m := range models {
		fmt.Printf("  %s\n", m)
	}
}
