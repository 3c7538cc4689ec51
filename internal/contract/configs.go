package contract

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/schema"
)

// Default values for configuration.
const (
	DefaultPrecision         = 1
	DefaultNewsResults       = 5
	DefaultReportMaxChars    = 25000
	DefaultLeaderboardLimit  = 25
	MaxLeaderboardLimit      = 1000
	DefaultLLMBaseURL        = "https://api.groq.com/openai/v1"
	DefaultLLMTemperature    = 0.1
	DefaultLLMMaxTokens      = 2048
	DefaultLLMTimeout        = 60 * time.Second
	DefaultLLMRequestsPerMin = 30
	DefaultLLMBurst          = 1
	DefaultLLMMaxRetries     = 3
	DefaultFetchTimeout      = 30 * time.Second
	DefaultMinRank           = schema.RankBronze
)

// DefaultLLMModels is the ordered model fallback list.
var DefaultLLMModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"llama-3.2-90b-text-preview",
	"gemma-7b-it",
}

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

var rawValidate = newRawValidator()

// newRawValidator reports fields by their flag name.
func newRawValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// PillarWeightsRaw holds optional pillar weight overrides from the YAML config file.
// Viper lowercases keys, so tags are lowercase.
type PillarWeightsRaw struct {
	E *float64 `mapstructure:"e"`
	S *float64 `mapstructure:"s"`
	G *float64 `mapstructure:"g"`
}

// WeightsRawInput holds all custom catalog weights from the YAML config file.
type WeightsRawInput struct {
	Pillars PillarWeightsRaw    `mapstructure:"pillars"`
	Metrics map[string]*float64 `mapstructure:"metrics"`
}

// LLMConfig holds the evaluator settings.
type LLMConfig struct {
	BaseURL           string
	APIKey            string // Please use env var as this is plaintext
	Models            []string
	Temperature       float64
	MaxTokens         int
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
	MaxRetries        int
}

// Config holds the runtime configuration for an evaluation.
// This struct remains the "final, validated" config.
type Config struct {
	Company     string
	Ticker      string
	Industry    string
	ReportPath  string
	ScoresFile  string
	ScoresFiles []string
	Text        string
	TextFile    string
	Scores      map[schema.PillarCode]float64

	News         bool
	NewsResults  int
	SearchURL    string
	FetchTimeout time.Duration

	SentimentMaxLength int
	ReportMaxChars     int

	Workers    int
	Limit      int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	MinRank  schema.Rank
	MinScore float64

	LLM LLMConfig

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// Catalog is the validated metric catalog, including any custom weights
	Catalog *scoring.Catalog

	LogLevel string
	LogFile  string

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	Args []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision" validate:"min=1,max=2"`
	Width            int    `mapstructure:"width" validate:"gte=0"`
	Workers          int    `mapstructure:"workers" validate:"gt=0"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	LogLevel         string `mapstructure:"log-level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	LogFile          string `mapstructure:"log-file"`

	// --- Fields shared by evaluate/check/sentiment/risk/benchmark ---
	Company        string `mapstructure:"company"`
	Ticker         string `mapstructure:"ticker"`
	Industry       string `mapstructure:"industry"`
	Report         string `mapstructure:"report"`
	ScoresFile     string `mapstructure:"scores-file"`
	Text           string `mapstructure:"text"`
	TextFile       string `mapstructure:"text-file"`
	Scores         string `mapstructure:"scores"`
	MaxLength      int    `mapstructure:"max-length" validate:"gte=0"`
	ReportMaxChars int    `mapstructure:"report-max-chars" validate:"gte=0"`
	Limit          int    `mapstructure:"limit"`

	// --- News collection ---
	News         bool   `mapstructure:"news"`
	NewsResults  int    `mapstructure:"news-results" validate:"gte=0,lte=20"`
	SearchURL    string `mapstructure:"search-url" validate:"omitempty,url"`
	FetchTimeout string `mapstructure:"fetch-timeout"`

	// --- Fields from checkCmd.Flags() ---
	MinRank  string  `mapstructure:"min-rank"`
	MinScore float64 `mapstructure:"min-score" validate:"gte=0,lte=100"`

	// --- Evaluator ---
	LLMBaseURL     string  `mapstructure:"llm-base-url" validate:"omitempty,url"`
	LLMAPIKey      string  `mapstructure:"llm-api-key"`
	LLMModels      string  `mapstructure:"llm-models"`
	LLMTemperature float64 `mapstructure:"llm-temperature" validate:"gte=0,lte=2"`
	LLMMaxTokens   int     `mapstructure:"llm-max-tokens" validate:"gte=0"`
	LLMTimeout     string  `mapstructure:"llm-timeout"`
	LLMRPM         int     `mapstructure:"llm-rpm" validate:"gte=0"`
	LLMBurst       int     `mapstructure:"llm-burst" validate:"gte=0"`
	LLMRetries     int     `mapstructure:"llm-retries" validate:"gte=0,lte=10"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct. The catalog is immutable and shared.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ScoresFiles = slices.Clone(c.ScoresFiles)
	clone.LLM.Models = slices.Clone(c.LLM.Models)
	clone.Scores = maps.Clone(c.Scores)
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateRawInput(input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processInputs(cfg, input); err != nil {
		return err
	}
	if err := processLLMConfig(cfg, input); err != nil {
		return err
	}
	if err := processNewsConfig(cfg, input); err != nil {
		return err
	}
	if err := processGate(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateRawInput applies the struct tag rules to the raw input.
func validateRawInput(input *ConfigRawInput) error {
	err := rawValidate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("--%s fails %q (received %v)", fe.Field(), fe.Tag()+paramSuffix(fe.Param()), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend lowercases and validates a backend name.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	backend, err := ParseDatabaseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	if input.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
		return nil
	}
	backend, err = ParseDatabaseBackend(input.HistoryBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output, formatting and backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel
	cfg.LogFile = input.LogFile

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Workers = input.Workers
	cfg.Precision = input.Precision

	if input.Limit < 0 || input.Limit > MaxLeaderboardLimit {
		return fmt.Errorf("limit cannot be negative or exceed %d (received %d)", MaxLeaderboardLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return validateBackendConfigs(cfg, input)
}

// processInputs transfers the evaluation inputs and parses inline pillar scores.
func processInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Company = strings.TrimSpace(input.Company)
	cfg.Ticker = strings.ToUpper(strings.TrimSpace(input.Ticker))
	cfg.ReportPath = strings.TrimSpace(input.Report)
	cfg.ScoresFile = strings.TrimSpace(input.ScoresFile)
	cfg.ScoresFiles = slices.Clone(input.Args)
	cfg.Text = input.Text
	cfg.TextFile = strings.TrimSpace(input.TextFile)
	cfg.SentimentMaxLength = input.MaxLength
	if cfg.SentimentMaxLength == 0 {
		cfg.SentimentMaxLength = scoring.DefaultSentimentLength
	}
	cfg.ReportMaxChars = input.ReportMaxChars
	if cfg.ReportMaxChars == 0 {
		cfg.ReportMaxChars = DefaultReportMaxChars
	}

	// An explicit industry wins; otherwise infer it from the company name.
	cfg.Industry = strings.ToLower(strings.TrimSpace(input.Industry))
	if cfg.Industry == "" && cfg.Company != "" {
		cfg.Industry, _ = scoring.InferIndustry(cfg.Company)
	}

	scores, err := ParsePillarScoresString(input.Scores)
	if err != nil {
		return fmt.Errorf("invalid --scores format: %w", err)
	}
	cfg.Scores = scores
	return nil
}

// processLLMConfig fills the evaluator settings.
func processLLMConfig(cfg *Config, input *ConfigRawInput) error {
	llm := LLMConfig{
		BaseURL:           strings.TrimSpace(input.LLMBaseURL),
		APIKey:            input.LLMAPIKey,
		Models:            SplitList(input.LLMModels),
		Temperature:       input.LLMTemperature,
		MaxTokens:         input.LLMMaxTokens,
		RequestsPerMinute: input.LLMRPM,
		Burst:             input.LLMBurst,
		MaxRetries:        input.LLMRetries,
	}
	if llm.BaseURL == "" {
		llm.BaseURL = DefaultLLMBaseURL
	}
	if len(llm.Models) == 0 {
		llm.Models = slices.Clone(DefaultLLMModels)
	}
	if llm.MaxTokens == 0 {
		llm.MaxTokens = DefaultLLMMaxTokens
	}
	if llm.RequestsPerMinute == 0 {
		llm.RequestsPerMinute = DefaultLLMRequestsPerMin
	}
	if llm.Burst == 0 {
		llm.Burst = DefaultLLMBurst
	}

	llm.Timeout = DefaultLLMTimeout
	if input.LLMTimeout != "" {
		d, err := time.ParseDuration(input.LLMTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid --llm-timeout '%s': expected a positive duration like 60s", input.LLMTimeout)
		}
		llm.Timeout = d
	}

	cfg.LLM = llm
	return nil
}

// processNewsConfig fills the news collection settings.
func processNewsConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.News = input.News
	cfg.NewsResults = input.NewsResults
	if cfg.NewsResults == 0 {
		cfg.NewsResults = DefaultNewsResults
	}
	cfg.SearchURL = strings.TrimRight(strings.TrimSpace(input.SearchURL), "/")
	if cfg.News && cfg.SearchURL == "" {
		return fmt.Errorf("--news requires --search-url pointing at a SearXNG instance")
	}

	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		d, err := time.ParseDuration(input.FetchTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid --fetch-timeout '%s': expected a positive duration like 30s", input.FetchTimeout)
		}
		cfg.FetchTimeout = d
	}
	return nil
}

// processGate parses the check thresholds.
func processGate(cfg *Config, input *ConfigRawInput) error {
	cfg.MinScore = input.MinScore
	cfg.MinRank = DefaultMinRank
	if input.MinRank != "" {
		rank := schema.Rank(strings.ToUpper(strings.TrimSpace(input.MinRank)))
		if _, ok := schema.ValidRanks[rank]; !ok {
			return fmt.Errorf("invalid --min-rank '%s'. must be gold, silver, bronze, unranked", input.MinRank)
		}
		cfg.MinRank = rank
	}
	return nil
}

// processCustomWeights applies pillar and metric weight overrides and builds the catalog.
// The resulting weights must still sum to 1.0 per level.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	w := input.Weights
	if w.Pillars.E == nil && w.Pillars.S == nil && w.Pillars.G == nil && len(w.Metrics) == 0 {
		cfg.Catalog = scoring.DefaultCatalog()
		return nil
	}

	pillars := scoring.DefaultPillars()
	overrides := map[schema.PillarCode]*float64{
		schema.Environmental: w.Pillars.E,
		schema.Social:        w.Pillars.S,
		schema.Governance:    w.Pillars.G,
	}
	for i := range pillars {
		if v := overrides[pillars[i].Code]; v != nil {
			pillars[i].Weight = *v
		}
	}

	metrics := scoring.DefaultMetrics()
	for code, v := range w.Metrics {
		if v == nil {
			continue
		}
		idx := slices.IndexFunc(metrics, func(m schema.Metric) bool { return strings.EqualFold(m.Code, code) })
		if idx < 0 {
			return fmt.Errorf("custom weight for unknown metric %q", code)
		}
		metrics[idx].Weight = *v
	}

	cat, err := scoring.NewCatalog(pillars, metrics)
	if err != nil {
		return fmt.Errorf("invalid custom weights: %w", err)
	}
	cfg.Catalog = cat
	return nil
}

// ParsePillarScoresString parses a string like "E:72,S:65,G:80" into pillar scores.
// Scores must lie within [0, 100].
func ParsePillarScoresString(s string) (map[schema.PillarCode]float64, error) {
	scores := make(map[schema.PillarCode]float64)
	if s == "" {
		return scores, nil
	}

	for _, part := range SplitList(s) {
		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid score format '%s', expected 'pillar:value'", part)
		}

		pillar := schema.PillarCode(strings.ToUpper(strings.TrimSpace(keyValue[0])))
		if !slices.Contains(schema.AllPillars, pillar) {
			return nil, fmt.Errorf("invalid pillar '%s', must be E, S, or G", keyValue[0])
		}

		valueStr := strings.TrimSpace(keyValue[1])
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score value '%s' for pillar %s: %w", valueStr, pillar, err)
		}
		if math.IsNaN(value) || value < 0 || value > 100 {
			return nil, fmt.Errorf("score for pillar %s must be between 0 and 100 (received %.2f)", pillar, value)
		}
		scores[pillar] = value
	}
	return scores, nil
}
