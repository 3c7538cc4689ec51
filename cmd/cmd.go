// Package cmd defines the command-line interface for greenscore.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(sentimentCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	pf := rootCmd.PersistentFlags()
	pf.String("company", "", "Company name (also used to infer the industry)")
	pf.String("ticker", "", "Stock ticker of the company")
	pf.String("industry", "", "Benchmark industry: "+strings.Join(scoring.Industries(), ", "))
	pf.String("report", "", "Path to a report (.pdf, .txt, .md) or a folder holding PDF reports")
	pf.String("scores-file", "", "Evaluator JSON file with metric scores ('-' reads stdin)")
	pf.String("text", "", "Inline text to analyze")
	pf.String("text-file", "", "Path to a text file to analyze")
	pf.String("scores", "", "Inline pillar scores (format: 'E:72,S:65,G:80')")
	pf.Int("max-length", scoring.DefaultSentimentLength, "Number of characters read by the sentiment analysis")
	pf.IntP("limit", "l", contract.DefaultLeaderboardLimit, "Number of leaderboard rows to display (0 = all)")
	pf.String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	pf.String("output-file", "", "Optional path to write output to")
	pf.Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	pf.Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	pf.Int("width", 0, "Terminal width override (0 = auto-detect)")
	pf.String("cache-backend", string(schema.SQLiteBackend), "Evaluator cache backend: sqlite or mysql or postgresql or none")
	pf.String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	pf.String("history-backend", "", "History tracking backend: sqlite or mysql or postgresql or none")
	pf.String("history-db-connect", "", "Database connection string for history tracking (must differ from cache-db-connect)")
	pf.String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	pf.String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	pf.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	pf.String("log-file", "", "Optional path to append logs to")
	pf.String("config", "", "Path to config file")
	if err := viper.BindPFlags(pf); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of evaluateCmd to Viper
	ef := evaluateCmd.Flags()
	ef.Bool("news", false, "Collect controversy news through SearXNG")
	ef.Int("news-results", contract.DefaultNewsResults, "Number of news articles to fetch")
	ef.String("search-url", "", "Base URL of a SearXNG instance (e.g., http://localhost:8888)")
	ef.String("fetch-timeout", contract.DefaultFetchTimeout.String(), "Timeout for search and article requests")
	ef.Int("report-max-chars", contract.DefaultReportMaxChars, "Characters of report text sent to the evaluator")
	ef.String("llm-base-url", contract.DefaultLLMBaseURL, "OpenAI-compatible API base URL")
	ef.String("llm-models", "", "Comma-separated evaluator models, tried in order")
	ef.Float64("llm-temperature", contract.DefaultLLMTemperature, "Sampling temperature")
	ef.Int("llm-max-tokens", contract.DefaultLLMMaxTokens, "Maximum tokens in the evaluator response")
	ef.String("llm-timeout", contract.DefaultLLMTimeout.String(), "Timeout for a single evaluator call")
	ef.Int("llm-rpm", contract.DefaultLLMRequestsPerMin, "Evaluator requests per minute")
	ef.Int("llm-burst", contract.DefaultLLMBurst, "Evaluator request burst")
	ef.Int("llm-retries", contract.DefaultLLMMaxRetries, "Retries per model on rate limits and invalid JSON")
	if err := viper.BindPFlags(ef); err != nil {
		contract.LogFatal("Error binding evaluate flags", err)
	}
	// check evaluates too, so it shares the evaluator flags.
	checkCmd.Flags().AddFlagSet(ef)

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().String("min-rank", string(contract.DefaultMinRank), "Minimum rank to pass: gold or silver or bronze or unranked")
	checkCmd.Flags().Float64("min-score", 0, "Minimum total score to pass (0 disables)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
