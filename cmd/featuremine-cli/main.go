package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"featuremine/internal/nlp"
	"featuremine/mining"
)

type cliOptions struct {
	configPath   string
	corpusPath   string
	featuresPath string
	outputPath   string
	outputDir    string
	maxSections  int
	stdout       bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("featuremine-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("featuremine-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.corpusPath, "corpus", "", "Annotated corpus file to mine")
	flag.StringVar(&opts.featuresPath, "features", "", "JSON feature list, e.g. [\"sound\", [\"screen\", \"display\"]]")
	flag.StringVar(&opts.outputPath, "output", "", "CSV file to write tags (default uses --output-dir/tags_*.csv)")
	flag.StringVar(&opts.outputDir, "output-dir", "csv", "Directory where tag CSVs are written when --output is omitted")
	flag.IntVar(&opts.maxSections, "max-sections", 0, "Read at most this many corpus lines (0 = all)")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a tag summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --corpus FILE --features FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.corpusPath = strings.TrimSpace(opts.corpusPath)
	opts.featuresPath = strings.TrimSpace(opts.featuresPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)

	if opts.corpusPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --corpus file")
	}
	if opts.featuresPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --features file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := mining.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.maxSections > 0 {
		cfg.MaxSections = opts.maxSections
	}

	tok, err := newTokenizer(cfg)
	if err != nil {
		return fmt.Errorf("init tokenizer: %w", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	service, err := mining.NewService(tok, cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	featureData, err := os.ReadFile(opts.featuresPath)
	if err != nil {
		return fmt.Errorf("read feature list: %w", err)
	}
	entries, err := mining.FeatureEntriesFromJSON(featureData)
	if err != nil {
		return fmt.Errorf("parse feature list: %w", err)
	}

	corpus, err := os.Open(opts.corpusPath)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer corpus.Close()

	result, err := service.Mine(context.Background(), corpus, entries)
	if err != nil {
		return fmt.Errorf("mine: %w", err)
	}

	outputPath, err := resolveOutputPath(opts.outputPath, opts.outputDir)
	if err != nil {
		return err
	}
	if err := writeTagCSV(outputPath, result); err != nil {
		return err
	}
	fmt.Printf("wrote implicit feature tags to %s\n", outputPath)

	if opts.stdout {
		printSummary(result)
	}
	return nil
}

func newTokenizer(cfg mining.Config) (mining.Tokenizer, error) {
	if cfg.TokenizerPath != "" {
		return nlp.NewPretrainedTokenizer(cfg.TokenizerPath)
	}
	return nlp.NewWordTokenizer()
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "csv"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("tags_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func writeTagCSV(path string, result *mining.MiningResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tag file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	header := []string{"section_id", "doc_id", "feature_id", "feature", "method", "score", "section_text"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	write := func(tags []mining.GFLMTag, method string) error {
		for _, tag := range tags {
			section := result.Corpus.Sections[tag.SectionID]
			row := []string{
				fmt.Sprint(tag.SectionID),
				fmt.Sprint(section.DocID),
				fmt.Sprint(tag.FeatureID),
				result.Spec.Name(tag.FeatureID),
				method,
				fmt.Sprintf("%.3f", tag.Score),
				section.Text,
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		return nil
	}
	if err := write(result.Tags.Section, "gflm-section"); err != nil {
		return err
	}
	if err := write(result.Tags.Word, "gflm-word"); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush tags: %w", err)
	}
	return nil
}

func printSummary(result *mining.MiningResult) {
	fmt.Println()
	fmt.Println("==== implicit feature tags ====")
	printTags := func(label string, tags []mining.GFLMTag) {
		fmt.Printf("%s (%d):\n", label, len(tags))
		limit := 10
		if len(tags) < limit {
			limit = len(tags)
		}
		for i := 0; i < limit; i++ {
			tag := tags[i]
			fmt.Printf("  - section %d, %s (score=%.3f)\n",
				tag.SectionID, result.Spec.Name(tag.FeatureID), tag.Score)
		}
	}
	printTags("gflm-section", result.Tags.Section)
	printTags("gflm-word", result.Tags.Word)
}
