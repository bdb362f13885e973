package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	fileshaker "github.com/newcl/fileshaker/pkg"
)

const version = "0.2.0"

// cmdArgs holds the parsed command line for one invocation
type cmdArgs struct {
	Command   string
	Roots     []string
	ConfigDir string
	CachePath string
	Report    string
	Format    string
	Threshold int
	Workers   int
	Verbose   int
	Debug     string
	Overrides []string
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	if os.Args[1] == "--help" || os.Args[1] == "-h" || os.Args[1] == "help" {
		showHelp()
		return
	}

	if os.Args[1] == "--version" {
		fmt.Printf("fshaker %s\n", version)
		return
	}

	args, err := parseArguments(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fshaker: %v\n", err)
		os.Exit(1)
	}

	if err := execute(args); err != nil {
		if errors.Is(err, fileshaker.ErrAborted) {
			fmt.Fprintf(os.Stderr, "fshaker: aborted, hash cache flushed\n")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "fshaker: %v\n", err)
		os.Exit(1)
	}
}

func parseArguments(argv []string) (*cmdArgs, error) {
	args := &cmdArgs{
		Command:   argv[0],
		Threshold: -1,
	}

	rest := argv[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		needValue := func() (string, error) {
			if i+1 >= len(rest) {
				return "", fmt.Errorf("option %s requires a value", arg)
			}
			i++
			return rest[i], nil
		}

		switch arg {
		case "--config":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			args.ConfigDir = value
		case "--cache":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			args.CachePath = value
		case "--report":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			args.Report = value
		case "--format":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			if err := fileshaker.ValidateOutputFormat(value); err != nil {
				return nil, err
			}
			args.Format = value
		case "--threshold":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			threshold, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid threshold: %s", value)
			}
			if err := fileshaker.ValidateThreshold(threshold); err != nil {
				return nil, err
			}
			args.Threshold = threshold
		case "--workers":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			workers, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid worker count: %s", value)
			}
			if err := fileshaker.ValidateWorkers(workers); err != nil {
				return nil, err
			}
			args.Workers = workers
		case "-v":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			level, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid verbose level: %s", value)
			}
			if err := fileshaker.ValidateVerboseLevel(level); err != nil {
				return nil, err
			}
			args.Verbose = level
		case "--debug":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			args.Debug = value
		case "--set":
			value, err := needValue()
			if err != nil {
				return nil, err
			}
			args.Overrides = append(args.Overrides, value)
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return nil, fmt.Errorf("unknown option: %s", arg)
			}
			args.Roots = append(args.Roots, arg)
		}
	}

	if args.ConfigDir == "" {
		args.ConfigDir = ".fshaker"
	}
	return args, nil
}

func execute(args *cmdArgs) error {
	cfg, err := fileshaker.LoadConfig(args.ConfigDir)
	if err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(args.Overrides); err != nil {
		return err
	}

	all := cfg.GetAllConfig()

	verbose := all.Verbose.Level
	if args.Verbose > 0 {
		verbose = args.Verbose
	}
	fileshaker.SetVerboseLevel(verbose)

	debug := all.Verbose.Debug
	if args.Debug != "" {
		debug = args.Debug
	}
	fileshaker.SetDebugFlags(debug)

	switch args.Command {
	case "dedupe":
		return runDedupe(args, all)
	case "diff":
		return runDiff(args, all)
	case "config":
		return runConfig(all)
	default:
		return fmt.Errorf("unknown command: %s (supported: dedupe, diff, config)", args.Command)
	}
}

// buildRunOptions translates config plus command-line flags into RunOptions
func buildRunOptions(args *cmdArgs, all *fileshaker.AllConfig) (fileshaker.RunOptions, error) {
	algorithm, err := fileshaker.GetHashAlgorithm(all.Hash.Default)
	if err != nil {
		return fileshaker.RunOptions{}, err
	}

	buffer, err := fileshaker.ParseHumanSize(all.Performance.HashBuffer)
	if err != nil {
		return fileshaker.RunOptions{}, fmt.Errorf("invalid hash_buffer in config: %w", err)
	}

	opts := fileshaker.RunOptions{
		Roots:        args.Roots,
		CachePath:    args.CachePath,
		Algorithm:    algorithm,
		HashWorkers:  all.Performance.HashWorkers,
		PhashWorkers: all.Performance.PhashWorkers,
		HashBuffer:   buffer,
		Threshold:    all.Phash.Threshold,
	}
	if args.Workers > 0 {
		opts.HashWorkers = args.Workers
		opts.PhashWorkers = args.Workers
	}
	if args.Threshold >= 0 {
		opts.Threshold = args.Threshold
	}
	if opts.CachePath == "" {
		opts.CachePath = filepath.Join(args.ConfigDir, "file_hashes.json")
	}
	return opts, nil
}

func runDedupe(args *cmdArgs, all *fileshaker.AllConfig) error {
	if len(args.Roots) < 1 {
		return fmt.Errorf("dedupe requires at least one root directory")
	}

	opts, err := buildRunOptions(args, all)
	if err != nil {
		return err
	}

	shutdown := setupSignalHandler()
	report, err := fileshaker.Run(opts, shutdown)
	if err != nil {
		return err
	}

	if args.Report != "" {
		if err := report.Write(args.Report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", args.Report)
	}

	format := all.Output.Format
	if args.Format != "" {
		format = args.Format
	}
	if format == "json" {
		data, err := report.Encode()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printSummary(report)
	return nil
}

func runDiff(args *cmdArgs, all *fileshaker.AllConfig) error {
	if len(args.Roots) != 2 {
		return fmt.Errorf("diff requires exactly two root directories")
	}

	opts, err := buildRunOptions(args, all)
	if err != nil {
		return err
	}

	cache := fileshaker.NewHashCache(opts.CachePath)
	cache.Load()

	scanner := fileshaker.NewScanner()
	resultA, err := scanner.ScanTree(args.Roots[0], 0)
	if err != nil {
		return err
	}
	resultB, err := scanner.ScanTree(args.Roots[1], 1)
	if err != nil {
		return err
	}

	shutdown := setupSignalHandler()
	resolver := fileshaker.NewExactDuplicateResolver(cache, opts.Algorithm, opts.HashWorkers, opts.HashBuffer)
	diff, diffErr := resolver.DiffTrees(resultA.Entries, resultB.Entries, shutdown)

	if err := cache.Persist(); err != nil {
		return err
	}
	if diffErr != nil {
		return diffErr
	}

	fmt.Printf("Common:      %d files\n", len(diff.Common))
	fmt.Printf("Unique to %s: %d files\n", args.Roots[0], len(diff.UniqueToA))
	fmt.Printf("Unique to %s: %d files\n", args.Roots[1], len(diff.UniqueToB))
	for _, path := range diff.UniqueToA {
		fmt.Printf("A %s\n", path)
	}
	for _, path := range diff.UniqueToB {
		fmt.Printf("B %s\n", path)
	}
	return nil
}

func runConfig(all *fileshaker.AllConfig) error {
	fmt.Printf("filehash.default          = %s\n", all.Hash.Default)
	fmt.Printf("output.format             = %s\n", all.Output.Format)
	fmt.Printf("verbose.level             = %d\n", all.Verbose.Level)
	fmt.Printf("verbose.debug             = %s\n", all.Verbose.Debug)
	fmt.Printf("performance.hash_workers  = %d\n", all.Performance.HashWorkers)
	fmt.Printf("performance.phash_workers = %d\n", all.Performance.PhashWorkers)
	fmt.Printf("performance.hash_buffer   = %s\n", all.Performance.HashBuffer)
	fmt.Printf("phash.threshold           = %d\n", all.Phash.Threshold)
	return nil
}

func printSummary(report *fileshaker.Report) {
	fmt.Printf("Scanned:          %d files\n", report.Summary.TotalFilesScanned)
	fmt.Printf("Duplicate groups: %d\n", report.Summary.DuplicateGroups)
	fmt.Printf("Redundant files:  %d (%d bytes)\n", report.Summary.RedundantFiles, report.Summary.RedundantBytes)
	fmt.Printf("Near-duplicates:  %d groups\n", len(report.NearDuplicateGroups))
	fmt.Printf("Unique files:     %d\n", len(report.UniqueFiles))
	if len(report.UnreadableFiles) > 0 {
		fmt.Printf("Unreadable:       %d\n", len(report.UnreadableFiles))
	}
	fmt.Printf("Files to keep:    %d (%d bytes)\n", report.Summary.FilesToKeep, report.Summary.BytesToKeep)
}

func showUsage() {
	fmt.Fprintf(os.Stderr, "Usage: fshaker COMMAND [options] [directories...]\n")
	fmt.Fprintf(os.Stderr, "Try 'fshaker --help' for more information.\n")
}

func showHelp() {
	fmt.Printf("fshaker - duplicate and near-duplicate detection for media trees\n\n")
	fmt.Printf("Usage: fshaker COMMAND [options] [directories...]\n\n")

	fmt.Printf("COMMANDS:\n")
	fmt.Printf("  dedupe DIR [DIR...]  Scan trees, classify duplicates, emit a report\n")
	fmt.Printf("  diff DIRA DIRB       Classify files as common / unique per tree\n")
	fmt.Printf("  config               Show the effective configuration\n\n")

	fmt.Printf("OPTIONS:\n")
	fmt.Printf("  --config DIR      Config directory (default: .fshaker)\n")
	fmt.Printf("  --cache FILE      Hash cache file (default: <config>/file_hashes.json)\n")
	fmt.Printf("  --report FILE     Write the JSON report to FILE\n")
	fmt.Printf("  --format FORMAT   Output format: human, json\n")
	fmt.Printf("  --threshold N     Hamming distance bound for near-duplicates (0-64)\n")
	fmt.Printf("  --workers N       Hash and fingerprint worker count\n")
	fmt.Printf("  --set KEY:VALUE   Override a config value for this run\n")
	fmt.Printf("  -v LEVEL          Verbose level (0-3)\n")
	fmt.Printf("  --debug FLAGS     Comma-separated debug flags (e.g. scan,hash)\n\n")

	fmt.Printf("No files are ever moved or deleted; the report drives a separate copy step.\n")
}
