package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

// CLI проверки заказов в формате API.
//
//	validate-orders -in orders.jsonl > clean.jsonl
//	validate-orders -in dump.json -out seed > seed.json   # файл для ORDERS_LOCAL_SEED_PATH
//	cat orders.jsonl | validate-orders -strict
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl); stdin (jsonl) if empty")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	outStr := flag.String("out", "jsonl", "output: jsonl (one canonical order per line) | seed (json array)")
	strict := flag.Bool("strict", false, "exit with code 2 if any record is rejected")
	verbose := flag.Bool("v", false, "print every rejected record to stderr")
	flag.Parse()

	if err := run(*inputPath, validate.InputFormat(*formatStr), *outStr, *strict, *verbose, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v\n", err)
		os.Exit(exitCode(err))
	}
}

type rejectedError struct{ report validate.Report }

func (e rejectedError) Error() string { return "rejected records (" + e.report.String() + ")" }

func exitCode(err error) int {
	var rejected rejectedError
	if errors.As(err, &rejected) {
		return 2
	}
	return 1
}

func run(inputPath string, format validate.InputFormat, out string, strict, verbose bool, stdin io.Reader, stdout, stderr io.Writer) error {
	var sink validate.Sink
	switch out {
	case "jsonl":
		sink = validate.NewLinesSink(stdout)
	case "seed":
		sink = validate.NewSeedSink(stdout)
	default:
		return fmt.Errorf("unknown output %q (jsonl|seed)", out)
	}

	ctx := context.Background()
	validator := validate.NewOrderValidator()

	var (
		report validate.Report
		err    error
	)
	if inputPath == "" {
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
		report, err = validate.ValidateReader(ctx, validator, stdin, format, sink)
	} else {
		report, err = validate.ValidateFile(ctx, validator, inputPath, format, sink)
	}
	if err != nil {
		return fmt.Errorf("%w (%s)", err, report)
	}

	if verbose {
		for _, r := range report.Rejected {
			fmt.Fprintf(stderr, "record %d: %v\n", r.Record, r.Err)
		}
	}
	if strict && report.Invalid > 0 {
		return rejectedError{report: report}
	}
	fmt.Fprintf(stderr, "validation ok (%s)\n", report)
	return nil
}
