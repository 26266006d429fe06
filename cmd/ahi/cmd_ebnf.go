package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/dhamidi/parsec/ebnf/parse"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfParseCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := parse.LoadGrammar(args[0])
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			if startProduction == "" {
				return nil
			}
			if err := parse.Verify(grammar, startProduction); err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfParseCmd() *cobra.Command {
	var (
		startProduction string
		skipProduction  string
		outputFormat    string
	)

	cmd := &cobra.Command{
		Use:          "parse <grammar> <input>",
		Short:        "Parse an input file with an EBNF grammar and print the syntax tree",
		Long:         "Parse an input file with an EBNF grammar and print the syntax tree.\nUse - as the input to read from standard input.",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runEbnfParse(cmd, args[0], args[1], startProduction, skipProduction, outputFormat)
			if err != nil {
				// Flag errors are still reported by cobra.
				cmd.SilenceErrors = true
				printErrors(cmd.ErrOrStderr(), err)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "production to parse the input as")
	cmd.Flags().StringVar(&skipProduction, "skip", "", "lexical production to skip between tokens (e.g. white_space)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runEbnfParse(cmd *cobra.Command, grammarFile, inputFile, start, skip, format string) error {
	log := commonlog.GetLogger("ahi.ebnf")

	grammar, err := parse.LoadGrammar(grammarFile)
	if err != nil {
		return err
	}

	input, err := readInput(cmd.InOrStdin(), inputFile)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	opts := []parse.Option{parse.WithLogger(log)}
	if skip != "" {
		opts = append(opts, parse.WithSkip(skip))
	}
	interp, err := parse.NewInterpreter(grammar, opts...)
	if err != nil {
		return err
	}

	log.Infof("parsing %s (%d bytes) as %s", inputFile, len(input), start)
	node, err := interp.Parse(start, string(input))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		fmt.Fprint(out, node.String())
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(node); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// printErrors prints one line per error of an ebnf error list, which may be
// wrapped.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
