package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/sentype/internal/pool"
	"github.com/verte-zerg/sentype/internal/sentencelist"
)

func newSentencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentences",
		Short: "Manage custom sentences",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List custom sentences",
		Args:  cobra.NoArgs,
		RunE:  runSentencesListCmd,
	}
	listCmd.Flags().BoolVar(&sentencesAll, "all", false, "include built-in sentences")

	addCmd := &cobra.Command{
		Use:   "add <sentence>",
		Short: "Add a custom sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSentencesAddCmd,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete a custom sentence by its list number",
		Args:  cobra.ExactArgs(1),
		RunE:  runSentencesDeleteCmd,
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add sentences from a text, JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSentencesImportCmd,
	}
	importCmd.Flags().StringVar(&sentencesFormat, "format", "", "file format (text, json, yaml; default: from extension)")

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write custom sentences to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSentencesExportCmd,
	}
	exportCmd.Flags().StringVar(&sentencesFormat, "format", "", "file format (text, json, yaml; default: from extension)")

	cmd.AddCommand(listCmd, addCmd, deleteCmd, importCmd, exportCmd)
	return cmd
}

func runSentencesListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if sentencesAll {
		for _, s := range pool.Builtins {
			if _, err := fmt.Fprintf(out, "   - %s\n", s); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	custom := a.engine.Custom()
	if len(custom) == 0 && !sentencesAll {
		logErrln("No custom sentences. Add one with: sentype sentences add <sentence>")
		return nil
	}
	for i, s := range custom {
		if _, err := fmt.Fprintf(out, "%3d %s\n", i+1, s); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runSentencesAddCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	text := strings.Join(args, " ")
	if !a.engine.AddSentence(text) {
		return fmt.Errorf("sentence is empty, not typeable or already in the pool")
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added sentence %d.\n", len(a.engine.Custom()))
	return err
}

func runSentencesDeleteCmd(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid sentence number %q", args[0])
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.engine.DeleteSentence(n - 1) {
		return fmt.Errorf("no custom sentence %d (have %d)", n, len(a.engine.Custom()))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted sentence %d.\n", n)
	return err
}

func runSentencesImportCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	sentences, err := readSentenceFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	added := 0
	for _, s := range sentences {
		if a.engine.AddSentence(s) {
			added++
		}
	}
	if skipped := len(sentences) - added; skipped > 0 {
		logErrf("Skipped %d sentences already in the pool\n", skipped)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sentences.\n", added)
	return err
}

func runSentencesExportCmd(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	format, err := resolveFormat(path)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	custom := a.engine.Custom()
	if path == "" {
		return sentencelist.Write(cmd.OutOrStdout(), custom, format)
	}
	if err := writeSentenceFile(path, custom, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logErrf("Wrote %d sentences to %s\n", len(custom), path)
	return nil
}

// readSentenceFile decodes path with --format when given, otherwise by
// extension.
func readSentenceFile(path string) ([]string, error) {
	if sentencesFormat == "" {
		return sentencelist.Load(path)
	}
	format, err := sentencelist.ParseFormat(sentencesFormat)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close; the file was only read.
			_ = cerr
		}
	}()
	return sentencelist.Read(file, format)
}

// resolveFormat prefers --format and falls back to the file extension.
func resolveFormat(path string) (sentencelist.Format, error) {
	if sentencesFormat != "" {
		return sentencelist.ParseFormat(sentencesFormat)
	}
	if path == "" {
		return sentencelist.FormatText, nil
	}
	return sentencelist.FormatForPath(path), nil
}

func writeSentenceFile(path string, sentences []string, format sentencelist.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "sentences-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := sentencelist.Write(writer, sentences, format); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush sentences: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close sentences: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move sentences into place: %w", err)
	}
	return nil
}
