package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuispeak/internal/config"
	"github.com/verte-zerg/tuispeak/internal/phonemes"
	"github.com/verte-zerg/tuispeak/internal/store"
)

var phonemesSetFile string

func newPhonemesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phonemes",
		Short: "Manage the phoneme catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List reference texts with registered phonemes",
		Args:  cobra.NoArgs,
		RunE:  runPhonemesListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show [text]",
		Short: "Show the phonemes practiced for a text",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPhonemesShowCmd,
	})
	setCmd := &cobra.Command{
		Use:   "set <text> [phoneme...]",
		Short: "Register the phonemes for a text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPhonemesSetCmd,
	}
	setCmd.Flags().StringVar(&phonemesSetFile, "file", "", "read phonemes from a file, one per line")
	cmd.AddCommand(setCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <text>",
		Short: "Remove a text from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runPhonemesDeleteCmd,
	})
	return cmd
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cmd, fileCfg, os.Stderr)
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func runPhonemesListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeCatalog(st)

	entries, err := st.ListTexts(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list texts: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No reference texts registered.")
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(out, "%3d  %s  %s\n", e.PhonemeCount, e.CreatedAt.Local().Format("2006-01-02"), e.Text); err != nil {
			return err
		}
	}
	return nil
}

func runPhonemesShowCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cmd, fileCfg, os.Stderr)
	cfg, err := resolvePracticeConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	text := cfg.Text
	if len(args) == 1 {
		text = strings.TrimSpace(args[0])
	}

	st := openCatalog()
	defer closeCatalog(st)

	list, err := phonemeSource(cfg, st).Phonemes(context.Background(), text)
	if errors.Is(err, phonemes.ErrNotFound) {
		return fmt.Errorf("no phonemes registered for %q; run: tuispeak phonemes set %q <phoneme>...", text, text)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", text, strings.Join(list, " "))
	return err
}

func runPhonemesSetCmd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(args[0])
	list, err := phonemesFromArgs(args[1:], phonemesSetFile)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeCatalog(st)

	if err := st.PutPhonemes(context.Background(), text, list); err != nil {
		return fmt.Errorf("failed to save phonemes: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered %d phonemes for %q\n", len(list), text)
	return err
}

// phonemesFromArgs takes phonemes from the arguments or, when path is set,
// from a file. Both at once is an error.
func phonemesFromArgs(args []string, path string) ([]string, error) {
	if path != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass phonemes as arguments or --file, not both")
		}
		return phonemes.LoadFile(path)
	}
	list := phonemes.NormalizeAll(args)
	if len(list) == 0 {
		return nil, fmt.Errorf("at least one phoneme is required")
	}
	return list, nil
}

func runPhonemesDeleteCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeCatalog(st)

	text := strings.TrimSpace(args[0])
	if err := st.DeleteText(context.Background(), text); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%q is not in the catalog", text)
		}
		return fmt.Errorf("failed to delete text: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", text)
	return err
}
