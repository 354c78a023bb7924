package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chatbrain/internal/lang"
	"chatbrain/internal/store"
)

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Tokenize text and show the derived keys",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		tokens := lang.Parse(text)

		key, err := lang.GetKeyFromText(text)
		if err != nil {
			return err
		}
		fmt.Printf("tokens: %q\n", tokens)
		fmt.Printf("key:    %s\n", key)
		fmt.Printf("group:  %s\n", lang.ToGroupKey(text))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Score the similarity of two strings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score := lang.CompareText(args[0], args[1])
		fmt.Printf("%.4f\n", score)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the seed-word file into the word database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Store.SeedWordsPath == "" {
			return fmt.Errorf("no seed-word file configured (store.seed_words_path)")
		}
		if cfg.Store.DatabasePath == "" {
			return fmt.Errorf("no word database configured (store.database_path)")
		}

		dict := lang.NewDictionary()
		imported, err := store.LoadDefaultWords(dict, cfg.Store.SeedWordsPath)
		if err != nil {
			return err
		}

		words, err := store.NewWordStore(cfg.Store.DatabasePath)
		if err != nil {
			return err
		}
		defer words.Close()

		if _, err := words.LoadIntoDictionary(dict); err != nil {
			return err
		}
		saved, err := words.SaveUsage(dict)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d seed words, database now holds %d entries\n", imported, saved)
		return nil
	},
}
