package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chatbrain/internal/brain"
	"chatbrain/internal/concepts"
	"chatbrain/internal/config"
	"chatbrain/internal/store"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive conversation loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

// engine bundles the running brain with its optional persistence pieces.
type engine struct {
	cfg     *config.Config
	brain   *brain.Brain
	words   *store.WordStore
	watcher *store.SeedWatcher
}

// buildEngine assembles and starts a Brain from the loaded config.
func buildEngine(responder brain.Responder) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	b := brain.New(cfg, responder)
	concepts.RegisterBuiltins(b.Registry(), cfg.Name)
	for _, lerr := range b.Registry().LoadErrors() {
		logger.Warn("concept registration", zap.Error(lerr))
	}

	e := &engine{cfg: cfg, brain: b}

	if cfg.Store.SeedWordsPath != "" {
		if _, err := store.LoadDefaultWords(b.Dictionary(), cfg.Store.SeedWordsPath); err != nil {
			logger.Warn("seed import", zap.Error(err))
		}
	}
	if cfg.Store.DatabasePath != "" {
		words, err := store.NewWordStore(cfg.Store.DatabasePath)
		if err != nil {
			return nil, err
		}
		e.words = words
		if _, err := words.LoadIntoDictionary(b.Dictionary()); err != nil {
			logger.Warn("word restore", zap.Error(err))
		}
	}

	if err := b.Start(); err != nil {
		e.shutdown()
		return nil, err
	}

	if cfg.Store.WatchSeedFile && cfg.Store.SeedWordsPath != "" {
		watcher, err := store.NewSeedWatcher(b.Dictionary(), b, cfg.Store.SeedWordsPath)
		if err != nil {
			logger.Warn("seed watcher", zap.Error(err))
		} else {
			e.watcher = watcher
			if err := watcher.Start(); err != nil {
				logger.Warn("seed watcher", zap.Error(err))
			}
		}
	}

	return e, nil
}

// shutdown tears the engine down in reverse order, persisting usage counts
// if a word store is configured.
func (e *engine) shutdown() {
	if e.watcher != nil {
		e.watcher.Stop()
	}
	if e.words != nil {
		if _, err := e.words.SaveUsage(e.brain.Dictionary()); err != nil {
			logger.Warn("usage save", zap.Error(err))
		}
		_ = e.words.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.brain.Stop(ctx); err != nil {
		logger.Warn("brain stop", zap.Error(err))
	}
}

func runREPL() error {
	e, err := buildEngine(brain.ResponderFunc(func(message, preText, postText string) {
		fmt.Println(replyStyle.Render(preText + message + postText))
	}))
	if err != nil {
		return err
	}
	defer e.shutdown()

	fmt.Println(faintStyle.Render(fmt.Sprintf("%s %s - type 'exit' to quit", e.cfg.Name, e.cfg.Version)))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		e.brain.AddInput(line)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := e.brain.WaitIdle(ctx); err != nil {
			fmt.Println(errorStyle.Render("still thinking, moving on..."))
		}
		cancel()
	}
	return scanner.Err()
}
