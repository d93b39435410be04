// Package commands implements the segmenter command line.
package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/maastricht-university/transcript-segmenter/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "segmenter",
		Short: "Split transcripts into labeled topic segments",
		Long: `segmenter - split a transcript into contiguous topic segments and label them.

Input is a transcript (.json with timed sentences, or plain .txt) or an audio
file sent to the configured ASR service. Sentence embeddings and noun phrases
come from the configured embedding and NLP services.

Configuration is read from --config, config/$CONFIG_ENV/config.yaml or
./config.yaml, and every key can be overridden with SEGMENTER_* variables.

Examples:
  segmenter segment meeting.json
  segmenter segment --audio call.wav --strategy spectral --format markdown
  segmenter config show`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides pipeline.log_level)")

	root.AddCommand(newSegmentCmd(opts), newConfigCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the configuration and sets up logging from it.
func (o *rootOptions) load() (*cfg.Root, error) {
	c, err := cfg.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	level := o.logLevel
	if level == "" {
		level = c.Pipeline.LogLvl
	}
	if err := setupLogging(level); err != nil {
		return nil, err
	}
	return c, nil
}

func setupLogging(level string) error {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(lvl)
	return nil
}
