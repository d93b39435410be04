package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/transcript-segmenter/orchestrator"
	"github.com/maastricht-university/transcript-segmenter/output"
)

type segmentOptions struct {
	audio       string
	recordingID string
	strategy    string
	method      string
	format      string
	output      string
	noPersist   bool
}

func newSegmentCmd(root *rootOptions) *cobra.Command {
	o := &segmentOptions{}
	cmd := &cobra.Command{
		Use:   "segment [transcript.json|transcript.txt]",
		Short: "Segment a transcript or an audio recording",
		Long: `Segment a transcript into labeled topics.

A .json transcript holds {"recording_id", "text", "sentences": [{"id",
"start_s", "end_s", "text"}]}. A .txt transcript is split into sentences on
terminal punctuation. With --audio the recording is transcribed first.

Segments are written to stdout (or --output) and, unless --no-persist is set,
to <paths.outputs>/segments/<id>/<id>.json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.audio, "audio", "", "audio file to transcribe instead of a transcript")
	f.StringVar(&o.recordingID, "recording-id", "", "recording id (default: file name without extension)")
	f.StringVar(&o.strategy, "strategy", "", "segmentation strategy: adaptive|spectral")
	f.StringVar(&o.method, "method", "", "adaptive threshold method: std|percentile")
	f.StringVarP(&o.format, "format", "f", output.FormatJSON, "output format: json|yaml|markdown")
	f.StringVarP(&o.output, "output", "o", "", "write output to file instead of stdout")
	f.BoolVar(&o.noPersist, "no-persist", false, "do not write segments under paths.outputs")
	return cmd
}

func (o *segmentOptions) run(cmd *cobra.Command, root *rootOptions, args []string) error {
	in := orchestrator.Input{
		RecordingID: o.recordingID,
		AudioPath:   o.audio,
		NoPersist:   o.noPersist,
	}
	if len(args) == 1 {
		in.TranscriptPath = args[0]
	}
	if in.TranscriptPath == "" && in.AudioPath == "" {
		return fmt.Errorf("a transcript path or --audio is required")
	}
	if in.TranscriptPath != "" && in.AudioPath != "" {
		return fmt.Errorf("give either a transcript or --audio, not both")
	}

	if err := output.CheckFormat(o.format); err != nil {
		return err
	}

	c, err := root.load()
	if err != nil {
		return err
	}
	if o.strategy != "" {
		c.Segmentation.Strategy = o.strategy
	}
	if o.method != "" {
		c.Segmentation.SimilarityMethod = o.method
	}
	if err := c.Validate(); err != nil {
		return err
	}

	p, err := orchestrator.NewPipeline(c, orchestrator.WithLogger(logrus.NewEntry(logrus.StandardLogger())))
	if err != nil {
		return err
	}
	res, err := p.Run(cmd.Context(), in)
	if err != nil {
		return err
	}

	meta := output.Metadata{
		RecordingID: res.RecordingID,
		Source:      in.TranscriptPath + in.AudioPath,
		Strategy:    c.Segmentation.Strategy,
		Language:    res.Language,
		Generated:   time.Now().Format(time.RFC3339),
	}
	if o.output == "" {
		return output.Write(cmd.OutOrStdout(), o.format, meta, res.Segments)
	}
	return writeFile(o.output, func(w io.Writer) error {
		return output.Write(w, o.format, meta, res.Segments)
	})
}

// writeFile creates path, runs write on it and reports the close error
// when write succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fd.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(fd)
}
