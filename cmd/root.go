/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/blacktop/xpublish/internal/logutil"
	"github.com/blacktop/xpublish/internal/xpublish"
	"github.com/blacktop/xpublish/internal/xpublish/destinations"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type options struct {
	title        string
	summary      string
	contentPath  string
	canonicalURL string
	imageURL     string
	tags         []string
	targets      []string
	requestPath  string
	credentials  string
	timeout      time.Duration
	dryRun       bool
	jsonOutput   bool
	verbose      bool
}

// adapterFactory builds the adapters for a credential source; tests replace it.
var adapterFactory = destinations.New

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "xpublish",
		Short: "Publish one article to many platforms",
		Long: "xpublish fans a single article out to X, LinkedIn, Facebook, Medium, DEV.to, " +
			"Mastodon and Bluesky, shaping it for each destination and reporting one outcome per platform. " +
			"Destinations without credentials are skipped.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logutil.SetVerbose(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, opts)
		},
		Example: `  xpublish --title "Async Patterns" --summary "..." --content post.md --tag go,async --target twitter --target medium
  xpublish --request request.json --json
  cat post.md | xpublish --title "Async Patterns" --summary "..." --target all --dry-run`,
	}

	f := cmd.Flags()
	f.StringVarP(&opts.title, "title", "t", "", "Article title (5+ characters)")
	f.StringVarP(&opts.summary, "summary", "s", "", "Short synopsis (24+ characters)")
	f.StringVarP(&opts.contentPath, "content", "c", "", "Path to the markdown body, or - for stdin")
	f.StringVar(&opts.canonicalURL, "canonical-url", "", "Canonical URL of the original article")
	f.StringVar(&opts.imageURL, "image-url", "", "Cover image URL")
	f.StringSliceVar(&opts.tags, "tag", nil, "Tags (repeatable or comma separated, at most 8)")
	f.StringSliceVar(&opts.targets, "target", []string{"all"}, "Destinations to publish to (see the destinations command, or all)")
	f.StringVarP(&opts.requestPath, "request", "r", "", "Read a JSON publish request from a file, or - for stdin")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print shaped payloads without posting")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	f.SortFlags = false

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.credentials, "credentials", "", "YAML file of credential variables (environment wins)")
	pf.DurationVar(&opts.timeout, "timeout", xpublish.DefaultTimeout, "Per-destination timeout (0 disables)")
	pf.BoolVarP(&opts.verbose, "verbose", "V", false, "Enable debug logging")

	cmd.AddCommand(newDestinationsCommand(opts))
	cmd.AddCommand(newCompletionCommand())

	return cmd
}

func runPublish(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()

	creds, err := loadCredentials(opts.credentials)
	if err != nil {
		return reportInvalid(out, opts.jsonOutput, err)
	}

	req, err := resolveRequest(cmd, opts)
	if err != nil {
		return reportInvalid(out, opts.jsonOutput, err)
	}

	publisher := xpublish.NewPublisher(adapterFactory(creds), xpublish.WithTimeout(opts.timeout))

	if opts.dryRun {
		plans, err := publisher.Plan(req)
		if err != nil {
			return reportInvalid(out, opts.jsonOutput, err)
		}
		return printPlans(out, plans)
	}

	results, err := publisher.Publish(ctx, req)
	if err != nil {
		return reportInvalid(out, opts.jsonOutput, err)
	}

	if opts.jsonOutput {
		if err := writeJSON(out, xpublish.NewResponse(results, nil)); err != nil {
			return err
		}
	} else {
		printOutcomes(out, results)
	}

	var errs []error
	for _, r := range results {
		if r.Status == xpublish.StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %s", r.Platform, r.Message))
		}
	}
	return errors.Join(errs...)
}

func loadCredentials(path string) (xpublish.Credentials, error) {
	if path == "" {
		return xpublish.EnvCredentials{}, nil
	}
	file, err := xpublish.LoadCredentialsFile(path)
	if err != nil {
		return nil, err
	}
	return xpublish.ChainCredentials{xpublish.EnvCredentials{}, file}, nil
}

func resolveRequest(cmd *cobra.Command, opts *options) (xpublish.Request, error) {
	var req xpublish.Request

	if opts.requestPath != "" {
		r, closeFn, err := openInput(cmd, opts.requestPath)
		if err != nil {
			return req, err
		}
		defer closeFn()
		if req, err = xpublish.DecodeRequest(r); err != nil {
			return req, err
		}
		if cmd.Flags().Changed("target") {
			req.Platforms = normalizeTargets(opts.targets)
		}
		return req, nil
	}

	body, err := readContent(cmd, opts.contentPath)
	if err != nil {
		return req, err
	}

	var tags []string
	for _, t := range opts.tags {
		tags = append(tags, xpublish.SplitTags(t)...)
	}

	return xpublish.Request{
		Content: xpublish.Content{
			Title:        opts.title,
			Summary:      opts.summary,
			Content:      body,
			CanonicalURL: opts.canonicalURL,
			ImageURL:     opts.imageURL,
			Tags:         tags,
		},
		Platforms: normalizeTargets(opts.targets),
	}, nil
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	if path != "" {
		r, closeFn, err := openInput(cmd, path)
		if err != nil {
			return "", err
		}
		defer closeFn()
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read content: %w", err)
		}
		return string(data), nil
	}

	stdin := cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return file, func() { file.Close() }, nil
}

// normalizeTargets expands "all" and comma lists, keeping request order.
// Unknown names are kept so validation can report them.
func normalizeTargets(values []string) []xpublish.Key {
	var keys []xpublish.Key
	for _, v := range values {
		for _, raw := range strings.Split(v, ",") {
			raw = strings.TrimSpace(strings.ToLower(raw))
			switch raw {
			case "":
			case "all":
				keys = append(keys, xpublish.Keys()...)
			default:
				keys = append(keys, xpublish.Key(raw))
			}
		}
	}
	return keys
}

// reportInvalid writes err as a JSON failure response when asJSON is set.
// Validation errors and internal faults map to distinct response forms.
func reportInvalid(out io.Writer, asJSON bool, err error) error {
	if asJSON {
		if werr := writeJSON(out, xpublish.NewResponse(nil, err)); werr != nil {
			return errors.Join(err, werr)
		}
	}
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printOutcomes(out io.Writer, results []xpublish.Outcome) {
	for _, r := range results {
		label := string(r.Platform)
		if desc, err := xpublish.Describe(r.Platform); err == nil {
			label = desc.Label
		}
		fmt.Fprintf(out, "%-12s %-8s %s\n", label, r.Status, r.Message)
	}
}

func printPlans(out io.Writer, plans []xpublish.Plan) error {
	for _, p := range plans {
		switch {
		case p.Err != nil:
			fmt.Fprintf(out, "[dry-run] %s: cannot shape: %v\n", p.Key, p.Err)
			continue
		case len(p.Missing) > 0:
			fmt.Fprintf(out, "[dry-run] %s: would skip (missing %s)\n", p.Key, strings.Join(p.Missing, ", "))
		default:
			fmt.Fprintf(out, "[dry-run] would publish to %s:\n", p.Key)
		}
		data, err := json.MarshalIndent(p.Payload, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", p.Key, err)
		}
		fmt.Fprintf(out, "  %s\n", data)
	}
	return nil
}
