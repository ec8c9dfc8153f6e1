package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gravitational/trace"

	"github.com/caelisco/tourl"
	"github.com/caelisco/tourl/deliver"
	"github.com/caelisco/tourl/input"
	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/progress"
	"github.com/caelisco/tourl/response"
	"github.com/caelisco/tourl/value"
)

type config struct {
	Files      []string
	Output     string
	Compress   string
	Get        string
	Post       string
	Verbose    bool
	LogFormat  string
	Identifier string
	Timeout    time.Duration
}

// parseCLI parses args. Values from the environment become the flag
// defaults, so a flag always wins over its variable.
func parseCLI(args []string, env options.Config, stderr io.Writer) (*config, error) {
	c := &config{}

	app := kingpin.New("to-url", "Convert record or table into URL-encoded text.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	app.Arg("files", "JSON or YAML files to convert. Standard input is read when none are given").
		StringsVar(&c.Files)

	app.Flag("output", "Where to write the result, - for standard output").
		Short('o').
		Default("-").
		StringVar(&c.Output)

	app.Flag("compress", "Compression of the written result: none, gzip, deflate, br, snappy or lz4").
		Short('c').
		Default(orDefault(env.Compression, "none")).
		StringVar(&c.Compress)

	app.Flag("get", "Append the result to the query of this URL and GET it").
		PlaceHolder("URL").
		StringVar(&c.Get)

	app.Flag("post", "POST the result as a form body to this URL").
		PlaceHolder("URL").
		StringVar(&c.Post)

	app.Flag("verbose", "Log progress to standard error").
		Short('v').
		Default(strconv.FormatBool(env.Verbose)).
		BoolVar(&c.Verbose)

	app.Flag("log-format", "Format of log lines").
		Default(orDefault(env.LogFormat, "text")).
		EnumVar(&c.LogFormat, "text", "json")

	app.Flag("id", "Identifier attached to each run: none, uuid or ulid").
		Default(orDefault(env.Identifier, "ulid")).
		StringVar(&c.Identifier)

	app.Flag("timeout", "Timeout for delivering the result").
		Default("30s").
		DurationVar(&c.Timeout)

	if _, err := app.Parse(args); err != nil {
		return nil, trace.BadParameter("%v", err)
	}

	if c.Get != "" && c.Post != "" {
		return nil, trace.BadParameter("--get and --post cannot be used together")
	}

	return c, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// buildOptions layers the command line over the environment configuration.
func buildOptions(c *config, env options.Config, stderr io.Writer) (*options.Option, error) {
	opt, err := env.Option()
	if err != nil {
		return nil, trace.Wrap(err)
	}

	compression, err := options.ParseCompression(c.Compress)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	opt.SetCompression(compression)

	identifier, err := options.ParseIdentifier(c.Identifier)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	opt.UniqueIdentifierType = identifier

	switch c.LogFormat {
	case "json":
		opt.Logger = slog.New(slog.NewJSONHandler(stderr, nil))
	default:
		opt.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	opt.Verbose = c.Verbose

	if f, ok := stderr.(*os.File); ok && c.Verbose && progress.IsTerminal(f) {
		opt.OnReadProgress = progress.CreateProgressFunc(f, "Read")
		opt.OnUploadProgress = progress.CreateProgressFunc(f, "Sent")
	}

	opt.SetOutputPath(c.Output)
	return opt, nil
}

// openInput opens a named input and reports its size, or stdin with an
// unknown size when name is empty.
func openInput(name string, stdin io.Reader) (io.ReadCloser, int64, error) {
	if name == "" {
		return io.NopCloser(stdin), -1, nil
	}

	fileinfo, err := os.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, trace.NotFound("file does not exist: %s", name)
		}
		return nil, 0, trace.Wrap(err, "failed to access file")
	}
	if fileinfo.IsDir() {
		return nil, 0, trace.BadParameter("%s is a directory", name)
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, 0, trace.Wrap(err, "failed to open file")
	}
	return file, fileinfo.Size(), nil
}

// convert decodes one input and encodes it. The call site is the whole
// input, so errors point into the text that was read.
func convert(name string, stdin io.Reader, opt *options.Option) (value.String, error) {
	in, size, err := openInput(name, stdin)
	if err != nil {
		return value.String{}, trace.Wrap(err)
	}
	defer in.Close()

	var r io.Reader = in
	if opt.OnReadProgress != nil && size > 0 {
		r = options.NewProgressReader(in, size, opt.OnReadProgress)
	}

	v, err := input.Decode(r)
	if err != nil {
		return value.String{}, trace.Wrap(err, "reading %s", displayName(name))
	}

	opt.LogVerbose("decoded input", "input", displayName(name), "type", v.Type().String())
	out, err := tourl.ToURL{Options: opt}.Run(value.NewSpan(0, max(int(size), 0)), value.Iterate(v))
	if err != nil {
		return value.String{}, err
	}
	for s := range out {
		return s.(value.String), nil
	}
	return value.String{}, trace.NotFound("no result produced")
}

func displayName(name string) string {
	if name == "" {
		return "standard input"
	}
	return name
}

func writeResult(ctx context.Context, c *config, result value.String, opt *options.Option, stdout io.Writer) error {
	var (
		resp response.Response
		err  error
	)
	switch {
	case c.Get != "":
		resp, err = deliver.Get(ctx, c.Get, result.Val, opt)
	case c.Post != "":
		resp, err = deliver.Post(ctx, c.Post, result.Val, opt)
	default:
		return writeOutput(result, opt, stdout)
	}
	if err != nil {
		return trace.Wrap(err, "delivering result")
	}

	fmt.Fprintln(stdout, resp.Status)
	if resp.StatusCode >= 400 {
		return trace.Errorf("server responded with %s", resp.Status)
	}
	return nil
}

func writeOutput(result value.String, opt *options.Option, stdout io.Writer) error {
	if opt.Output.Type == options.WriteToStdout {
		if f, ok := stdout.(*os.File); ok && opt.Compressed() && progress.IsTerminal(f) {
			return trace.BadParameter("refusing to write %s compressed output to a terminal", opt.Compression)
		}
		return trace.Wrap(tourl.Write(stdout, result, opt))
	}

	w, err := opt.InitialiseWriter()
	if err != nil {
		return trace.Wrap(err)
	}
	if err := tourl.Write(w, result, opt); err != nil {
		w.Close()
		return trace.Wrap(err)
	}
	return trace.Wrap(w.Close())
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	env, err := options.LoadConfig()
	if err != nil {
		return trace.Wrap(err)
	}

	c, err := parseCLI(args, env, stderr)
	if err != nil {
		return trace.Wrap(err)
	}

	opt, err := buildOptions(c, env, stderr)
	if err != nil {
		return trace.Wrap(err)
	}

	names := c.Files
	if len(names) == 0 {
		names = []string{""}
	}

	// Like rows of a table, each input replaces the previous result.
	var result value.String
	for _, name := range names {
		result, err = convert(name, stdin, opt)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	return writeResult(ctx, c, result, opt, stdout)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", trace.UserMessage(err))
		os.Exit(1)
	}
}
