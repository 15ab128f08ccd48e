package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pb33f/harhar"
	"github.com/spf13/cobra"

	courierApp "github.com/shhac/courier/internal/app"
	"github.com/shhac/courier/internal/collection"
	"github.com/shhac/courier/internal/dispatch"
	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/harexport"
	"github.com/shhac/courier/internal/request"
	"github.com/shhac/courier/internal/transport"
)

// sendOptions are the flags of the send command.
type sendOptions struct {
	method  string
	headers []string
	query   []string
	data    string

	file string
	name string
	all  bool

	auth         string
	user         string
	token        string
	apiKey       string
	apiKeyIn     string
	awsAccessKey string
	awsSecretKey string
	awsSession   string
	awsRegion    string
	awsService   string

	har     string
	raw     bool
	quiet   bool
	fail    bool
	timeout time.Duration
}

func newSendCmd(g *globalOptions) *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send [url]",
		Short: "Send a request and print the response",
		Long: `Send builds a request from flags or from a YAML request file, sends it through
the same assembly and authentication pipeline as the desktop client, and prints
the status, headers and body of the response.

Flags given alongside --file are applied on top of the request from the file:
headers and query parameters are appended, method, body and auth replace.`,
		Example: `  courier send https://httpbin.org/get -q page=2 -H "Accept: application/json"
  courier send https://api.example.com/items -X POST -d '{"name":"x"}' --token $TOKEN
  courier send https://sqs.us-east-1.amazonaws.com -q Action=ListQueues \
      --aws-access-key $AWS_ACCESS_KEY_ID --aws-secret-key $AWS_SECRET_ACCESS_KEY --aws-region us-east-1 --aws-service sqs
  courier send -f requests.yaml --name login
  courier send -f requests.yaml --all --har run.har`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, g, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.method, "method", "X", "", "HTTP method (default GET)")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, `Header "Name: value" (repeatable)`)
	f.StringArrayVarP(&opts.query, "query", "q", nil, `Query parameter "key=value" (repeatable)`)
	f.StringVarP(&opts.data, "data", "d", "", "Request body; @path reads it from a file")

	f.StringVarP(&opts.file, "file", "f", "", "YAML request or collection file")
	f.StringVarP(&opts.name, "name", "n", "", "Request to send from --file (default first)")
	f.BoolVar(&opts.all, "all", false, "Send every request in --file, in order")

	f.StringVar(&opts.auth, "auth", "", "Auth scheme: none, basic, bearer, api_key, aws_sigv4 (inferred from credentials)")
	f.StringVarP(&opts.user, "user", "u", "", `Basic auth "username:password"`)
	f.StringVar(&opts.token, "token", "", "Bearer token")
	f.StringVar(&opts.apiKey, "api-key", "", `API key "name=value"`)
	f.StringVar(&opts.apiKeyIn, "api-key-in", string(domain.APIKeyInHeader), "Where to place the API key: header or query")
	f.StringVar(&opts.awsAccessKey, "aws-access-key", "", "AWS access key id")
	f.StringVar(&opts.awsSecretKey, "aws-secret-key", "", "AWS secret access key")
	f.StringVar(&opts.awsSession, "aws-session-token", "", "AWS session token")
	f.StringVar(&opts.awsRegion, "aws-region", "", "AWS region")
	f.StringVar(&opts.awsService, "aws-service", "", "AWS service name")

	f.StringVar(&opts.har, "har", "", "Write the exchanges as a HAR file (- for stdout)")
	f.BoolVar(&opts.raw, "raw", false, "Print the body as received instead of pretty-printed")
	f.BoolVarP(&opts.quiet, "quiet", "s", false, "Print only the body")
	f.BoolVar(&opts.fail, "fail", false, "Exit non-zero on a non-2xx status")
	f.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default from config)")

	return cmd
}

func runSend(cmd *cobra.Command, g *globalOptions, opts *sendOptions, args []string) error {
	drafts, err := opts.drafts(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.RequestTimeout = opts.timeout
	}

	exchanges, err := sendAll(cmd.Context(), cfg, drafts, g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, ex := range exchanges {
		if i > 0 && !opts.quiet {
			fmt.Fprintln(out)
		}
		if len(exchanges) > 1 && !opts.quiet {
			fmt.Fprintln(out, titleStyle.Render(drafts[i].Title()))
		}
		printExchange(out, ex, printOptions{raw: opts.raw, quiet: opts.quiet})
	}

	if opts.har != "" {
		if err := writeHAR(cmd, opts.har, exchanges); err != nil {
			return err
		}
	}

	return exitStatus(exchanges, opts.fail)
}

// sendAll runs the drafts one after another on a serial executor, sharing
// one cookie jar, and returns the exchanges in draft order.
func sendAll(ctx context.Context, cfg *courierApp.Config, drafts []*domain.Draft, g *globalOptions) ([]dispatch.Exchange, error) {
	wires := make([]*request.WireRequest, len(drafts))
	for i, d := range drafts {
		wire, err := request.AssembleSnapshot(d.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Title(), err)
		}
		wires[i] = wire
	}

	exec := dispatch.NewSerial(g.logger)
	defer exec.Close()
	stop := context.AfterFunc(ctx, exec.Close)
	defer stop()

	d := courierApp.NewDispatcher(cfg, exec, transport.NewCookieJar(), g.logger)

	exchanges := make([]dispatch.Exchange, len(drafts))
	for i := range drafts {
		exec.Go(func(taskCtx context.Context) {
			exchanges[i] = d.Execute(taskCtx, drafts[i].Auth, wires[i])
		})
	}
	exec.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return exchanges, nil
}

// drafts builds the requests to send from the file and flag options.
func (o *sendOptions) drafts(cmd *cobra.Command, args []string) ([]*domain.Draft, error) {
	var drafts []*domain.Draft

	switch {
	case o.file != "" && len(args) > 0:
		return nil, errors.New("give either a URL or --file, not both")
	case o.file != "":
		c, err := collection.Load(o.file)
		if err != nil {
			return nil, err
		}
		specs := c.Requests
		if !o.all {
			spec, err := c.Find(o.name)
			if err != nil {
				return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(c.Names(), ", "))
			}
			specs = []collection.RequestSpec{spec}
		}
		for i, spec := range specs {
			d, err := spec.Draft(domain.DraftID(i + 1))
			if err != nil {
				return nil, fmt.Errorf("request %q: %w", spec.Name, err)
			}
			drafts = append(drafts, d)
		}
	case len(args) == 1:
		d := domain.NewDraft(1)
		d.URL = args[0]
		drafts = append(drafts, d)
	default:
		return nil, errors.New("a URL or --file is required")
	}

	for _, d := range drafts {
		if err := o.apply(cmd, d); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

// apply layers the flag values over d.
func (o *sendOptions) apply(cmd *cobra.Command, d *domain.Draft) error {
	if o.method != "" {
		m, err := domain.ParseMethod(o.method)
		if err != nil {
			return err
		}
		d.Method = m
	}

	for _, h := range o.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid header %q, want \"Name: value\"", h)
		}
		d.Headers = append(d.Headers, domain.NewParam(strings.TrimSpace(name), strings.TrimSpace(value)))
	}
	for _, q := range o.query {
		key, value, _ := strings.Cut(q, "=")
		d.Query = append(d.Query, domain.NewParam(key, value))
	}

	if cmd.Flags().Changed("data") {
		body, err := readBody(o.data)
		if err != nil {
			return err
		}
		d.Body = body
	}

	scheme, err := o.authScheme()
	if err != nil {
		return err
	}
	if scheme != nil {
		d.Auth = scheme
	}
	return nil
}

// authScheme builds the scheme selected by the auth flags. It returns nil
// when no auth flag was given.
func (o *sendOptions) authScheme() (domain.AuthScheme, error) {
	env := domain.AuthEnvelope{Type: domain.AuthKind(o.auth)}
	if env.Type == "" {
		switch {
		case o.user != "":
			env.Type = domain.AuthKindBasic
		case o.token != "":
			env.Type = domain.AuthKindBearer
		case o.apiKey != "":
			env.Type = domain.AuthKindAPIKey
		case o.awsAccessKey != "" || o.awsSecretKey != "":
			env.Type = domain.AuthKindAWSSigV4
		default:
			return nil, nil
		}
	}

	switch env.Type {
	case domain.AuthKindBasic:
		env.Username, env.Password, _ = strings.Cut(o.user, ":")
	case domain.AuthKindBearer:
		env.Token = o.token
	case domain.AuthKindAPIKey:
		key, value, ok := strings.Cut(o.apiKey, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --api-key %q, want \"name=value\"", o.apiKey)
		}
		env.Key, env.Value = key, value
		env.Location = domain.APIKeyLocation(strings.ToLower(o.apiKeyIn))
	case domain.AuthKindAWSSigV4:
		env.AccessKey = o.awsAccessKey
		env.SecretKey = o.awsSecretKey
		env.SessionToken = o.awsSession
		env.Region = o.awsRegion
		env.Service = o.awsService
	}
	return env.Scheme()
}

// readBody returns value, or the contents of the file it names when it
// starts with @.
func readBody(value string) (string, error) {
	path, ok := strings.CutPrefix(value, "@")
	if !ok {
		return value, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

func writeHAR(cmd *cobra.Command, path string, exchanges []dispatch.Exchange) error {
	entries := make([]harhar.Entry, 0, len(exchanges))
	for _, ex := range exchanges {
		entries = append(entries, harexport.Entry(ex.Request, ex.Response, ex.Started))
	}

	if path == "-" {
		return harexport.Write(cmd.OutOrStdout(), entries)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create har file: %w", err)
	}
	if err := harexport.Write(f, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close har file: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(fmt.Sprintf("wrote %d entries to %s", len(entries), path)))
	return nil
}

// exitStatus reports failed exchanges as an error. With failOnStatus a
// non-2xx response also counts as failed.
func exitStatus(exchanges []dispatch.Exchange, failOnStatus bool) error {
	failed := 0
	for _, ex := range exchanges {
		switch {
		case ex.Response.Kind != domain.KindCompleted:
			failed++
		case failOnStatus && !ex.Response.OK:
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	if len(exchanges) == 1 {
		return fmt.Errorf("request failed: %s", exchanges[0].Response.StatusLine())
	}
	return fmt.Errorf("%d of %d requests failed", failed, len(exchanges))
}
