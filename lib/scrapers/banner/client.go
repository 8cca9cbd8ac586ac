package banner

import (
	"bannerreg/lib/chrono"
	"bannerreg/lib/restyutil"
	"bannerreg/lib/telemetry"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseUrl = "https://banner.oci.yu.edu/ssb/"

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// portal procedures, relative to the base url
const (
	LoginPagePath     = "twbkwbis.P_WWWLogin"
	ValidateLoginPath = "twbkwbis.P_ValLogin"
	SelectTermPath    = "bwskflib.P_SelDefTerm"
	StoreTermPath     = "bwcklibs.P_StoreTerm"
	RegistrationPath  = "bwskfreg.P_AltPin"
	SubmitPath        = "bwckcoms.P_Regs"
)

const (
	baseCookie           = "TESTID=set; POKEHAYU=SRV_1"
	formContentType      = "application/x-www-form-urlencoded"
	authorizationFailure = "Authorization Failure"
)

type Credentials struct {
	StudentID string
	PIN       string
}

type ClientOptions struct {
	BaseUrl     string
	Term        string
	Credentials Credentials
	// submission is held back until this instant
	RegistrationTime time.Time

	// defaults to the system clock in the local zone
	Clock chrono.API
	// defaults to chrono.DefaultPollInterval
	PollInterval time.Duration
	// zero leaves requests without a timeout
	Timeout   time.Duration
	UserAgent string
	Selectors Selectors
	// routes requests through cloudflare-bp-go's transport
	CloudflareBypass bool
	// when non-nil every http exchange is written to it
	InstrumentOutput restyutil.InstrumentOutput
}

// Client drives one registration run against a Banner portal. It is not
// safe for concurrent use, every method advances a single session.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	RunId   string

	term         string
	creds        Credentials
	target       time.Time
	clock        chrono.API
	pollInterval time.Duration
	selectors    Selectors
	logger       *slog.Logger

	session string
	state   State
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.Term == "" {
		return nil, fmt.Errorf("term is required")
	}
	if opts.Credentials.StudentID == "" || opts.Credentials.PIN == "" {
		return nil, fmt.Errorf("student id and pin are required")
	}

	clock := opts.Clock
	if clock == nil {
		clock, err = chrono.NewStandardImpl("")
		if err != nil {
			return nil, err
		}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	// the session cookie is carried by hand, a jar would append its own
	client.SetCookieJar(nil)
	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	telemetry.InstrumentResty(client, "bannerreg/banner/http")
	restyutil.InstrumentClient(client, opts.InstrumentOutput)

	runId := uuid.NewString()
	return &Client{
		BaseUrl:      baseUrl,
		Http:         client,
		RunId:        runId,
		term:         opts.Term,
		creds:        opts.Credentials,
		target:       opts.RegistrationTime,
		clock:        clock,
		pollInterval: opts.PollInterval,
		selectors:    opts.Selectors.withDefaults(),
		logger:       slog.Default().With("run_id", runId),
		state:        StateUnauthenticated,
	}, nil
}

func (c *Client) State() State {
	return c.state
}

// Session returns the current session cookie, empty before Authenticate.
func (c *Client) Session() string {
	return c.session
}

func (c *Client) sessionCookie() string {
	return "TESTID=set; " + c.session + " POKEHAYU=SRV_1"
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("run_id", c.RunId),
		attribute.String("state", c.state.String()),
	))
}

func (c *Client) expectState(step string, want State) error {
	if c.state == want {
		return nil
	}
	return &Error{
		Kind: KindState,
		Step: step,
		Err:  fmt.Errorf("client is %s, expected %s", c.state, want),
	}
}

func (c *Client) fail(span trace.Span, err error) error {
	c.state = StateFailed
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error("registration run failed", "err", err)
	return err
}

// send issues one request, a transport failure becomes a KindTransport
// error and anything but 200 becomes a KindStatus error.
func (c *Client) send(ctx context.Context, method, path, cookie, body string) (*resty.Response, error) {
	req := c.Http.R().SetContext(ctx)
	if cookie != "" {
		req.SetHeader("Cookie", cookie)
	}
	if method == resty.MethodPost {
		req.SetHeader("Content-Type", formContentType)
		req.SetBody(body)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Step: path, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		return res, &Error{
			Kind:       KindStatus,
			Step:       path,
			StatusCode: res.StatusCode(),
			Body:       res.String(),
		}
	}
	return res, nil
}

// refreshSession adopts a new session cookie if the response set one.
func (c *Client) refreshSession(res *resty.Response) {
	session, err := SessionCookie(res.Header())
	if err != nil {
		return
	}
	c.session = session
}

func (c *Client) requireSession(step string, res *resty.Response) error {
	session, err := SessionCookie(res.Header())
	if err != nil {
		return &Error{Kind: KindScrape, Step: step, StatusCode: res.StatusCode(), Err: err}
	}
	c.session = session
	return nil
}

// Authenticate logs in with the student's credentials and stores the
// session cookie the portal hands back.
func (c *Client) Authenticate(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "client:Authenticate")
	defer span.End()

	err := c.expectState("Authenticate", StateUnauthenticated)
	if err != nil {
		return err
	}

	// implicitly verifies the portal is reachable
	_, err = c.send(ctx, resty.MethodGet, LoginPagePath, "", "")
	if err != nil {
		return c.fail(span, err)
	}

	body := "sid=" + url.QueryEscape(c.creds.StudentID) + "&PIN=" + url.QueryEscape(c.creds.PIN)
	res, err := c.send(ctx, resty.MethodPost, ValidateLoginPath, baseCookie, body)
	if IsKind(err, KindTransport) {
		return c.fail(span, err)
	}
	if err != nil || strings.Contains(res.String(), authorizationFailure) {
		return c.fail(span, &Error{
			Kind:       KindAuthentication,
			Step:       ValidateLoginPath,
			StatusCode: res.StatusCode(),
			Body:       res.String(),
			Err:        ErrAuthorizationFailure,
		})
	}

	err = c.requireSession(ValidateLoginPath, res)
	if err != nil {
		return c.fail(span, err)
	}

	c.state = StateAuthenticated
	c.logger.InfoContext(ctx, "authenticated")
	return nil
}

// SelectTerm makes the configured term the session's registration term.
func (c *Client) SelectTerm(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "client:SelectTerm")
	defer span.End()
	span.SetAttributes(attribute.String("term", c.term))

	err := c.expectState("SelectTerm", StateAuthenticated)
	if err != nil {
		return err
	}

	res, err := c.send(ctx, resty.MethodGet, SelectTermPath, c.sessionCookie(), "")
	if err != nil {
		return c.fail(span, err)
	}
	c.refreshSession(res)

	res, err = c.send(
		ctx, resty.MethodPost, StoreTermPath, c.sessionCookie(),
		"name_var=bmenu.P_RegMnu&term_in="+c.term,
	)
	if err != nil {
		return c.fail(span, err)
	}
	err = c.requireSession(StoreTermPath, res)
	if err != nil {
		return c.fail(span, err)
	}

	c.state = StateTermSelected
	c.logger.InfoContext(ctx, "term selected", "term", c.term)
	return nil
}

// fetchRecords loads the registration page and scrapes the student's
// current enrollment from it.
func (c *Client) fetchRecords(ctx context.Context) ([]Record, error) {
	res, err := c.send(ctx, resty.MethodGet, RegistrationPath, c.sessionCookie(), "")
	if err != nil {
		return nil, err
	}
	c.refreshSession(res)

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, &Error{Kind: KindScrape, Step: RegistrationPath, Err: err}
	}
	return ExistingRecords(ctx, doc, c.selectors.Records), nil
}

func (c *Client) slots(ctx context.Context, crns []string) CRNSlots {
	if len(crns) > MaxCRNs {
		c.logger.WarnContext(
			ctx, "only the first crns fit on the registration form, ignoring the rest",
			"max", MaxCRNs,
			"ignored", crns[MaxCRNs:],
		)
	}
	return NewCRNSlots(crns)
}

// Preview builds the payload Register would submit right now, without
// waiting for the registration time or posting it.
func (c *Client) Preview(ctx context.Context, crns []string) (string, error) {
	ctx, span := c.startSpan(ctx, "client:Preview")
	defer span.End()

	err := c.expectState("Preview", StateTermSelected)
	if err != nil {
		return "", err
	}
	records, err := c.fetchRecords(ctx)
	if err != nil {
		return "", c.fail(span, err)
	}
	return BuildPayload(c.term, records, c.slots(ctx, crns)), nil
}

// Result is what the confirmation page reported after submission.
type Result struct {
	// number of courses the student was already registered for
	ExistingRecords int
	Registered      ResultTable
	Errors          ResultTable
	// time between fetching the registration page and reading the result
	Elapsed time.Duration
}

func (c *Client) waitForRegistrationTime(ctx context.Context) error {
	lastLogged := time.Duration(-1)
	return chrono.WaitUntil(ctx, c.clock, c.target, c.pollInterval, func(remaining time.Duration) {
		seconds := remaining.Truncate(time.Second)
		if seconds == lastLogged {
			return
		}
		lastLogged = seconds
		waitRemaining.Record(ctx, int64(seconds.Seconds()))
		c.logger.InfoContext(ctx, "waiting for registration time", "remaining", seconds)
	})
}

// Register blocks until the registration time, then submits the
// student's current enrollment together with crns (at most 10 are used).
func (c *Client) Register(ctx context.Context, crns []string) (Result, error) {
	ctx, span := c.startSpan(ctx, "client:Register")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("crns", crns))

	err := c.expectState("Register", StateTermSelected)
	if err != nil {
		return Result{}, err
	}
	slots := c.slots(ctx, crns)

	c.state = StateWaiting
	err = c.waitForRegistrationTime(ctx)
	if err != nil {
		return Result{}, c.fail(span, fmt.Errorf("waiting for registration time: %w", err))
	}

	c.logger.InfoContext(ctx, "registering now")
	start := c.clock.Now()

	records, err := c.fetchRecords(ctx)
	if err != nil {
		return Result{}, c.fail(span, err)
	}

	payload := BuildPayload(c.term, records, slots)
	res, err := c.send(ctx, resty.MethodPost, SubmitPath, c.sessionCookie(), payload)
	if err != nil {
		return Result{}, c.fail(span, err)
	}
	c.state = StateSubmitted

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return Result{}, c.fail(span, &Error{Kind: KindScrape, Step: SubmitPath, Err: err})
	}
	result := Result{
		ExistingRecords: len(records),
		Registered:      ResultTableAt(doc, c.selectors.Registered),
		Errors:          ResultTableAt(doc, c.selectors.Errors),
		Elapsed:         c.clock.Now().Sub(start),
	}
	c.state = StateReported
	submitDuration.Record(ctx, result.Elapsed.Milliseconds())

	c.logger.InfoContext(
		ctx, "registration submitted",
		"elapsed_ms", result.Elapsed.Milliseconds(),
		"existing_records", result.ExistingRecords,
		"registered_rows", len(result.Registered.Rows),
		"error_rows", len(result.Errors.Rows),
	)
	return result, nil
}

// Run performs the whole registration run: login, term selection and the
// timed submission.
func (c *Client) Run(ctx context.Context, crns []string) (Result, error) {
	err := c.Authenticate(ctx)
	if err != nil {
		return Result{}, err
	}
	err = c.SelectTerm(ctx)
	if err != nil {
		return Result{}, err
	}
	return c.Register(ctx, crns)
}
