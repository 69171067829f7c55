package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Transport error codes. They follow libcurl numbering so that codes are
// familiar to anyone who has debugged a curl-based client.
const (
	ErrCodeOK                  = 0
	ErrCodeUnsupportedProtocol = 1
	ErrCodeFailed              = 2
	ErrCodeMalformedURL        = 3
	ErrCodeCouldNotResolveHost = 6
	ErrCodeCouldNotConnect     = 7
	ErrCodeTimedOut            = 28
	ErrCodeTLSConnect          = 35
	ErrCodeAborted             = 42
	ErrCodeBadOption           = 43
	ErrCodeTooManyRedirects    = 47
	ErrCodeRecvError           = 56
)

const defaultMaxRedirects = 10

// UserAgent is sent when the user_agent option is not set.
var UserAgent = "scloud/0.1.0"

var errTooManyRedirects = errors.New("maximum redirects followed")

// BuiltRequest is the transport-ready form of a Resource.
type BuiltRequest struct {
	Method  Verb
	URL     string
	Body    string
	HasBody bool
	Headers []string
	Options Options
}

// RawOutput is what a Transport hands back: the header and body blob, an
// info map that always carries "url", and a transport error code and message.
type RawOutput struct {
	Blob       string
	Info       map[string]any
	ErrCode    int
	ErrMessage string
}

// Transport performs a single blocking call. Failures are reported in the
// returned RawOutput, never as a panic or error.
type Transport interface {
	Do(ctx context.Context, req *BuiltRequest) RawOutput
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *BuiltRequest) RawOutput

// Do calls f.
func (f TransportFunc) Do(ctx context.Context, req *BuiltRequest) RawOutput {
	return f(ctx, req)
}

// HTTPTransport is a Transport backed by net/http.
type HTTPTransport struct {
	// Base, when set, replaces the round tripper built from the options. TLS,
	// proxy and connect timeout options are then ignored.
	Base http.RoundTripper

	logger zerolog.Logger
}

// NewHTTPTransport creates an HTTPTransport that writes verbose traces to logger.
func NewHTTPTransport(logger zerolog.Logger) *HTTPTransport {
	return &HTTPTransport{logger: logger}
}

// Do executes req.
func (t *HTTPTransport) Do(ctx context.Context, req *BuiltRequest) RawOutput {
	info := map[string]any{"url": req.URL}

	settings, err := decodeSettings(req.Options)
	if err != nil {
		return RawOutput{Info: info, ErrCode: ErrCodeBadOption, ErrMessage: err.Error()}
	}

	var body io.Reader
	if req.HasBody {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL, body)
	if err != nil {
		return RawOutput{Info: info, ErrCode: ErrCodeMalformedURL, ErrMessage: err.Error()}
	}

	httpReq.Header.Set("User-Agent", UserAgent)
	if settings.UserAgent != "" {
		httpReq.Header.Set("User-Agent", settings.UserAgent)
	}
	for _, line := range append(append([]string{}, req.Headers...), settings.HTTPHeader...) {
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	redirects := 0
	client, err := t.client(settings, &redirects)
	if err != nil {
		return RawOutput{Info: info, ErrCode: ErrCodeBadOption, ErrMessage: err.Error()}
	}

	if settings.Verbose {
		t.traceRequest(httpReq)
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		info["total_time"] = time.Since(start).Seconds()
		info["redirect_count"] = redirects
		code := classifyError(err)
		return RawOutput{Info: info, ErrCode: code, ErrMessage: err.Error()}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	info["url"] = resp.Request.URL.String()
	info["http_code"] = resp.StatusCode
	info["content_type"] = resp.Header.Get("Content-Type")
	info["redirect_count"] = redirects
	info["total_time"] = time.Since(start).Seconds()

	var blob strings.Builder
	if settings.Header {
		blob.WriteString(formatHead(resp))
	}
	info["header_size"] = blob.Len()
	if settings.ReturnTransfer {
		blob.Write(data)
	}

	if settings.Verbose {
		t.logger.Info().
			Str("status", resp.Status).
			Int("bytes", len(data)).
			Msg("< response")
	}

	out := RawOutput{Blob: blob.String(), Info: info}
	if readErr != nil {
		out.ErrCode = ErrCodeRecvError
		out.ErrMessage = readErr.Error()
	}
	return out
}

func (t *HTTPTransport) client(settings transportSettings, redirects *int) (*http.Client, error) {
	rt := t.Base
	if rt == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if settings.InsecureSkipVerify {
			base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		if settings.ConnectTimeout > 0 {
			base.DialContext = (&net.Dialer{Timeout: settings.ConnectTimeout}).DialContext
		}
		if settings.Proxy != "" {
			proxyURL, err := url.Parse(settings.Proxy)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy %q: %w", settings.Proxy, err)
			}
			base.Proxy = http.ProxyURL(proxyURL)
		}
		rt = base
	}

	maxRedirects := settings.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	return &http.Client{
		Transport: rt,
		Timeout:   settings.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !settings.FollowLocation {
				return http.ErrUseLastResponse
			}
			if len(via) > maxRedirects {
				return errTooManyRedirects
			}
			*redirects = len(via)
			return nil
		},
	}, nil
}

func (t *HTTPTransport) traceRequest(req *http.Request) {
	event := t.logger.Info().
		Str("method", req.Method).
		Str("url", req.URL.String())
	for name, values := range req.Header {
		event = event.Str(name, strings.Join(values, ", "))
	}
	event.Msg("> request")
}

// formatHead renders the status line and headers the way they appear on the
// wire, followed by the blank separator line.
func formatHead(resp *http.Response) string {
	var buf strings.Builder
	buf.WriteString(resp.Proto)
	buf.WriteByte(' ')
	buf.WriteString(resp.Status)
	buf.WriteString("\r\n")

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			buf.WriteString(name)
			buf.WriteString(": ")
			buf.WriteString(value)
			buf.WriteString("\r\n")
		}
	}
	buf.WriteString("\r\n")
	return buf.String()
}

func classifyError(err error) int {
	if errors.Is(err, errTooManyRedirects) {
		return ErrCodeTooManyRedirects
	}
	if errors.Is(err, context.Canceled) {
		return ErrCodeAborted
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimedOut
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrCodeTimedOut
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrCodeCouldNotResolveHost
	}

	var certErr *tls.CertificateVerificationError
	var authErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &authErr) ||
		errors.As(err, &hostErr) || errors.As(err, &recordErr) {
		return ErrCodeTLSConnect
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return ErrCodeCouldNotConnect
	}

	if strings.Contains(err.Error(), "unsupported protocol scheme") {
		return ErrCodeUnsupportedProtocol
	}
	return ErrCodeFailed
}
