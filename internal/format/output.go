package format

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/color"

	"github.com/vedsharma/resterx/internal/bulk"
	"github.com/vedsharma/resterx/internal/compare"
	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/request"
)

var out io.Writer = color.Output

// SetOutput redirects every printer to w
func SetOutput(w io.Writer) {
	out = w
}

// sanitizeOutput removes or escapes potentially dangerous control characters
// that could manipulate terminal display or execute commands
func sanitizeOutput(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			result.WriteRune(r)
		case r == '\x1b':
			// Escape ANSI escape sequences - replace ESC with visible representation
			result.WriteString("\\x1b")
		case unicode.IsControl(r) && r < 0x20:
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		case r == 0x7F:
			result.WriteString("\\x7f")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

var (
	successColor   = color.New(color.FgGreen, color.Bold)
	redirectColor  = color.New(color.FgYellow, color.Bold)
	clientErrColor = color.New(color.FgRed, color.Bold)
	serverErrColor = color.New(color.FgRed, color.Bold, color.BgWhite)
	headerKeyColor = color.New(color.FgCyan)
	methodColor    = color.New(color.FgMagenta, color.Bold)
	urlColor       = color.New(color.FgBlue)
	dimColor       = color.New(color.Faint)
	warnColor      = color.New(color.FgYellow)
)

// PrintResponse prints a formatted response record
func PrintResponse(rec model.ResponseRecord, showHeaders bool) {
	printStatusLine(rec)
	dimColor.Fprintf(out, "  Time: %dms  Size: %s\n\n", rec.ResponseTimeMs, humanSize(rec.ResponseSizeBytes))

	if showHeaders {
		printHeaders(rec.Headers)
	}
	printBody(rec.Body)
}

func printStatusLine(rec model.ResponseRecord) {
	statusColor := getStatusColor(rec.StatusCode)
	if rec.Error {
		statusColor.Fprintf(out, "%s\n", sanitizeOutput(rec.StatusText))
		return
	}
	statusColor.Fprintf(out, "%d %s\n", rec.StatusCode, sanitizeOutput(rec.StatusText))
}

func getStatusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return successColor
	case code >= 300 && code < 400:
		return redirectColor
	case code >= 400 && code < 500:
		return clientErrColor
	default:
		return serverErrColor
	}
}

func printHeaders(headers map[string]string) {
	if len(headers) == 0 {
		return
	}

	fmt.Fprintln(out, "Headers:")
	for _, key := range sortedKeys(headers) {
		headerKeyColor.Fprintf(out, "  %s: ", sanitizeOutput(key))
		fmt.Fprintln(out, sanitizeOutput(headers[key]))
	}
	fmt.Fprintln(out)
}

func printBody(body string) {
	if body == "" {
		dimColor.Fprintln(out, "(empty body)")
		return
	}
	fmt.Fprintln(out, sanitizeOutput(PrettyBody(body)))
}

// PrintRaw prints text without decoration
func PrintRaw(text string) {
	fmt.Fprintln(out, sanitizeOutput(text))
}

// PrintMaterialized prints the request about to be sent. Credentials are redacted.
func PrintMaterialized(m request.Materialized) {
	methodColor.Fprintf(out, "%s ", m.Method)
	urlColor.Fprintln(out, sanitizeOutput(m.URL))
	for _, h := range m.Headers {
		value := h.Value
		if IsSensitiveHeader(h.Key) {
			value = redacted
		}
		headerKeyColor.Fprintf(out, "  %s: ", sanitizeOutput(h.Key))
		fmt.Fprintln(out, sanitizeOutput(value))
	}
	if m.HasBody {
		dimColor.Fprintf(out, "  (%s body)\n", humanSize(int64(len(m.Body))))
	}
	fmt.Fprintln(out)
}

// PrintHistoryList prints history entries in a compact format, newest first
func PrintHistoryList(entries []model.HistoryEntry, limit int) {
	if len(entries) == 0 {
		dimColor.Fprintln(out, "No requests in history")
		return
	}

	count := len(entries)
	if limit > 0 && limit < count {
		count = limit
	}

	for i := 0; i < count; i++ {
		e := entries[i]
		dimColor.Fprintf(out, "[%d] ", i+1)
		methodColor.Fprintf(out, "%-7s ", e.Method)

		url := e.URL
		if len(url) > 60 {
			url = url[:57] + "..."
		}
		urlColor.Fprintf(out, "%-60s ", sanitizeOutput(url))

		getStatusColor(e.StatusCode).Fprintf(out, "%d ", e.StatusCode)
		dimColor.Fprintf(out, "(%dms)", e.ResponseTimeMs)
		fmt.Fprintln(out)
	}

	if limit > 0 && len(entries) > limit {
		dimColor.Fprintf(out, "\n... and %d more requests\n", len(entries)-limit)
	}
}

// PrintHistoryEntry prints one history entry in full
func PrintHistoryEntry(e model.HistoryEntry) {
	methodColor.Fprintf(out, "%s ", e.Method)
	urlColor.Fprintln(out, sanitizeOutput(e.URL))
	dimColor.Fprintf(out, "  ID: %s\n", e.ID)
	dimColor.Fprintf(out, "  Time: %s\n", e.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprint(out, "  Status: ")
	getStatusColor(e.StatusCode).Fprintf(out, "%d", e.StatusCode)
	dimColor.Fprintf(out, " (%dms)\n", e.ResponseTimeMs)
}

// PrintCollectionList prints collections in creation order
func PrintCollectionList(collections []model.Collection) {
	if len(collections) == 0 {
		dimColor.Fprintln(out, "No collections found")
		return
	}

	fmt.Fprintln(out, "Collections:")
	for _, col := range collections {
		headerKeyColor.Fprintf(out, "  %s ", sanitizeOutput(col.Name))
		dimColor.Fprintf(out, "(%d requests) %s\n", len(col.Requests), col.ID)
	}
}

// PrintCollectionRequests prints requests in a collection
func PrintCollectionRequests(col model.Collection) {
	if len(col.Requests) == 0 {
		dimColor.Fprintf(out, "Collection '%s' is empty\n", sanitizeOutput(col.Name))
		return
	}

	headerKeyColor.Fprintf(out, "Collection: %s\n", sanitizeOutput(col.Name))
	if col.Description != "" {
		dimColor.Fprintln(out, sanitizeOutput(col.Description))
	}
	fmt.Fprintln(out, strings.Repeat("-", 40))

	for i, req := range col.Requests {
		dimColor.Fprintf(out, "[%d] ", i+1)
		if req.Name != "" {
			fmt.Fprintf(out, "%s: ", sanitizeOutput(req.Name))
		}
		methodColor.Fprintf(out, "%s ", req.Method)
		urlColor.Fprint(out, sanitizeOutput(req.URL))
		if req.AuthKind != "" && req.AuthKind != model.AuthNone {
			dimColor.Fprintf(out, " [%s]", req.AuthKind)
		}
		fmt.Fprintln(out)
	}
}

// PrintEnvironmentList prints environments, marking the active one
func PrintEnvironmentList(envs []model.Environment, activeID string) {
	if len(envs) == 0 {
		dimColor.Fprintln(out, "No environments found")
		return
	}

	fmt.Fprintln(out, "Environments:")
	for _, env := range envs {
		marker := " "
		if env.ID == activeID {
			marker = "*"
		}
		successColor.Fprintf(out, "%s ", marker)
		headerKeyColor.Fprintf(out, "%s ", sanitizeOutput(env.Name))
		dimColor.Fprintf(out, "(%d variables)\n", len(env.Variables))
	}
}

// PrintEnvironment prints the variables of env. Values of keys that look
// like credentials are masked unless reveal is set.
func PrintEnvironment(env model.Environment, active, reveal bool) {
	headerKeyColor.Fprintf(out, "Environment: %s", sanitizeOutput(env.Name))
	if active {
		successColor.Fprint(out, " (active)")
	}
	fmt.Fprintln(out)

	if len(env.Variables) == 0 {
		dimColor.Fprintln(out, "  (no variables)")
		return
	}
	for _, v := range env.Variables {
		value := v.Value
		if !reveal && LooksSensitive(v.Key) {
			value = redacted
		}
		headerKeyColor.Fprintf(out, "  %s", sanitizeOutput(v.Key))
		dimColor.Fprint(out, " = ")
		fmt.Fprintln(out, sanitizeOutput(value))
	}
}

// PrintCookies prints the session cookies, newest first
func PrintCookies(cookies []model.Cookie) {
	if len(cookies) == 0 {
		return
	}
	fmt.Fprintln(out, "Cookies:")
	for _, c := range cookies {
		headerKeyColor.Fprintf(out, "  %s", sanitizeOutput(c.Name))
		fmt.Fprintf(out, "=%s", sanitizeOutput(c.Value))
		var attrs []string
		if c.Domain != "" {
			attrs = append(attrs, "Domain="+c.Domain)
		}
		if c.Path != "" {
			attrs = append(attrs, "Path="+c.Path)
		}
		if c.Expires != "" {
			attrs = append(attrs, "Expires="+c.Expires)
		}
		if c.HTTPOnly {
			attrs = append(attrs, "HttpOnly")
		}
		if c.Secure {
			attrs = append(attrs, "Secure")
		}
		if len(attrs) > 0 {
			dimColor.Fprintf(out, "  %s", sanitizeOutput(strings.Join(attrs, "; ")))
		}
		fmt.Fprintln(out)
	}
}

// PrintBulkStats prints the summary of a bulk run
func PrintBulkStats(stats bulk.Stats) {
	fmt.Fprintln(out, "Bulk test results:")
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "  Requests:   %d/%d completed\n", stats.Completed, stats.Total)
	successColor.Fprintf(out, "  Successful: %d", stats.Successful)
	dimColor.Fprintf(out, " (%.1f%%)\n", stats.SuccessRate())
	if stats.Failed > 0 {
		clientErrColor.Fprintf(out, "  Failed:     %d\n", stats.Failed)
	} else {
		fmt.Fprintf(out, "  Failed:     %d\n", stats.Failed)
	}
	if stats.Completed == 0 {
		return
	}
	fmt.Fprintf(out, "  Min:        %dms\n", stats.MinMs)
	fmt.Fprintf(out, "  Max:        %dms\n", stats.MaxMs)
	fmt.Fprintf(out, "  Avg:        %.2fms\n", stats.AvgMs())
	dimColor.Fprintf(out, "  p50 %dms  p95 %dms  p99 %dms\n", stats.Percentile(50), stats.Percentile(95), stats.Percentile(99))
}

// PrintComparison prints the differences between two responses
func PrintComparison(res compare.Result) {
	headerKeyColor.Fprintf(out, "Comparing %s with %s\n", sanitizeOutput(res.LeftLabel), sanitizeOutput(res.RightLabel))
	fmt.Fprintln(out, strings.Repeat("-", 40))

	if res.Identical() {
		successColor.Fprintln(out, "Responses are identical")
	}
	for _, f := range res.Fields {
		fmt.Fprintf(out, "  %-14s ", f.Field)
		clientErrColor.Fprintf(out, "%s", sanitizeOutput(f.Left))
		dimColor.Fprint(out, " → ")
		successColor.Fprintln(out, sanitizeOutput(f.Right))
	}
	if res.HeaderDiff != "" {
		fmt.Fprintln(out, "\nHeaders:")
		printDiff(res.HeaderDiff)
	}
	if res.BodyDiff != "" {
		fmt.Fprintln(out, "\nBody:")
		printDiff(res.BodyDiff)
	}
}

func printDiff(diff string) {
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		line = sanitizeOutput(line)
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			dimColor.Fprintln(out, line)
		case strings.HasPrefix(line, "@@"):
			headerKeyColor.Fprintln(out, line)
		case strings.HasPrefix(line, "+"):
			successColor.Fprintln(out, line)
		case strings.HasPrefix(line, "-"):
			clientErrColor.Fprintln(out, line)
		default:
			fmt.Fprintln(out, line)
		}
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	successColor.Fprintf(out, "✓ %s\n", msg)
}

// PrintError prints an error message
func PrintError(msg string) {
	clientErrColor.Fprintf(out, "✗ %s\n", msg)
}

// PrintWarning prints a warning message
func PrintWarning(msg string) {
	warnColor.Fprintf(out, "! %s\n", msg)
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
