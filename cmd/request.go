package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/vedsharma/resterx/internal/format"
	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/pipeline"
	"github.com/vedsharma/resterx/internal/vars"
)

var (
	headers          []string
	data             string
	bodyKind         string
	queryParams      []string
	pathVars         []string
	authKind         string
	bearerToken      string
	basicUser        string
	basicPassword    string
	noHistory        bool
	saveToCollection string
	saveName         string
	jsonQuery        string
	copyBody         bool
	showCookies      bool
	sendMethod       string
)

func init() {
	for _, method := range model.Methods {
		verb := strings.ToLower(string(method))
		verbCmd := &cobra.Command{
			Use:   verb + " <url>",
			Short: fmt.Sprintf("Send a %s request", method),
			Args:  cobra.ExactArgs(1),
			Run:   runRequest(method),
		}
		addRequestFlags(verbCmd)
		addSendFlags(verbCmd)
		rootCmd.AddCommand(verbCmd)
	}

	sendCmd := &cobra.Command{
		Use:   "send <url>",
		Short: "Send a request with any supported method",
		Long: `Send a request with any supported method.

Example:
  resterx send '{{base}}/users/{{id}}' --method PATCH --path-var id=42 \
    -d '{"name": "Jane"}' --auth bearer --token '{{token}}'`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			method, ok := model.ParseMethod(sendMethod)
			if !ok {
				format.PrintError(fmt.Sprintf("Unsupported method %q", sendMethod))
				exit(1)
			}
			runRequest(method)(cmd, args)
		},
	}
	sendCmd.Flags().StringVarP(&sendMethod, "method", "X", "GET", "HTTP method")
	addRequestFlags(sendCmd)
	addSendFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)
}

// addRequestFlags registers the flags that describe a request draft
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Add header 'Key: Value' (can be used multiple times)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body (JSON string or @filename)")
	cmd.Flags().StringVar(&bodyKind, "body-kind", "", "Body kind: json, text or form (default: detected)")
	cmd.Flags().StringArrayVarP(&queryParams, "query-param", "q", []string{}, "Add query parameter key=value")
	cmd.Flags().StringArrayVar(&pathVars, "path-var", []string{}, "Value for a {{name}} URL placeholder, name=value")
	cmd.Flags().StringVar(&authKind, "auth", "none", "Auth kind: none, bearer, basic or oauth2")
	cmd.Flags().StringVar(&bearerToken, "token", "", "Bearer or OAuth2 access token")
	cmd.Flags().StringVar(&basicUser, "user", "", "Basic auth username")
	cmd.Flags().StringVar(&basicPassword, "password", "", "Basic auth password")
}

// addSendFlags registers flags that only apply to a single send
func addSendFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Don't save to history")
	cmd.Flags().StringVarP(&saveToCollection, "collection", "c", "", "Save the request to this collection")
	cmd.Flags().StringVar(&saveName, "name", "", "Name of the saved request (default: method and URL)")
	cmd.Flags().StringVar(&jsonQuery, "query", "", "Print only the value at this JSON path (gjson syntax)")
	cmd.Flags().BoolVar(&copyBody, "copy", false, "Copy the response body to the clipboard")
	cmd.Flags().BoolVar(&showCookies, "cookies", false, "Show cookies set by the response")
}

func runRequest(method model.Method) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		draft, err := buildDraft(method, args[0])
		if err != nil {
			fail("Invalid request", err)
		}

		a := mustApp("Failed to send request")
		defer a.Close()

		if verbose {
			m, err := a.sender.Prepare(draft)
			if err != nil {
				fail("Failed to prepare request", err)
			}
			format.PrintMaterialized(m)
		}

		result, err := a.sender.Send(cmd.Context(), draft, pipeline.SendOptions{NoHistory: noHistory})
		if err != nil && result.Request.URL == "" {
			fail("Request failed", err)
		}
		if err != nil {
			format.PrintWarning(fmt.Sprintf("Request sent but not recorded: %v", err))
		}

		rec := result.Response
		output := rec.Body
		if jsonQuery != "" && !rec.Error {
			value, ok := format.Query(rec.Body, jsonQuery)
			if !ok {
				format.PrintError(fmt.Sprintf("No value at %q in response body", jsonQuery))
				exit(1)
			}
			output = value
			format.PrintRaw(value)
		} else {
			format.PrintResponse(rec, verbose)
		}

		if showCookies {
			format.PrintCookies(a.recorder.Cookies())
		}

		if copyBody && output != "" {
			if err := clipboard.WriteAll(output); err != nil {
				format.PrintWarning(fmt.Sprintf("Failed to copy to clipboard: %v", err))
			} else {
				format.PrintSuccess("Copied to clipboard")
			}
		}

		if saveToCollection != "" {
			saveDraft(a, saveToCollection, saveName, draft)
		}

		if rec.Error {
			exit(1)
		}
	}
}

func saveDraft(a *app, collectionRef, name string, draft model.RequestDraft) {
	if name == "" {
		name = fmt.Sprintf("%s %s", draft.Method, draft.URL)
	}
	if format.LooksSensitive(draft.Body) {
		format.PrintWarning("Request body may contain sensitive data (e.g., passwords, tokens). It is stored in the collection as is.")
	}

	saved, err := a.collections.SaveRequest(collectionRef, name, draft)
	if err != nil {
		format.PrintError(fmt.Sprintf("Failed to save to collection: %v", err))
		return
	}
	format.PrintSuccess(fmt.Sprintf("Saved '%s' to collection '%s' (%s)", saved.Name, collectionRef, saved.ID))
}

// buildDraft assembles a request draft from the request flags
func buildDraft(method model.Method, url string) (model.RequestDraft, error) {
	draft := model.RequestDraft{
		Method:   method,
		URL:      url,
		Headers:  parseHeaders(headers),
		BodyKind: model.BodyNone,
		Auth: model.Auth{
			Kind:        model.ParseAuthKind(authKind),
			BearerToken: bearerToken,
			Username:    basicUser,
			Password:    basicPassword,
		},
	}

	params, err := parsePairs(queryParams, "query parameter")
	if err != nil {
		return draft, err
	}
	for _, p := range params {
		draft.QueryParams = append(draft.QueryParams, model.QueryParam{Key: p.Key, Value: p.Value, Enabled: true})
	}

	provided, err := parsePairs(pathVars, "path variable")
	if err != nil {
		return draft, err
	}
	draft.PathVariables = vars.SyncPathVariables(url, provided)

	body := data
	if strings.HasPrefix(body, "@") {
		content, err := readBodyFromFile(strings.TrimPrefix(body, "@"))
		if err != nil {
			return draft, fmt.Errorf("failed to read file: %w", err)
		}
		body = content
	}
	draft.Body = body

	switch {
	case bodyKind != "":
		kind, err := parseBodyKind(bodyKind)
		if err != nil {
			return draft, err
		}
		draft.BodyKind = kind
	case body == "":
		draft.BodyKind = model.BodyNone
	case looksLikeJSON(body):
		draft.BodyKind = model.BodyJSON
	default:
		draft.BodyKind = model.BodyText
	}

	return draft, nil
}

func parseBodyKind(s string) (model.BodyKind, error) {
	switch kind := model.BodyKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case model.BodyNone, model.BodyJSON, model.BodyText, model.BodyForm:
		return kind, nil
	default:
		return "", &model.ValidationError{Field: "body-kind", Reason: fmt.Sprintf("unknown kind %q", s)}
	}
}

// parseHeaders splits 'Key: Value' strings, keeping their order
func parseHeaders(headerStrings []string) []model.KeyValue {
	result := make([]model.KeyValue, 0, len(headerStrings))
	for _, h := range headerStrings {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result = append(result, model.KeyValue{Key: key, Value: value})
		}
	}
	return result
}

// parsePairs splits 'key=value' strings
func parsePairs(pairs []string, what string) ([]model.KeyValue, error) {
	result := make([]model.KeyValue, 0, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &model.ValidationError{Field: what, Reason: fmt.Sprintf("%q is not key=value", p)}
		}
		result = append(result, model.KeyValue{Key: key, Value: value})
	}
	return result, nil
}

func looksLikeJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// readBodyFromFile reads file content with path validation to prevent directory traversal
func readBodyFromFile(filename string) (string, error) {
	content, err := readLocalFile(filename)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// readLocalFile reads a file that must live under the working directory
func readLocalFile(filename string) ([]byte, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}
	cleanPath := filepath.Clean(absPath)

	if !withinDir(cleanPath, wd) {
		return nil, errors.New("access denied: file must be within current directory")
	}

	// Symlink targets must stay inside the working directory too
	realPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to resolve path: %w", err)
		}
		realPath = cleanPath
	} else if !withinDir(realPath, wd) {
		return nil, errors.New("access denied: symlink target must be within current directory")
	}

	return os.ReadFile(realPath)
}

func withinDir(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
