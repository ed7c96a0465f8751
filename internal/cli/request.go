package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/adamwoolhether/fetchjson"
	"github.com/adamwoolhether/fetchjson/client"
	"github.com/adamwoolhether/fetchjson/internal/config"
	"github.com/adamwoolhether/fetchjson/internal/output"
)

// ErrNotOK is returned once a non-successful response has been printed.
var ErrNotOK = errors.New("response status outside 200-299")

func newMethodCmd(method string) *cobra.Command {
	lower := strings.ToLower(method)

	cmd := &cobra.Command{
		Use:   lower + " URL",
		Short: fmt.Sprintf("Make a %s request to the specified URL", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, method, args[0])
		},
	}
	addRequestFlags(cmd)

	return cmd
}

func newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request METHOD URL",
		Short: "Make a request with any method",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], args[1])
		},
	}
	addRequestFlags(cmd)

	return cmd
}

func run(cmd *cobra.Command, method, url string) error {
	rawParams, _ := cmd.Flags().GetStringArray("param")
	data, _ := cmd.Flags().GetString("data")
	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	query, _ := cmd.Flags().GetString("query")
	schemaPath, _ := cmd.Flags().GetString("schema")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noColor, _ := cmd.Flags().GetBool("no-color")
	logEvents, _ := cmd.Flags().GetBool("log")
	configPath, _ := cmd.Flags().GetString("config")

	params, err := parseParams(rawParams)
	if err != nil {
		return err
	}

	headers, err := parseHeaders(rawHeaders)
	if err != nil {
		return err
	}

	out := output.NewFormatter(cmd.OutOrStdout(), noColor)

	var opts []client.Option
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if opts, err = cfg.ClientOptions(); err != nil {
			return err
		}
	}
	if logEvents {
		errOut := output.NewFormatter(cmd.ErrOrStderr(), noColor)
		opts = append(opts, client.WithLogFunc(errOut.LogFunc(cmd.ErrOrStderr())))
	}

	c, err := fetchjson.NewClient(opts...)
	if err != nil {
		return err
	}

	call := fetchjson.Options{Headers: headers}
	if cmd.Flags().Changed("strict") {
		strict, _ := cmd.Flags().GetBool("strict")
		call.StrictErrors = client.Bool(strict)
	}

	body, url, err := requestData(method, url, params, data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	res, err := c.Request(ctx, method, url, body, call)
	if err != nil {
		return err
	}

	if schemaPath != "" {
		if err := validateSchema(schemaPath, res); err != nil {
			return err
		}
	}

	if query != "" {
		value, err := extract(res, query)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), out.FormatResult(res))
	}

	if res.Kind == client.KindFallback && res.Fallback.Error {
		return fmt.Errorf("%w: %d", ErrNotOK, res.Fallback.Status)
	}

	return nil
}

// requestData picks the data handed to the client: params for GET and
// HEAD, the decoded -d body otherwise. Params given to a body method
// are appended to the URL.
func requestData(method, url string, params client.Params, data string) (any, string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == http.MethodGet || m == http.MethodHead {
		if data != "" {
			return nil, "", fmt.Errorf("%s requests carry no body, use --param", m)
		}
		return params, url, nil
	}

	if len(params) > 0 {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + params.Encode()
	}

	if data == "" {
		return nil, url, nil
	}

	var body any
	if err := json.Unmarshal([]byte(data), &body); err != nil {
		return nil, "", fmt.Errorf("invalid --data JSON: %w", err)
	}

	return body, url, nil
}

// parseParams parses key=value pairs, keeping their order.
func parseParams(raw []string) (client.Params, error) {
	params := make(client.Params, 0, len(raw))
	for _, p := range raw {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", p)
		}
		params = params.Add(k, v)
	}
	return params, nil
}

// parseHeaders parses "Name: value" pairs.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		k, v, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", h)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}

// jsonBody returns the JSON text of res, if it has one.
func jsonBody(res client.Result) ([]byte, bool) {
	switch {
	case res.Kind == client.KindJSON:
		return res.Raw, true
	case res.Kind == client.KindFallback && res.Fallback.Data != nil:
		return []byte(res.Fallback.BodyText), true
	default:
		return nil, false
	}
}

// extract returns the value at a gjson path of the response body.
func extract(res client.Result, path string) (string, error) {
	body, ok := jsonBody(res)
	if !ok {
		return "", errors.New("response has no JSON body to query")
	}

	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	if result.Type == gjson.Null {
		return "null", nil
	}

	return result.String(), nil
}
