package request

import (
	"net/url"
	"strings"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/vars"
)

// ComposeURL fills path variables into rawURL and appends every enabled query
// parameter that has both a key and a value. Parameters already present in
// rawURL are kept and the new ones follow them.
// When the result is not an absolute URL the path-substituted text is
// returned without query composition.
func ComposeURL(rawURL string, pathVars []model.KeyValue, params []model.QueryParam) string {
	substituted := vars.Resolve(rawURL, pathVars)

	pairs := queryPairs(params)
	if len(pairs) == 0 {
		return substituted
	}

	parsed, err := url.Parse(strings.TrimSpace(substituted))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return substituted
	}

	extra := strings.Join(pairs, "&")
	if parsed.RawQuery == "" {
		parsed.RawQuery = extra
	} else {
		parsed.RawQuery = parsed.RawQuery + "&" + extra
	}

	return parsed.String()
}

// ExpandURL fills path variables and appends enabled query parameters like
// ComposeURL, but works on the text directly so URLs that still hold
// environment placeholders keep their query. Used when persisting a draft.
func ExpandURL(rawURL string, pathVars []model.KeyValue, params []model.QueryParam) string {
	substituted := vars.Resolve(rawURL, pathVars)
	pairs := queryPairs(params)
	if len(pairs) == 0 {
		return substituted
	}

	base, fragment, hasFragment := strings.Cut(substituted, "#")
	switch {
	case !strings.Contains(base, "?"):
		base += "?"
	case !strings.HasSuffix(base, "?") && !strings.HasSuffix(base, "&"):
		base += "&"
	}
	base += strings.Join(pairs, "&")
	if hasFragment {
		base += "#" + fragment
	}
	return base
}

func queryPairs(params []model.QueryParam) []string {
	var pairs []string
	for _, p := range params {
		if !p.Enabled || p.Key == "" || p.Value == "" {
			continue
		}
		pairs = append(pairs, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return pairs
}
