package report

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/proxyip/internal/classifier"
)

// Summary counts verdicts by outcome.
type Summary struct {
	Total   int `json:"total"`
	Proxies int `json:"proxies"`
	Clean   int `json:"clean"`
	Errors  int `json:"errors"`
	ByCache int `json:"by_cache"`
	ByTor   int `json:"by_tor"`
	ByPort  int `json:"by_port"`
}

// Summarize counts results. Results carrying an error count only as errors.
func Summarize(results []classifier.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Error != "":
			s.Errors++
		case !r.Proxy:
			s.Clean++
		default:
			s.Proxies++
			switch r.Signal {
			case classifier.SignalCache:
				s.ByCache++
			case classifier.SignalTor:
				s.ByTor++
			case classifier.SignalPort:
				s.ByPort++
			}
		}
	}
	return s
}

var titleCaser = cases.Title(language.English)

// SignalLabel returns a display label such as "Tor" or "Port 3128".
func SignalLabel(r classifier.Result) string {
	if r.Error != "" {
		return "-"
	}
	label := titleCaser.String(string(r.Signal))
	if r.Signal == classifier.SignalPort && r.Port > 0 {
		label += " " + strconv.Itoa(r.Port)
	}
	return label
}

// Verdict returns "proxy", "clean" or "error".
func Verdict(r classifier.Result) string {
	switch {
	case r.Error != "":
		return "error"
	case r.Proxy:
		return "proxy"
	default:
		return "clean"
	}
}
