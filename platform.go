package climb

import (
	"net/url"
	"strings"
)

// Strategy identifies an extraction strategy.
type Strategy string

// Extraction strategies, in rough order of cost. StrategySkip marks
// platforms that cannot be fetched at all (login walls, anti-scraping).
const (
	StrategyReader  Strategy = "reader"
	StrategyStatic  Strategy = "static"
	StrategyBrowser Strategy = "browser"
	StrategySkip    Strategy = "skip"
)

// PlatformInfo describes the source platform a URL belongs to.
// It is derived purely from the URL host and never persisted.
type PlatformInfo struct {
	Name       string   `json:"name"`
	Domain     string   `json:"domain"`
	NeedsLogin bool     `json:"needs_login"`
	Strategy   Strategy `json:"strategy"`
}

// platformRule associates host keywords with a platform and its
// preferred strategy. First match wins.
type platformRule struct {
	name       string
	keywords   []string
	needsLogin bool
	strategy   Strategy
}

var platformRules = []platformRule{
	{"PTT", []string{"ptt.cc"}, false, StrategyStatic},
	{"Medium", []string{"medium.com"}, false, StrategyReader},
	{"Pixnet", []string{"pixnet.net"}, false, StrategyReader},
	{"Vocus", []string{"vocus.cc"}, false, StrategyReader},
	{"LINE TODAY", []string{"today.line.me"}, false, StrategyReader},
	{"VetSociety", []string{"vetmed.org.tw", "tava.org.tw", "avat.org.tw"}, false, StrategyStatic},
	{"News", []string{"udn.com", "ltn.com.tw", "ettoday.net", "setn.com", "chinatimes.com", "tvbs.com.tw", "cna.com.tw"}, false, StrategyReader},
	{"Blog", []string{"blogspot.com", "wordpress.com", "blog."}, false, StrategyReader},
	// Login-walled platforms. Skipped entirely, or routed exclusively
	// through the browser strategy.
	{"Facebook", []string{"facebook.com", "fb.com", "fb.watch"}, true, StrategySkip},
	{"Instagram", []string{"instagram.com"}, true, StrategySkip},
	{"WeChat", []string{"mp.weixin.qq.com"}, true, StrategyBrowser},
	{"Xiaohongshu", []string{"xiaohongshu.com", "xhslink.com"}, true, StrategyBrowser},
}

// Classify maps a URL to its source platform by ordered substring matching
// of the lowercased host against a static rule table. Unmatched hosts get
// the reader-first default. Classify is a pure function and never fails;
// an unparseable URL classifies as "other".
func Classify(rawURL string) PlatformInfo {
	var host string
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(u.Host)
	}

	for _, rule := range platformRules {
		for _, kw := range rule.keywords {
			if strings.Contains(host, kw) {
				return PlatformInfo{
					Name:       rule.name,
					Domain:     host,
					NeedsLogin: rule.needsLogin,
					Strategy:   rule.strategy,
				}
			}
		}
	}

	return PlatformInfo{
		Name:     "other",
		Domain:   host,
		Strategy: StrategyReader,
	}
}

// IsForumHost reports whether the URL belongs to the PTT forum, which needs
// special conditioning (age-verification cookie) and a specialized parse.
func IsForumHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(u.Host), "ptt.cc")
}
