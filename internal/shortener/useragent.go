package shortener

import "strings"

// uaRule maps a user-agent substring to a label. Rules are evaluated in
// order and the first match wins, so broader tokens must come after the
// signatures that contain them (a Chrome UA also contains "Safari").
type uaRule struct {
	token string
	label string
}

var mobileTokens = []string{
	"Mobile", "Android", "iPhone", "iPad", "iPod", "Windows Phone", "BlackBerry",
}

var browserRules = []uaRule{
	{token: "Edge", label: "Edge"},
	{token: "Chrome", label: "Chrome"},
	{token: "Safari", label: "Safari"},
	{token: "Firefox", label: "Firefox"},
}

var osRules = []uaRule{
	{token: "Windows", label: "Windows"},
	{token: "Mac", label: "macOS"},
	{token: "Linux", label: "Linux"},
	{token: "Android", label: "Android"},
	{token: "iOS", label: "iOS"},
	{token: "iPhone", label: "iOS"},
	{token: "iPad", label: "iOS"},
}

const unknownLabel = "Unknown"

// ClassifyDevice reports mobile when the user agent carries any
// mobile-indicating token, desktop otherwise.
func ClassifyDevice(userAgent string) DeviceType {
	lower := strings.ToLower(userAgent)
	for _, token := range mobileTokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			return DeviceMobile
		}
	}

	return DeviceDesktop
}

// ClassifyBrowser returns the browser family, first match wins.
func ClassifyBrowser(userAgent string) string {
	return classify(userAgent, browserRules)
}

// ClassifyOS returns the operating system family, first match wins.
func ClassifyOS(userAgent string) string {
	return classify(userAgent, osRules)
}

func classify(userAgent string, rules []uaRule) string {
	for _, rule := range rules {
		if strings.Contains(userAgent, rule.token) {
			return rule.label
		}
	}

	return unknownLabel
}
