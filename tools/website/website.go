package website

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/kapilnchauhan77/marketing-consultant-agent/tools"
	"github.com/kapilnchauhan77/marketing-consultant-agent/tools/web_fetch"
	"github.com/kapilnchauhan77/marketing-consultant-agent/utils"
)

const (
	maxHeadings   = 10
	maxParagraphs = 10
	maxTextSample = 500
)

// socialDomains is the allow-list used to pick social profiles out of page links.
var socialDomains = []string{
	"facebook.com/",
	"twitter.com/",
	"instagram.com/",
	"linkedin.com/company/",
	"linkedin.com/in/",
	"youtube.com/channel/",
	"youtube.com/user/",
}

// Analyzer extracts marketing-relevant signals from a business website:
// title, meta description, headings, a text excerpt and social links.
type Analyzer struct {
	fetcher web_fetch.WebFetcher
}

func New(fetcher web_fetch.WebFetcher) *Analyzer {
	return &Analyzer{fetcher: fetcher}
}

func (a *Analyzer) Name() string { return "analyze_website" }

func (a *Analyzer) Description() string {
	return "Analyzes web content from a URL to extract potential industry, products/services, audience hints, and social links. Returns a JSON summary."
}

func (a *Analyzer) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {"type": "string", "description": "The URL of the business website to analyze."}
		},
		"required": ["url"]
	}`)
}

type args struct {
	URL string `json:"url"`
}

// Result is the self-describing outcome of one website analysis.
type Result struct {
	URL                    string   `json:"url"`
	Status                 string   `json:"status"`
	Title                  string   `json:"title,omitempty"`
	MetaDescription        string   `json:"meta_description,omitempty"`
	HeadingsSample         []string `json:"headings_sample,omitempty"`
	TextContentSample      string   `json:"text_content_sample,omitempty"`
	DetectedSocialLinks    []string `json:"detected_social_links,omitempty"`
	InitialGuessedIndustry string   `json:"initial_guessed_industry,omitempty"`
	Error                  string   `json:"error,omitempty"`
}

// Exec never lets a failure escape: fetch and parse errors are folded into
// an error-status result the model can narrate.
func (a *Analyzer) Exec(ctx context.Context, arguments string) string {
	var in args
	if err := json.Unmarshal([]byte(arguments), &in); err != nil || strings.TrimSpace(in.URL) == "" {
		return tools.JSON(Result{Status: "error", Error: "invalid arguments: a url is required"})
	}

	res := Result{URL: in.URL, Status: "success"}

	page, err := a.fetcher.Exec(ctx, in.URL)
	if err != nil {
		res.Status = "error"
		res.Error = fmt.Sprintf("Network/HTTP error analyzing %s: %v", in.URL, err)
		return tools.JSON(res)
	}

	doc, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		res.Status = "error"
		res.Error = fmt.Sprintf("Failed to parse content from %s: %v", in.URL, err)
		return tools.JSON(res)
	}

	ex := extract(doc)

	res.Title = orNotFound(ex.title)
	res.MetaDescription = orNotFound(ex.metaDescription)
	res.HeadingsSample = ex.headings
	if len(res.HeadingsSample) == 0 {
		res.HeadingsSample = []string{"Not found"}
	}

	text := strings.TrimSpace(strings.Join(ex.paragraphs, " "))
	if text == "" {
		// Pages without paragraph markup still often have readable content.
		if article, rerr := readability.FromReader(strings.NewReader(page.HTML), parseURL(in.URL)); rerr == nil {
			text = strings.TrimSpace(article.TextContent)
		}
	}
	res.TextContentSample = orNotFound(utils.Truncate(text, maxTextSample))

	res.DetectedSocialLinks = ex.socialLinks
	if len(res.DetectedSocialLinks) == 0 {
		res.DetectedSocialLinks = []string{"None found"}
	}
	res.InitialGuessedIndustry = "Unknown - Requires LLM interpretation or user confirmation"
	return tools.JSON(res)
}

type extracted struct {
	title           string
	metaDescription string
	headings        []string
	paragraphs      []string
	socialLinks     []string
}

func extract(doc *html.Node) extracted {
	var ex extracted
	seen := map[string]bool{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if ex.title == "" {
					ex.title = strings.TrimSpace(nodeText(n))
				}
			case "meta":
				if attr(n, "name") == "description" && ex.metaDescription == "" {
					ex.metaDescription = strings.TrimSpace(attr(n, "content"))
				}
			case "h1", "h2", "h3":
				if len(ex.headings) < maxHeadings {
					if t := strings.TrimSpace(nodeText(n)); t != "" {
						ex.headings = append(ex.headings, t)
					}
				}
			case "p":
				if len(ex.paragraphs) < maxParagraphs {
					if t := strings.TrimSpace(nodeText(n)); t != "" {
						ex.paragraphs = append(ex.paragraphs, t)
					}
				}
			case "a":
				href := attr(n, "href")
				if isSocialLink(href) && !seen[href] {
					seen[href] = true
					ex.socialLinks = append(ex.socialLinks, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ex
}

func isSocialLink(href string) bool {
	if len(href) <= 15 {
		return false
	}
	for _, domain := range socialDomains {
		if strings.Contains(href, domain) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func orNotFound(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not found"
	}
	return s
}

func parseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
