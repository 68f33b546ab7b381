// Package tools holds the local tool implementations the agent exposes to the
// model: fetch_url (web page fetch and structural summary) and analyze_csv
// (tabular profiling).
package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	flowagent "github.com/dpujaa/flow-agent"
)

const (
	fetchTimeout = 20 * time.Second
	userAgent    = "flow-agent/0.1"

	// Header row included.
	tablePreviewRows = 6
)

// FetchArgs are the arguments of the fetch_url tool.
type FetchArgs struct {
	URL       string `json:"url" description:"HTTP or HTTPS URL to fetch"`
	TakeTable *bool  `json:"take_table,omitempty" description:"Whether to return first table preview" default:"true"`
}

// PageSummary is the structural summary of a fetched page: its title, every
// h1 heading in document order, an optional preview of the first table, and
// the raw body length in bytes.
type PageSummary struct {
	Title        string     `json:"title"`
	H1s          []string   `json:"h1s"`
	TablePreview [][]string `json:"table_preview"`
	Length       int        `json:"length"`
}

// NewFetchURL builds the fetch_url tool. A nil client uses http.DefaultTransport;
// the 20-second limit is enforced through the per-tool timeout on the request
// context.
func NewFetchURL(client *http.Client) (flowagent.Tool, error) {
	if client == nil {
		client = &http.Client{}
	}
	fetch := func(ctx context.Context, args FetchArgs) (PageSummary, error) {
		return fetchURL(ctx, client, args)
	}
	return flowagent.NewTool(
		"fetch_url",
		"Fetch a URL and summarize structure; useful for scraping and quick page inspection.",
		fetch,
		flowagent.WithTimeout(fetchTimeout),
		flowagent.WithTags("web"),
	)
}

func fetchURL(ctx context.Context, client *http.Client, args FetchArgs) (PageSummary, error) {
	u, err := url.Parse(args.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return PageSummary{}, &flowagent.ClientError{Reason: fmt.Sprintf("invalid url: %q", args.URL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return PageSummary{}, &flowagent.ClientError{Reason: fmt.Sprintf("invalid url: %q", args.URL)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return PageSummary{}, &flowagent.ClientError{Reason: fmt.Sprintf("fetch %s: %v", args.URL, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PageSummary{}, &flowagent.ClientError{Reason: fmt.Sprintf("fetch %s: read body: %v", args.URL, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PageSummary{}, &flowagent.ClientError{Reason: fmt.Sprintf("fetch %s: unexpected status %s", args.URL, resp.Status)}
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return PageSummary{}, &flowagent.ClientError{Reason: fmt.Sprintf("fetch %s: parse html: %v", args.URL, err)}
	}

	summary := PageSummary{
		Title:  pageTitle(doc),
		H1s:    headingTexts(doc),
		Length: len(body),
	}
	if args.TakeTable == nil || *args.TakeTable {
		if table := findFirst(doc, atom.Table); table != nil {
			summary.TablePreview = tablePreview(table, tablePreviewRows)
		}
	}
	return summary, nil
}

// pageTitle returns the text of the first non-empty <title>, or "".
func pageTitle(doc *html.Node) string {
	for _, n := range findAll(doc, atom.Title) {
		if text := nodeText(n); text != "" {
			return text
		}
	}
	return ""
}

// headingTexts returns the texts of every <h1> in document order.
func headingTexts(doc *html.Node) []string {
	nodes := findAll(doc, atom.H1)
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, nodeText(n))
	}
	return texts
}

// tablePreview returns up to maxRows rows of the table, each row the ordered
// texts of its td/th cells.
func tablePreview(table *html.Node, maxRows int) [][]string {
	rows := findAll(table, atom.Tr)
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	preview := make([][]string, 0, len(rows))
	for _, tr := range rows {
		var cells []string
		for _, cell := range findAllAny(tr, atom.Td, atom.Th) {
			cells = append(cells, nodeText(cell))
		}
		preview = append(preview, cells)
	}
	return preview
}

// findFirst returns the first element with the given tag in depth-first order, or nil.
func findFirst(n *html.Node, tag atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag atom.Atom) []*html.Node {
	return findAllAny(n, tag)
}

// findAllAny collects every element matching one of the tags, in document order.
func findAllAny(n *html.Node, tags ...atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			for _, tag := range tags {
				if c.DataAtom == tag {
					out = append(out, c)
					break
				}
			}
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return out
}

// nodeText concatenates the trimmed text nodes under n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(c.Data))
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return b.String()
}
