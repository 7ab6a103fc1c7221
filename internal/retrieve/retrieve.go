// Package retrieve downloads a video from a share link. Share pages are
// HTML wrappers around the actual media; the resolver scrapes the page
// for a direct video URL, then the downloader streams it to a local,
// seekable file.
package retrieve

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	qcerrors "github.com/reelcheck/reelcheck/internal/errors"
	"github.com/reelcheck/reelcheck/internal/util"
)

// defaultTimeout bounds a single HTTP request, not the whole download.
const defaultTimeout = 30 * time.Second

// videoURLPattern matches direct media URLs embedded in script blocks.
var videoURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+\.(?:mp4|mov|mkv|webm|avi)(?:\?[^\s"'<>]*)?`)

// Client fetches share pages and downloads video files.
type Client struct {
	httpClient *http.Client

	// Progress receives byte counts during download when set.
	Progress func(downloaded, total int64)
}

// NewClient creates a retrieval client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithHTTP creates a retrieval client with a custom HTTP
// client, used by tests and callers that need proxy or auth transport.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// Fetch resolves a share link and downloads the video into destDir.
// It returns the local file path. URLs that already point at a media
// file skip the resolution step.
func (c *Client) Fetch(ctx context.Context, shareURL, destDir string) (string, error) {
	target := shareURL
	if !looksLikeMediaURL(shareURL) {
		resolved, err := c.ResolveVideoURL(ctx, shareURL)
		if err != nil {
			return "", err
		}
		target = resolved
	}
	return c.Download(ctx, target, destDir)
}

// ResolveVideoURL fetches a share page and extracts the direct video
// URL from its markup.
func (c *Client) ResolveVideoURL(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", qcerrors.NewRetrievalError(fmt.Sprintf("invalid share URL %q", pageURL), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", qcerrors.NewRetrievalError("share page request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", qcerrors.NewRetrievalError(
			fmt.Sprintf("share page returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", qcerrors.NewRetrievalError("reading share page failed", err)
	}

	found := extractVideoURL(string(body))
	if found == "" {
		return "", qcerrors.NewRetrievalError("no video URL found on share page", nil)
	}
	return absoluteURL(resp.Request.URL, found), nil
}

// extractVideoURL walks the page markup looking for a direct media
// reference. Candidates in order of preference: video/source elements,
// anchors with a download attribute, anchors whose href looks like a
// media file, and URLs embedded in script text.
func extractVideoURL(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return videoURLPattern.FindString(page)
	}

	var fromSource, fromDownload, fromHref, fromScript string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "video", "source":
				if src := attr(n, "src"); src != "" && fromSource == "" {
					fromSource = src
				}
			case "a":
				href := attr(n, "href")
				if href != "" {
					if _, ok := lookupAttr(n, "download"); ok && fromDownload == "" {
						fromDownload = href
					}
					if looksLikeMediaURL(href) && fromHref == "" {
						fromHref = href
					}
				}
			case "script":
				if n.FirstChild != nil && fromScript == "" {
					fromScript = videoURLPattern.FindString(n.FirstChild.Data)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	for _, candidate := range []string{fromSource, fromDownload, fromHref, fromScript} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func attr(n *html.Node, name string) string {
	v, _ := lookupAttr(n, name)
	return v
}

func lookupAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func absoluteURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if base == nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

func looksLikeMediaURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return util.HasVideoExtension(parsed.Path)
}

// Download streams a video URL into destDir and returns the local path.
func (c *Client) Download(ctx context.Context, videoURL, destDir string) (string, error) {
	if err := util.EnsureDirectory(destDir); err != nil {
		return "", qcerrors.NewRetrievalError(fmt.Sprintf("cannot create directory %q", destDir), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", qcerrors.NewRetrievalError(fmt.Sprintf("invalid video URL %q", videoURL), err)
	}

	// Downloads run longer than page fetches; rely on ctx instead of
	// the client timeout.
	hc := &http.Client{Transport: c.httpClient.Transport}
	resp, err := hc.Do(req)
	if err != nil {
		return "", qcerrors.NewRetrievalError("video download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", qcerrors.NewRetrievalError(
			fmt.Sprintf("video download returned status %d", resp.StatusCode), nil)
	}

	name := Filename(resp.Header.Get("Content-Disposition"), videoURL)
	dest := filepath.Join(destDir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", qcerrors.NewRetrievalError(fmt.Sprintf("cannot create file %q", dest), err)
	}
	defer out.Close()

	reader := io.Reader(resp.Body)
	if c.Progress != nil {
		reader = &progressReader{
			inner:    resp.Body,
			total:    resp.ContentLength,
			progress: c.Progress,
		}
	}

	if _, err := io.Copy(out, reader); err != nil {
		os.Remove(dest)
		if ctx.Err() != nil {
			return "", qcerrors.NewRetrievalError("download interrupted", ctx.Err())
		}
		return "", qcerrors.NewRetrievalError("download interrupted", err)
	}
	return dest, nil
}

// Filename picks the local name for a download: the Content-Disposition
// filename when present, the URL path basename otherwise, and a
// generated name as a last resort.
func Filename(contentDisposition, videoURL string) string {
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if name := params["filename"]; name != "" {
				return filepath.Base(name)
			}
		}
	}

	if parsed, err := url.Parse(videoURL); err == nil {
		base := path.Base(parsed.Path)
		if base != "" && base != "." && base != "/" && util.HasVideoExtension(base) {
			return base
		}
	}

	return "video-" + uuid.NewString() + ".mp4"
}

type progressReader struct {
	inner      io.Reader
	total      int64
	downloaded int64
	progress   func(downloaded, total int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.inner.Read(buf)
	p.downloaded += int64(n)
	p.progress(p.downloaded, p.total)
	return n, err
}
