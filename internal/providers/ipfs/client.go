package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

const (
	DefaultAPIURL    = "https://api.pinata.cloud"
	DefaultUploadURL = "https://uploads.pinata.cloud"

	defaultMaxAttempts      = 3
	defaultInitialInterval  = time.Second
	defaultMaxInterval      = 4 * time.Second
	defaultPruneConcurrency = 4
	listPageLimit           = 100
)

// Config holds the Pinata settings
type Config struct {
	APIURL    string
	UploadURL string
	JWT       string
	Gateway   string

	// UploadMaxAttempts counts the first try; backoff doubles from UploadInitialInterval
	UploadMaxAttempts     int
	UploadInitialInterval time.Duration
	PruneConcurrency      int
}

// Client stores and removes content-addressed artifacts
//
//go:generate mockgen -source=client.go -destination=../../mocks/ipfs_client.go -package=mocks -mock_names=Client=MockIPFSClient
type Client interface {
	// Upload stores data under the logical name and returns its id and cid
	Upload(ctx context.Context, data []byte, name string, mimeType string) (*domain.UploadedArtifact, error)

	// Delete removes a file by id; a missing file is not an error
	Delete(ctx context.Context, id string) error

	// DeleteByCID removes the files with the cid and reports whether any existed.
	// A non-empty name restricts deletion to files with that logical name.
	DeleteByCID(ctx context.Context, cid string, name string) (bool, error)

	// PruneOlderByName deletes every file named name whose cid is not keepCID
	PruneOlderByName(ctx context.Context, name string, keepCID string) (int, error)

	// GatewayURL returns the public gateway URL of cid
	GatewayURL(cid string) string
}

type pinataFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CID       string `json:"cid"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`
	CreatedAt string `json:"created_at"`
}

type uploadResponse struct {
	Data pinataFile `json:"data"`
}

type listResponse struct {
	Data struct {
		Files         []pinataFile `json:"files"`
		NextPageToken string       `json:"next_page_token"`
	} `json:"data"`
}

type pinataClient struct {
	cfg   Config
	http  adapter.HTTPClient
	timer backoff.Timer
}

// NewClient creates a Pinata v3 client
func NewClient(cfg Config, httpClient adapter.HTTPClient) Client {
	return newClient(cfg, httpClient, nil)
}

// newClient allows tests to swap the backoff timer
func newClient(cfg Config, httpClient adapter.HTTPClient, timer backoff.Timer) *pinataClient {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.Gateway == "" {
		cfg.Gateway = domain.DEFAULT_IPFS_GATEWAY
	}
	if cfg.UploadMaxAttempts <= 0 {
		cfg.UploadMaxAttempts = defaultMaxAttempts
	}
	if cfg.UploadInitialInterval <= 0 {
		cfg.UploadInitialInterval = defaultInitialInterval
	}
	if cfg.PruneConcurrency <= 0 {
		cfg.PruneConcurrency = defaultPruneConcurrency
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.UploadURL = strings.TrimRight(cfg.UploadURL, "/")

	return &pinataClient{cfg: cfg, http: httpClient, timer: timer}
}

func (c *pinataClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.cfg.JWT}
}

func (c *pinataClient) uploadBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.UploadInitialInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = defaultMaxInterval
	b.MaxElapsedTime = 0

	//nolint:gosec,G115 // attempts is a small positive config value
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.UploadMaxAttempts-1)), ctx)
}

func (c *pinataClient) Upload(ctx context.Context, data []byte, name string, mimeType string) (*domain.UploadedArtifact, error) {
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}

	body, contentType, err := buildUploadForm(data, name, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	attempts := 0
	var result uploadResponse
	operation := func() error {
		attempts++
		respBody, err := c.http.Post(ctx, c.cfg.UploadURL+"/v3/files", contentType, c.headers(), body)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		if err := json.Unmarshal(respBody, &result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode upload response: %w", err))
		}
		if result.Data.CID == "" {
			return backoff.Permanent(errors.New("upload response carries no cid"))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Artifact upload failed, retrying",
			zap.String("name", name),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotifyWithTimer(operation, c.uploadBackOff(ctx), notify, c.timer); err != nil {
		return nil, &domain.ArtifactUploadError{Name: name, Attempts: attempts, Err: err}
	}

	logger.InfoCtx(ctx, "Artifact uploaded",
		zap.String("name", name),
		zap.String("cid", result.Data.CID),
		zap.String("id", result.Data.ID),
		zap.Int("attempts", attempts))

	return &domain.UploadedArtifact{
		ID:   result.Data.ID,
		CID:  result.Data.CID,
		Name: name,
	}, nil
}

func (c *pinataClient) Delete(ctx context.Context, id string) error {
	err := c.http.Delete(ctx, c.cfg.APIURL+"/v3/files/public/"+url.PathEscape(id), c.headers())
	if err == nil {
		return nil
	}

	var statusErr *adapter.HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("failed to delete file %s: %w", id, err)
}

func (c *pinataClient) DeleteByCID(ctx context.Context, cid string, name string) (bool, error) {
	if cid == "" {
		return false, nil
	}

	files, err := c.list(ctx, url.Values{"cid": []string{cid}})
	if err != nil {
		return false, err
	}

	deleted := false
	for _, f := range files {
		if f.CID != cid || (name != "" && f.Name != name) {
			continue
		}
		if err := c.Delete(ctx, f.ID); err != nil {
			return deleted, err
		}
		deleted = true
	}
	return deleted, nil
}

func (c *pinataClient) PruneOlderByName(ctx context.Context, name string, keepCID string) (int, error) {
	if keepCID == "" {
		logger.WarnCtx(ctx, "Refusing to prune without a cid to keep", zap.String("name", name))
		return 0, nil
	}

	files, err := c.list(ctx, url.Values{"name": []string{name}})
	if err != nil {
		return 0, err
	}

	var stale []pinataFile
	for _, f := range files {
		// name is a prefix filter on the list endpoint
		if f.Name == name && f.CID != keepCID {
			stale = append(stale, f)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	var deleted atomic.Int32
	var failures []error
	failed := make(chan error, len(stale))

	pool := pond.NewPool(c.cfg.PruneConcurrency, pond.WithContext(ctx))
	for _, f := range stale {
		pool.Submit(func() {
			if err := c.Delete(ctx, f.ID); err != nil {
				failed <- err
				return
			}
			deleted.Add(1)
		})
	}
	pool.StopAndWait()
	close(failed)

	for err := range failed {
		failures = append(failures, err)
	}

	logger.InfoCtx(ctx, "Pruned stale artifacts",
		zap.String("name", name),
		zap.String("keep", keepCID),
		zap.Int32("deleted", deleted.Load()),
		zap.Int("failed", len(failures)))

	return int(deleted.Load()), errors.Join(failures...)
}

func (c *pinataClient) list(ctx context.Context, query url.Values) ([]pinataFile, error) {
	var files []pinataFile
	pageToken := ""

	for {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("limit", fmt.Sprint(listPageLimit))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var resp listResponse
		if err := c.http.Get(ctx, c.cfg.APIURL+"/v3/files/public?"+q.Encode(), c.headers(), &resp); err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		files = append(files, resp.Data.Files...)
		if resp.Data.NextPageToken == "" || len(resp.Data.Files) == 0 {
			return files, nil
		}
		pageToken = resp.Data.NextPageToken
	}
}

func (c *pinataClient) GatewayURL(cid string) string {
	return fmt.Sprintf("https://%s/ipfs/%s", c.cfg.Gateway, cid)
}

// isRetryable reports whether an upload failure is transient
func isRetryable(err error) bool {
	var statusErr *adapter.HTTPStatusError
	if !errors.As(err, &statusErr) {
		return true
	}
	switch {
	case statusErr.StatusCode == http.StatusRequestTimeout,
		statusErr.StatusCode == http.StatusTooManyRequests,
		statusErr.StatusCode >= 500:
		return true
	default:
		return false
	}
}

func buildUploadForm(data []byte, name string, mimeType string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("name", name); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("network", "public"); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
