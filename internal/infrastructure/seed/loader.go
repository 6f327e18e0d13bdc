// Package seed reads the tour seed file from disk or over HTTP.
package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"explore_tours/internal/domain/entity"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Loader struct {
	client *http.Client
}

// NewLoader fetches remote sources with client.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}

	return &Loader{client: client}
}

// LoadSeedTours decodes a JSON array of seed tours. Sources starting with
// http:// or https:// are fetched, anything else is a file path.
func (l *Loader) LoadSeedTours(ctx context.Context, source string) ([]entity.TourSeed, error) {
	body, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var seeds []entity.TourSeed
	if err := json.NewDecoder(body).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	return seeds, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("os.Open: %w", err)
		}

		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client.Do: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", source, resp.StatusCode)
	}

	return resp.Body, nil
}
