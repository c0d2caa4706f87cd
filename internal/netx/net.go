// Package netx provides small HTTP helpers shared by the transport-facing
// code.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadURL fetches the full body of url. A non-200 response is an error;
// the body is read into memory, which is fine for chat-sized files.
func DownloadURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
