/*
Copyright © 2025 the tmp2m authors.
This file is part of tmp2m.

tmp2m is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tmp2m is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tmp2m.  If not, see <http://www.gnu.org/licenses/>.
*/

package tmp2mutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or a blob storage location.
// If it is, it downloads the file to the staging directory and
// returns the path to the downloaded file.
func (t *transfers) maybeDownload(ctx context.Context, path string) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nil
	}

	// If the path starts with one of these prefixes, download the file and
	// return the location it was downloaded to.
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return t.downloadHTTP(ctx, path)
	}

	if IsBlob(path) {
		return t.downloadBlob(ctx, path)
	}

	return path, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file. Server errors are retried; client
// errors such as a missing file are not.
func (t *transfers) downloadHTTP(ctx context.Context, path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("tmp2mutil: parsing url '%s': %v", path, err)
	}
	local, err := t.localInput(u.Path)
	if err != nil {
		return "", err
	}

	var permanent error
	err = retry(ctx, t.log, t.retries, "download "+path, func() error {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		if err != nil {
			permanent = err
			return nil
		}
		resp, err := http.DefaultClient.Do(req.WithContext(ctx))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("server responded %s", resp.Status)
			if resp.StatusCode < http.StatusInternalServerError {
				permanent = err
				return nil
			}
			return err
		}
		return writeFile(local, resp.Body)
	})
	if err == nil {
		err = permanent
	}
	if err != nil {
		return "", fmt.Errorf("tmp2mutil: downloading '%s': %v", path, err)
	}
	t.logDownload(path, local)
	return local, nil
}

// downloadBlob downloads the specified file from blob storage and
// returns the path to the downloaded file.
func (t *transfers) downloadBlob(ctx context.Context, path string) (string, error) {
	bucketName, key, err := splitBlob(path)
	if err != nil {
		return "", err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return "", fmt.Errorf("tmp2mutil: opening bucket to download file '%s': %v", path, err)
	}
	local, err := t.localInput(key)
	if err != nil {
		return "", err
	}
	err = retry(ctx, t.log, t.retries, "download "+path, func() error {
		r, err := bucket.NewReader(ctx, key)
		if err != nil {
			return err
		}
		defer r.Close()
		return writeFile(local, r)
	})
	if err != nil {
		return "", fmt.Errorf("tmp2mutil: downloading '%s': %v", path, err)
	}
	t.logDownload(path, local)
	return local, nil
}

// localInput returns the staging location of a downloaded input
// whose remote path is name.
func (t *transfers) localInput(name string) (string, error) {
	dir, err := t.tempDir()
	if err != nil {
		return "", err
	}
	base := filepath.Base(name)
	if base == "." || base == "/" {
		base = "input.nc"
	}
	return filepath.Join(dir, "input-"+base), nil
}

func (t *transfers) logDownload(path, local string) {
	t.log.WithFields(logrus.Fields{
		"source": path,
		"file":   local,
	}).Info("downloaded input")
}

// writeFile replaces the contents of the named file with r.
func writeFile(name string, r io.Reader) error {
	w, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
