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
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/google/go-cloud/blob"
	"github.com/sirupsen/logrus"
)

// transfers stages remote input and output files in a temporary
// directory.
type transfers struct {
	// uploads is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	uploads [][2]string
	dir     string

	// retries is the maximum number of times a failed transfer
	// is retried.
	retries uint64
	log     logrus.FieldLogger
}

// tempDir returns the staging directory, creating it on first use.
func (t *transfers) tempDir() (string, error) {
	if t.dir == "" {
		dir, err := ioutil.TempDir("", "tmp2m")
		if err != nil {
			return "", fmt.Errorf("tmp2mutil: failed creating temporary directory: %v", err)
		}
		t.dir = dir
	}
	return t.dir, nil
}

// cleanup removes the staging directory and everything in it.
func (t *transfers) cleanup() {
	if t.dir == "" {
		return
	}
	if err := os.RemoveAll(t.dir); err != nil {
		t.log.WithError(err).Warn("removing temporary directory")
	}
	t.dir = ""
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// the uploadOutput method is run.
func (t *transfers) maybeUpload(path string) (string, error) {
	if !IsBlob(path) {
		return path, nil
	}
	_, key, err := splitBlob(path)
	if err != nil {
		return "", err
	}
	dir, err := t.tempDir()
	if err != nil {
		return "", err
	}
	local := filepath.Join(dir, "output-"+filepath.Base(key))
	t.uploads = append(t.uploads, [2]string{local, path})
	return local, nil
}

// uploadOutput copies each staged output file to its blob storage
// location.
func (t *transfers) uploadOutput(ctx context.Context) error {
	for _, files := range t.uploads {
		bucketName, key, err := splitBlob(files[1])
		if err != nil {
			return err
		}
		bucket, err := OpenBucket(ctx, bucketName)
		if err != nil {
			return fmt.Errorf("tmp2mutil: opening bucket to upload file '%s': %v", files[1], err)
		}
		err = retry(ctx, t.log, t.retries, "upload "+files[1], func() error {
			return upload(ctx, bucket, key, files[0])
		})
		if err != nil {
			return fmt.Errorf("tmp2mutil: uploading file '%s' to '%s': %v", files[0], files[1], err)
		}
		t.log.WithFields(logrus.Fields{
			"file":        files[0],
			"destination": files[1],
		}).Info("uploaded output")
	}
	return nil
}

// upload writes the contents of the local file to key in bucket.
func upload(ctx context.Context, bucket *blob.Bucket, key, local string) error {
	r, err := os.Open(local)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
