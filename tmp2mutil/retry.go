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
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// retry runs op until it succeeds, retrying failures with exponential
// backoff at most retries times. With zero retries op runs once. Each
// failure is logged with the given description of the operation.
func retry(ctx context.Context, log logrus.FieldLogger, retries uint64, what string, op func() error) error {
	// WithMaxRetries treats zero as no limit.
	var policy backoff.BackOff = &backoff.StopBackOff{}
	if retries > 0 {
		policy = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries)
	}
	b := backoff.WithContext(policy, ctx)
	return backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		log.WithFields(logrus.Fields{
			"operation": what,
			"error":     err,
			"retry_in":  d,
		}).Warn("transfer failed; retrying")
	})
}
