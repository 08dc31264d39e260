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
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		retries uint64
		calls   int
	}{
		{retries: 0, calls: 1},
		{retries: 1, calls: 2},
	}
	for _, c := range tests {
		calls := 0
		fail := errors.New("unavailable")
		log, hook := test.NewNullLogger()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := retry(ctx, log, c.retries, "fetch", func() error {
			calls++
			return fail
		})
		cancel()
		if err != fail {
			t.Errorf("%d retries: got error %v, want %v", c.retries, err, fail)
		}
		if calls != c.calls {
			t.Errorf("%d retries: got %d calls, want %d", c.retries, calls, c.calls)
		}
		if len(hook.Entries) != c.calls-1 {
			t.Errorf("%d retries: got %d log entries, want %d", c.retries, len(hook.Entries), c.calls-1)
		}
	}
}

func TestRetrySuccess(t *testing.T) {
	log, hook := test.NewNullLogger()
	calls := 0
	err := retry(context.Background(), log, 0, "fetch", func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("got %v after %d calls", err, calls)
	}
	if len(hook.Entries) != 0 {
		t.Errorf("got %d log entries, want none", len(hook.Entries))
	}
}
